package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stud0000299683/bd-special/internal/sqlerr"
)

var postCols = []string{"id", "user_id", "title", "content", "created_at"}

func TestPostRepository_CreateUnknownUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO posts (user_id, title, content) VALUES ($1, $2, $3)`)).
		WithArgs(int64(42), "Hello", "World").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, TableName: "posts", ColumnName: "user_id"})

	post, err := repo.Create(context.Background(), 42, "Hello", "World")
	assert.Nil(t, post)
	assert.True(t, sqlerr.IsForeignKeyViolation(err))
}

func TestPostRepository_CreateManyCommits(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostRepository(mock)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(int64(1), "First", "a").
		WillReturnRows(mock.NewRows(postCols).AddRow(int64(10), int64(1), "First", "a", now))
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(int64(1), "Second", "b").
		WillReturnRows(mock.NewRows(postCols).AddRow(int64(11), int64(1), "Second", "b", now))
	mock.ExpectCommit()

	ids, err := repo.CreateMany(context.Background(), 1, []NewPost{
		{Title: "First", Content: "a"},
		{Title: "Second", Content: "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, ids)
}

func TestPostRepository_CreateManyRollsBack(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(int64(1), "First", "a").
		WillReturnRows(mock.NewRows(postCols).AddRow(int64(10), int64(1), "First", "a", time.Now()))
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(int64(1), "", "b").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.CheckViolation})
	mock.ExpectRollback()

	ids, err := repo.CreateMany(context.Background(), 1, []NewPost{
		{Title: "First", Content: "a"},
		{Title: "", Content: "b"},
	})
	assert.Nil(t, ids)
	assert.True(t, sqlerr.IsCheckViolation(err))
}

func TestPostRepository_CreateManyEmpty(t *testing.T) {
	repo := NewPostRepository(newMockPool(t))

	ids, err := repo.CreateMany(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPostRepository_GetMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery(`FROM posts WHERE id`).WithArgs(int64(5)).WillReturnError(pgx.ErrNoRows)

	post, err := repo.Get(context.Background(), 5)
	assert.NoError(t, err)
	assert.Nil(t, post)
}

func TestPostRepository_Update(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostRepository(mock)
	title := "Renamed"

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE posts SET title = $1 WHERE id = $2`)).
		WithArgs("Renamed", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	updated, err := repo.Update(context.Background(), 3, PostUpdate{Title: &title})
	require.NoError(t, err)
	assert.False(t, updated)

	_, err = repo.Update(context.Background(), 3, PostUpdate{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)
}

func TestPostRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM posts WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	deleted, err := repo.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestPostRepository_GetUserWithPosts(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`FROM users WHERE id`).
		WithArgs(int64(1)).
		WillReturnRows(mock.NewRows(userCols).AddRow(int64(1), "Ann", "ann@example.com", 30, now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM posts WHERE user_id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(mock.NewRows(postCols).
			AddRow(int64(11), int64(1), "Second", "b", now).
			AddRow(int64(10), int64(1), "First", "a", now))

	result, err := repo.GetUserWithPosts(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Ann", result.Name)
	require.Len(t, result.Posts, 2)
	assert.Equal(t, "Second", result.Posts[0].Title)
}

func TestPostRepository_GetUserWithPostsNoPosts(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery(`FROM users WHERE id`).
		WithArgs(int64(2)).
		WillReturnRows(mock.NewRows(userCols).AddRow(int64(2), "Bob", "bob@example.com", 41, time.Now()))
	mock.ExpectQuery(`FROM posts WHERE user_id`).
		WithArgs(int64(2)).
		WillReturnRows(mock.NewRows(postCols))

	result, err := repo.GetUserWithPosts(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, result.Posts)
	assert.Empty(t, result.Posts)
}

func TestPostRepository_GetUserWithPostsMissingUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery(`FROM users WHERE id`).WithArgs(int64(9)).WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetUserWithPosts(context.Background(), 9)
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestPostRepository_CreateUserWithPosts(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostRepository(mock)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Ann", "ann@example.com", 30).
		WillReturnRows(mock.NewRows(userCols).AddRow(int64(1), "Ann", "ann@example.com", 30, now))
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(int64(1), "Hi", "there").
		WillReturnRows(mock.NewRows(postCols).AddRow(int64(5), int64(1), "Hi", "there", now))
	mock.ExpectCommit()

	result, err := repo.CreateUserWithPosts(context.Background(), "Ann", "ann@example.com", 30, []NewPost{{Title: "Hi", Content: "there"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ID)
	require.Len(t, result.Posts, 1)
	assert.Equal(t, int64(1), result.Posts[0].UserID)
}

func TestPostRepository_CreateUserWithPostsRollsBackOnDuplicate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Ann", "ann@example.com", 30).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	mock.ExpectRollback()

	result, err := repo.CreateUserWithPosts(context.Background(), "Ann", "ann@example.com", 30, []NewPost{{Title: "Hi"}})
	assert.Nil(t, result)
	assert.True(t, sqlerr.IsUniqueViolation(err))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, `%ann%`, containsPattern("ann"))
	assert.Equal(t, `%a\\b%`, containsPattern(`a\b`))
	assert.Equal(t, `%\%\_%`, containsPattern("%_"))
}
