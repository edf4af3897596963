package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const postColumns = "id, user_id, title, content, created_at"

type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

func scanPost(row pgx.Row) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.CreatedAt)
	return p, err
}

func insertPost(ctx context.Context, db DBTX, userID int64, title, content string) (Post, error) {
	p, err := scanPost(db.QueryRow(ctx,
		`INSERT INTO posts (user_id, title, content) VALUES ($1, $2, $3) RETURNING `+postColumns,
		userID, title, content,
	))
	if err != nil {
		return Post{}, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

// Create inserts a post for userID. An unknown user fails with a foreign
// key violation.
func (r *PostRepository) Create(ctx context.Context, userID int64, title, content string) (*Post, error) {
	p, err := insertPost(ctx, r.db, userID, title, content)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateMany inserts all posts in one transaction and returns their ids in
// input order. Either every post is stored or none.
func (r *PostRepository) CreateMany(ctx context.Context, userID int64, posts []NewPost) ([]int64, error) {
	ids := make([]int64, 0, len(posts))
	if len(posts) == 0 {
		return ids, nil
	}

	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, np := range posts {
			p, err := insertPost(ctx, tx, userID, np.Title, np.Content)
			if err != nil {
				return err
			}
			ids = append(ids, p.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostRepository) Get(ctx context.Context, id int64) (*Post, error) {
	p, err := scanPost(r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update reports whether the post existed.
func (r *PostRepository) Update(ctx context.Context, id int64, upd PostUpdate) (bool, error) {
	var set setClause
	if upd.Title != nil {
		set.add("title", *upd.Title)
	}
	if upd.Content != nil {
		set.add("content", *upd.Content)
	}
	if set.empty() {
		return false, ErrEmptyUpdate
	}

	query := fmt.Sprintf(`UPDATE posts SET %s WHERE id = %s`, set.String(), set.nextArg(id))
	tag, err := r.db.Exec(ctx, query, set.args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListByUser returns the user's posts, newest first.
func (r *PostRepository) ListByUser(ctx context.Context, userID int64) ([]Post, error) {
	return listPosts(ctx, r.db, userID)
}

func listPosts(ctx context.Context, db DBTX, userID int64) ([]Post, error) {
	rows, err := db.Query(ctx,
		`SELECT `+postColumns+` FROM posts WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Post, error) {
		return scanPost(row)
	})
}

// GetUserWithPosts returns nil, nil when the user does not exist. A user
// without posts gets an empty, non-nil slice.
func (r *PostRepository) GetUserWithPosts(ctx context.Context, userID int64) (*UserWithPosts, error) {
	u, err := getUser(ctx, r.db, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	if err != nil || u == nil {
		return nil, err
	}

	posts, err := listPosts(ctx, r.db, userID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []Post{}
	}
	return &UserWithPosts{User: *u, Posts: posts}, nil
}

// CreateUserWithPosts stores a user and their posts atomically. A failure
// on any insert rolls the whole thing back.
func (r *PostRepository) CreateUserWithPosts(ctx context.Context, name, email string, age int, posts []NewPost) (*UserWithPosts, error) {
	var result UserWithPosts

	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		u, err := createUser(ctx, tx, name, email, age)
		if err != nil {
			return err
		}
		result.User = u
		result.Posts = make([]Post, 0, len(posts))

		for _, np := range posts {
			p, err := insertPost(ctx, tx, u.ID, np.Title, np.Content)
			if err != nil {
				return err
			}
			result.Posts = append(result.Posts, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
