package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stud0000299683/bd-special/internal/document"
	"github.com/stud0000299683/bd-special/internal/errs"
	"github.com/stud0000299683/bd-special/internal/repository"
)

type fakePosts struct {
	byID map[int64]*repository.Post
}

func (f *fakePosts) Create(_ context.Context, userID int64, title, content string) (*repository.Post, error) {
	p := &repository.Post{ID: int64(len(f.byID) + 1), UserID: userID, Title: title, Content: content}
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakePosts) Get(_ context.Context, id int64) (*repository.Post, error) {
	return f.byID[id], nil
}

func (f *fakePosts) Update(_ context.Context, id int64, upd repository.PostUpdate) (bool, error) {
	p, ok := f.byID[id]
	if !ok {
		return false, nil
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	return true, nil
}

func (f *fakePosts) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := f.byID[id]
	delete(f.byID, id)
	return ok, nil
}

func (f *fakePosts) GetUserWithPosts(context.Context, int64) (*repository.UserWithPosts, error) {
	return nil, nil
}

func TestPostService_UpdateReturnsStoredPost(t *testing.T) {
	svc := NewPostService(&fakePosts{byID: map[int64]*repository.Post{}})
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "Hello", "World")
	require.NoError(t, err)

	title := "Bye"
	updated, err := svc.Update(ctx, created.ID, repository.PostUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Bye", updated.Title)
	assert.Equal(t, "World", updated.Content)
}

func TestPostService_UpdateMissing(t *testing.T) {
	svc := NewPostService(&fakePosts{byID: map[int64]*repository.Post{}})

	title := "x"
	post, err := svc.Update(context.Background(), 5, repository.PostUpdate{Title: &title})
	require.NoError(t, err)
	assert.Nil(t, post)
}

type fakeStats struct{}

func (fakeStats) CityStats(context.Context) ([]document.CityStats, error) {
	return []document.CityStats{{City: "Moscow", Count: 2, AvgAge: 30}}, nil
}

func (fakeStats) ActiveUsersByCity(context.Context) ([]document.CityActive, error) {
	return []document.CityActive{{City: "Moscow", ActiveUsers: 1}}, nil
}

func TestDocumentService(t *testing.T) {
	svc := &DocumentService{store: fakeStats{}}

	stats, err := svc.CityStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Moscow", stats[0].City)

	active, err := svc.ActiveUsersByCity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), active[0].ActiveUsers)
}

func TestDocumentService_Unavailable(t *testing.T) {
	svc := NewDocumentService(nil)

	_, err := svc.CityStats(context.Background())
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 503, httpErr.Status)
}
