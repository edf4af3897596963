package service

import (
	"context"

	"github.com/stud0000299683/bd-special/internal/repository"
)

type PostStore interface {
	Create(ctx context.Context, userID int64, title, content string) (*repository.Post, error)
	Get(ctx context.Context, id int64) (*repository.Post, error)
	Update(ctx context.Context, id int64, upd repository.PostUpdate) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetUserWithPosts(ctx context.Context, userID int64) (*repository.UserWithPosts, error)
}

type PostService struct {
	posts PostStore
}

func NewPostService(posts PostStore) *PostService {
	return &PostService{posts: posts}
}

// Create relies on the foreign key to reject unknown users.
func (s *PostService) Create(ctx context.Context, userID int64, title, content string) (*repository.Post, error) {
	return s.posts.Create(ctx, userID, title, content)
}

func (s *PostService) Get(ctx context.Context, id int64) (*repository.Post, error) {
	return s.posts.Get(ctx, id)
}

// ListByUser returns the author with their posts, newest first.
func (s *PostService) ListByUser(ctx context.Context, userID int64) (*repository.UserWithPosts, error) {
	return s.posts.GetUserWithPosts(ctx, userID)
}

// Update applies upd and returns the stored post.
func (s *PostService) Update(ctx context.Context, id int64, upd repository.PostUpdate) (*repository.Post, error) {
	updated, err := s.posts.Update(ctx, id, upd)
	if err != nil || !updated {
		return nil, err
	}
	return s.posts.Get(ctx, id)
}

func (s *PostService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.posts.Delete(ctx, id)
}
