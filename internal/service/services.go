package service

import (
	"github.com/stud0000299683/bd-special/internal/cache"
	"github.com/stud0000299683/bd-special/internal/document"
	"github.com/stud0000299683/bd-special/internal/repository"
	"github.com/stud0000299683/bd-special/internal/server"
)

type Services struct {
	Users     *UserService
	Posts     *PostService
	Documents *DocumentService
}

// NewServices wires the services onto the server's stores. The user cache
// lives in Redis; when MongoDB is down the document service answers 503.
func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	userCache := cache.NewUserCache(cache.NewRedisStore(s.Redis), cache.DefaultUserTTL)

	var store *document.Store
	if s.Mongo != nil {
		store = document.NewStore(s.Mongo.Collection(), s.Logger)
	}

	return &Services{
		Users:     NewUserService(repos.Users, userCache, s.Job, s.Metrics, s.Logger),
		Posts:     NewPostService(repos.Posts),
		Documents: NewDocumentService(store),
	}
}
