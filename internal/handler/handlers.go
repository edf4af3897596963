package handler

import (
	"github.com/stud0000299683/bd-special/internal/server"
	"github.com/stud0000299683/bd-special/internal/service"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Health    *HealthHandler
	Metrics   *MetricsHandler
	Users     *UserHandler
	Posts     *PostHandler
	Documents *DocumentHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	base := NewHandler(s)
	return &Handlers{
		Health:    NewHealthHandler(s),
		Metrics:   NewMetricsHandler(s.Metrics),
		Users:     NewUserHandler(base, services.Users),
		Posts:     NewPostHandler(base, services.Posts),
		Documents: NewDocumentHandler(base, services.Documents),
	}
}
