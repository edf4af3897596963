package service

import (
	"context"

	"github.com/stud0000299683/bd-special/internal/document"
	"github.com/stud0000299683/bd-special/internal/errs"
)

type DocumentStats interface {
	CityStats(ctx context.Context) ([]document.CityStats, error)
	ActiveUsersByCity(ctx context.Context) ([]document.CityActive, error)
}

type DocumentService struct {
	store DocumentStats
}

// NewDocumentService accepts a nil store; every call then fails with 503.
func NewDocumentService(store *document.Store) *DocumentService {
	if store == nil {
		return &DocumentService{}
	}
	return &DocumentService{store: store}
}

func (s *DocumentService) CityStats(ctx context.Context) ([]document.CityStats, error) {
	if s.store == nil {
		return nil, errs.NewServiceUnavailableError("Document store is not available")
	}
	return s.store.CityStats(ctx)
}

func (s *DocumentService) ActiveUsersByCity(ctx context.Context) ([]document.CityActive, error) {
	if s.store == nil {
		return nil, errs.NewServiceUnavailableError("Document store is not available")
	}
	return s.store.ActiveUsersByCity(ctx)
}
