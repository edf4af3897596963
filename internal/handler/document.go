package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stud0000299683/bd-special/internal/document"
	"github.com/stud0000299683/bd-special/internal/service"
)

type DocumentHandler struct {
	Handler
	documents *service.DocumentService
}

func NewDocumentHandler(h Handler, documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{Handler: h, documents: documents}
}

func (h *DocumentHandler) CityStats() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, _ *EmptyRequest) ([]document.CityStats, error) {
		return h.documents.CityStats(c.Request().Context())
	}, http.StatusOK, func() *EmptyRequest { return &EmptyRequest{} })
}

func (h *DocumentHandler) ActiveByCity() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, _ *EmptyRequest) ([]document.CityActive, error) {
		return h.documents.ActiveUsersByCity(c.Request().Context())
	}, http.StatusOK, func() *EmptyRequest { return &EmptyRequest{} })
}
