package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stud0000299683/bd-special/internal/handler"
)

func registerUserRoutes(g *echo.Group, h *handler.Handlers) {
	users := g.Group("/users")
	users.POST("", h.Users.Create())
	users.GET("", h.Users.List())
	users.GET("/:id", h.Users.Get())
	users.PATCH("/:id", h.Users.Update())
	users.DELETE("/:id", h.Users.Delete())
	users.GET("/:id/posts", h.Posts.ListByUser())
	users.POST("/:id/posts", h.Posts.Create())
}

func registerPostRoutes(g *echo.Group, h *handler.Handlers) {
	posts := g.Group("/posts")
	posts.GET("/:id", h.Posts.Get())
	posts.PATCH("/:id", h.Posts.Update())
	posts.DELETE("/:id", h.Posts.Delete())
}

func registerDocumentRoutes(g *echo.Group, h *handler.Handlers) {
	stats := g.Group("/documents/stats")
	stats.GET("/cities", h.Documents.CityStats())
	stats.GET("/active", h.Documents.ActiveByCity())
}
