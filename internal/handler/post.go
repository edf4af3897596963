package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stud0000299683/bd-special/internal/errs"
	"github.com/stud0000299683/bd-special/internal/repository"
	"github.com/stud0000299683/bd-special/internal/service"
)

var postNotFoundCode = "POST_NOT_FOUND"

func postNotFound() *errs.HTTPError {
	return errs.NewNotFoundError("Post not found", false, &postNotFoundCode)
}

type PostHandler struct {
	Handler
	posts *service.PostService
}

func NewPostHandler(h Handler, posts *service.PostService) *PostHandler {
	return &PostHandler{Handler: h, posts: posts}
}

// ListByUser answers with the user and their posts, newest first.
func (h *PostHandler) ListByUser() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *UserIDRequest) (*repository.UserWithPosts, error) {
		result, err := h.posts.ListByUser(c.Request().Context(), req.ID)
		if err != nil {
			return nil, err
		}
		if result == nil {
			return nil, userNotFound()
		}
		return result, nil
	}, http.StatusOK, func() *UserIDRequest { return &UserIDRequest{} })
}

// Create relies on the posts.user_id foreign key; an unknown user is a
// 400 from the global error handler.
func (h *PostHandler) Create() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *CreatePostRequest) (*repository.Post, error) {
		return h.posts.Create(c.Request().Context(), req.UserID, req.Title, req.Content)
	}, http.StatusCreated, func() *CreatePostRequest { return &CreatePostRequest{} })
}

func (h *PostHandler) Get() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *PostIDRequest) (*repository.Post, error) {
		post, err := h.posts.Get(c.Request().Context(), req.ID)
		if err != nil {
			return nil, err
		}
		if post == nil {
			return nil, postNotFound()
		}
		return post, nil
	}, http.StatusOK, func() *PostIDRequest { return &PostIDRequest{} })
}

func (h *PostHandler) Update() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *UpdatePostRequest) (*repository.Post, error) {
		post, err := h.posts.Update(c.Request().Context(), req.ID, req.toUpdate())
		if err != nil {
			return nil, err
		}
		if post == nil {
			return nil, postNotFound()
		}
		return post, nil
	}, http.StatusOK, func() *UpdatePostRequest { return &UpdatePostRequest{} })
}

func (h *PostHandler) Delete() echo.HandlerFunc {
	return HandleNoContent(h.Handler, func(c echo.Context, req *PostIDRequest) error {
		deleted, err := h.posts.Delete(c.Request().Context(), req.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return postNotFound()
		}
		return nil
	}, http.StatusNoContent, func() *PostIDRequest { return &PostIDRequest{} })
}
