package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stud0000299683/bd-special/internal/errs"
	"github.com/stud0000299683/bd-special/internal/repository"
	"github.com/stud0000299683/bd-special/internal/service"
)

var userNotFoundCode = "USER_NOT_FOUND"

func userNotFound() *errs.HTTPError {
	return errs.NewNotFoundError("User not found", false, &userNotFoundCode)
}

type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(h Handler, users *service.UserService) *UserHandler {
	return &UserHandler{Handler: h, users: users}
}

func (h *UserHandler) Create() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *CreateUserRequest) (*repository.User, error) {
		return h.users.Create(c.Request().Context(), req.Name, req.Email, req.Age)
	}, http.StatusCreated, func() *CreateUserRequest { return &CreateUserRequest{} })
}

func (h *UserHandler) List() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *ListUsersRequest) ([]repository.User, error) {
		return h.users.List(c.Request().Context(), req.toFilter())
	}, http.StatusOK, newListUsersRequest)
}

func (h *UserHandler) Get() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *UserIDRequest) (*repository.User, error) {
		user, err := h.users.Get(c.Request().Context(), req.ID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, userNotFound()
		}
		return user, nil
	}, http.StatusOK, func() *UserIDRequest { return &UserIDRequest{} })
}

func (h *UserHandler) Update() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *UpdateUserRequest) (*repository.User, error) {
		user, err := h.users.Update(c.Request().Context(), req.ID, req.toUpdate())
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, userNotFound()
		}
		return user, nil
	}, http.StatusOK, func() *UpdateUserRequest { return &UpdateUserRequest{} })
}

func (h *UserHandler) Delete() echo.HandlerFunc {
	return HandleNoContent(h.Handler, func(c echo.Context, req *UserIDRequest) error {
		deleted, err := h.users.Delete(c.Request().Context(), req.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return userNotFound()
		}
		return nil
	}, http.StatusNoContent, func() *UserIDRequest { return &UserIDRequest{} })
}
