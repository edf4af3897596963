package handler

import (
	"github.com/stud0000299683/bd-special/internal/repository"
	"github.com/stud0000299683/bd-special/internal/service"
	"github.com/stud0000299683/bd-special/internal/validation"
)

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"required,email,max=255"`
	Age   int    `json:"age" validate:"min=0,max=150"`
}

func (r *CreateUserRequest) Validate() error { return validation.Struct(r) }

// ListUsersRequest filters by a name substring or an inclusive age range.
// An age bound of -1 is open; newListUsersRequest sets both bounds to -1
// before binding.
type ListUsersRequest struct {
	Name   string `query:"name" validate:"max=100"`
	MinAge int    `query:"minAge" validate:"min=-1"`
	MaxAge int    `query:"maxAge" validate:"min=-1"`
}

func newListUsersRequest() *ListUsersRequest {
	return &ListUsersRequest{MinAge: -1, MaxAge: -1}
}

func (r *ListUsersRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.MinAge >= 0 && r.MaxAge >= 0 && r.MinAge > r.MaxAge {
		return validation.CustomValidationErrors{{Field: "maxage", Message: "must not be less than minage"}}
	}
	return nil
}

func (r *ListUsersRequest) toFilter() service.UserFilter {
	filter := service.UserFilter{Name: r.Name}
	if r.MinAge >= 0 {
		filter.MinAge = &r.MinAge
	}
	if r.MaxAge >= 0 {
		filter.MaxAge = &r.MaxAge
	}
	return filter
}

type UserIDRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
}

func (r *UserIDRequest) Validate() error { return validation.Struct(r) }

type UpdateUserRequest struct {
	ID    int64   `param:"id" json:"-" validate:"required,min=1"`
	Name  *string `json:"name" validate:"omitnil,min=1,max=100"`
	Email *string `json:"email" validate:"omitnil,email,max=255"`
	Age   *int    `json:"age" validate:"omitnil,min=0,max=150"`
}

func (r *UpdateUserRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.Name == nil && r.Email == nil && r.Age == nil {
		return validation.CustomValidationErrors{{Field: "body", Message: "at least one of name, email, age must be set"}}
	}
	return nil
}

func (r *UpdateUserRequest) toUpdate() repository.UserUpdate {
	return repository.UserUpdate{Name: r.Name, Email: r.Email, Age: r.Age}
}

type CreatePostRequest struct {
	UserID  int64  `param:"id" json:"-" validate:"required,min=1"`
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content"`
}

func (r *CreatePostRequest) Validate() error { return validation.Struct(r) }

type PostIDRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
}

func (r *PostIDRequest) Validate() error { return validation.Struct(r) }

type UpdatePostRequest struct {
	ID      int64   `param:"id" json:"-" validate:"required,min=1"`
	Title   *string `json:"title" validate:"omitnil,min=1,max=200"`
	Content *string `json:"content"`
}

func (r *UpdatePostRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.Title == nil && r.Content == nil {
		return validation.CustomValidationErrors{{Field: "body", Message: "at least one of title, content must be set"}}
	}
	return nil
}

func (r *UpdatePostRequest) toUpdate() repository.PostUpdate {
	return repository.PostUpdate{Title: r.Title, Content: r.Content}
}

// EmptyRequest is bound by endpoints without input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error { return nil }
