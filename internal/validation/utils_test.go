package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stud0000299683/bd-special/internal/errs"
)

type createRequest struct {
	ID    int64  `param:"id" json:"-" validate:"required,min=1"`
	Name  string `json:"name" validate:"required,min=1,max=10"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"min=0,max=150"`
}

func (r *createRequest) Validate() error { return Struct(r) }

type patchRequest struct {
	Name *string `json:"name"`
}

func (r *patchRequest) Validate() error {
	if r.Name == nil {
		return CustomValidationErrors{{Field: "body", Message: "at least one field must be set"}}
	}
	return nil
}

func newContext(method, body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, "/users/7", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("7")
	return c
}

func TestBindAndValidate_OK(t *testing.T) {
	var req createRequest
	err := BindAndValidate(newContext(http.MethodPost, `{"name":"Ann","email":"ann@example.com","age":30}`), &req)
	require.NoError(t, err)
	assert.Equal(t, int64(7), req.ID)
	assert.Equal(t, "Ann", req.Name)
}

func TestBindAndValidate_FieldErrors(t *testing.T) {
	var req createRequest
	err := BindAndValidate(newContext(http.MethodPost, `{"name":"","email":"nope","age":-1}`), &req)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.True(t, httpErr.Override)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "name", Error: "is required"},
		{Field: "email", Error: "must be a valid email address"},
		{Field: "age", Error: "must be at least 0"},
	}, httpErr.Errors)
}

func TestBindAndValidate_MalformedBody(t *testing.T) {
	var req createRequest
	err := BindAndValidate(newContext(http.MethodPost, `{"age":"old"}`), &req)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.False(t, httpErr.Override)
	assert.NotEmpty(t, httpErr.Message)
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	var req patchRequest
	err := BindAndValidate(newContext(http.MethodPatch, `{}`), &req)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, []errs.FieldError{{Field: "body", Error: "at least one field must be set"}}, httpErr.Errors)
}
