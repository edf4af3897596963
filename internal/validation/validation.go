// Package validation binds request data and validates it.
//
// Request types carry `validate` struct tags for go-playground/validator
// and implement Validatable; failures are turned into field-level
// errs.HTTPError values the client can act on.
package validation

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct runs the tag validation shared by every request type.
func Struct(v any) error {
	return validate.Struct(v)
}
