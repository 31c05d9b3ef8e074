// Package validator adapts go-playground/validator to Echo's Validator
// interface so handlers can declare constraints with struct tags.
package validator

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator wraps a single validator instance; validator.Validate is
// safe for concurrent use and caches struct metadata.
type RequestValidator struct {
	validate *validator.Validate
}

// New builds the Echo validator.
func New() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator. Constraint violations become 400
// responses so handlers can simply `return err` after c.Validate.
func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
