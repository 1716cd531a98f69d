package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/fitcircle/fitcircle/internal/db/controller"
)

// ErrInvalidBody is returned when the request body is not valid JSON for the endpoint.
var ErrInvalidBody = fmt.Errorf("%w: invalid request body", controller.ErrInvalid)

// ErrorResponse represents one failed field of a validation.
// The rejected value is never echoed, it may be a password.
type ErrorResponse struct {
	FailedField string `json:"field"`
	Tag         string `json:"tag"`
	Param       string `json:"param,omitempty"`
}

// ValidationError carries the failed fields of a request body.
type ValidationError struct {
	Fields []ErrorResponse
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	return fmt.Sprintf("validation failed on field %s (%s)", e.Fields[0].FailedField, e.Fields[0].Tag)
}

// Is makes validation errors match controller.ErrInvalid.
func (e *ValidationError) Is(target error) bool {
	return target == controller.ErrInvalid
}

var validate = validator.New() //nolint:gochecknoglobals

// Validate checks the struct tags of data.
func Validate(data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("%w: %w", controller.ErrInvalid, err)
	}

	ve := &ValidationError{Fields: make([]ErrorResponse, 0, len(errs))}
	for _, fe := range errs {
		ve.Fields = append(ve.Fields, ErrorResponse{
			FailedField: fe.Field(),
			Tag:         fe.Tag(),
			Param:       fe.Param(),
		})
	}

	return ve
}

// Parse decodes the body into out and validates it.
func Parse(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return ErrInvalidBody
	}

	return Validate(out)
}

// Page reads page and pageSize query parameters clamped by the feed settings.
func (e *Env) Page(c *fiber.Ctx) controller.Page {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	pageSize := c.QueryInt("pageSize", e.Cfg.Feed.DefaultPageSize)
	if pageSize < 1 || pageSize > e.Cfg.Feed.MaxPageSize {
		pageSize = e.Cfg.Feed.DefaultPageSize
	}

	return controller.Page{Page: page, PageSize: pageSize}
}
