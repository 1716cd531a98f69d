// Package handler holds what the API handlers share: error responses, request parsing and routing.
package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fitcircle/fitcircle/internal/db/controller"
	"github.com/fitcircle/fitcircle/internal/metrics"
)

const internalErrorMessage = "internal server error"

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error  string          `json:"error"`
	Fields []ErrorResponse `json:"fields,omitempty"`
}

// Status maps an error to its http status code.
func Status(err error) int {
	var fe *fiber.Error

	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, controller.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, controller.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, controller.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, controller.ErrInvalid):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// Error writes the error response for err. Server errors are logged and hidden from the client.
func Error(c *fiber.Ctx, err error) error {
	status := Status(err)
	metrics.APIErrors.WithLabelValues(strconv.Itoa(status)).Inc()

	body := ErrorBody{Error: err.Error()}

	var ve *ValidationError
	if errors.As(err, &ve) {
		body.Fields = ve.Fields
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")

		body = ErrorBody{Error: internalErrorMessage}
	}

	return c.Status(status).JSON(body)
}

// ErrorHandler is the fiber error handler of the app.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return Error(c, err)
}
