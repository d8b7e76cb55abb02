package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusForError maps the application error taxonomy onto HTTP status codes.
// Validation failures are the client's fault, transition and version failures
// are conflicts, and business gate refusals are unprocessable.
func statusForError(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrAlreadyProcessed),
		errors.Is(err, errs.ErrVersionConflict),
		errors.Is(err, commands.ErrNoOrdersToRoute):
		return http.StatusConflict
	case errors.Is(err, errs.ErrCreditExceeded),
		errors.Is(err, errs.ErrInsufficientStock),
		errors.Is(err, commands.ErrCustomerCannotOrder):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the uniform error body for err. Internal failures hide
// the underlying message.
func respondError(ctx echo.Context, err error) error {
	code := statusForError(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "internal server error"
	}
	return ctx.JSON(code, ErrorResponse{Code: code, Message: message})
}
