package http

import (
	"errors"
	"net/http"

	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// errorResponse maps a use case error to a status code and body.
func errorResponse(err error) (int, Error) {
	var incomplete *errs.InputIsIncompleteError

	switch {
	case errors.As(err, &incomplete):
		return http.StatusUnprocessableEntity, Error{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
			Fields:  incomplete.Fields,
		}
	case errors.Is(err, errs.ErrTransitionIsIllegal), errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict, Error{Code: http.StatusConflict, Message: err.Error()}
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, Error{Code: http.StatusNotFound, Message: err.Error()}
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: err.Error()}
	default:
		return http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		}
	}
}

func writeError(ctx echo.Context, err error) error {
	code, body := errorResponse(err)
	if code == http.StatusInternalServerError {
		ctx.Logger().Errorf("request %s %s failed: %v", ctx.Request().Method, ctx.Path(), err)
	}
	return ctx.JSON(code, body)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
