package rest

import (
	"context"
	"errors"
	"net/http"

	"refrescobot/business/admin"
	"refrescobot/business/recommend"
	"refrescobot/business/segmenter"
	"refrescobot/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, recommend.ErrNoAnswers),
		errors.Is(err, recommend.ErrInvalidRating),
		errors.Is(err, recommend.ErrInvalidEngineConfig):
		return http.StatusBadRequest
	case errors.Is(err, admin.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, recommend.ErrSessionNotFound),
		errors.Is(err, recommend.ErrBeverageNotFound),
		errors.Is(err, recommend.ErrPresentationNotFound):
		return http.StatusNotFound
	case errors.Is(err, segmenter.ErrRetrainInProgress):
		return http.StatusConflict
	case errors.Is(err, segmenter.ErrInsufficientSamples),
		errors.Is(err, segmenter.ErrNoValidBeverages):
		return http.StatusUnprocessableEntity
	case errors.Is(err, segmenter.ErrTrainingTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a service error to its status. Internal errors are logged
// and answered with a generic message.
func writeError(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error("handler_failed",
			"trace_id", recommend.TraceIDFromContext(c.Request().Context()),
			"path", c.Path(),
			"error", err,
		)
		return c.JSON(code, ResponseError{Message: "internal server error"})
	}
	return c.JSON(code, ResponseError{Message: err.Error()})
}
