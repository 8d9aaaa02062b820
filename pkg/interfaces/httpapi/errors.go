package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vsinha/bidengine/pkg/application/dto"
	"github.com/vsinha/bidengine/pkg/application/services/orchestration"
	"github.com/vsinha/bidengine/pkg/domain/repositories"
)

func notFound(c echo.Context, id string) error {
	return c.JSON(http.StatusNotFound, dto.ErrorResponse{
		Error:   "not_found",
		Message: "RFP " + id + " was not found.",
	})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}

// engineError maps an engine error to a response, hiding internal details
func (s *Server) engineError(c echo.Context, id string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return notFound(c, id)
	case errors.Is(err, orchestration.ErrInvalidRFP):
		return badRequest(c, err.Error())
	}

	s.logger.Error("request failed",
		zap.String("path", c.Request().URL.Path),
		zap.String("rfp", id),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred. Please try again later.",
	})
}

// httpErrorHandler renders echo's own errors (unknown routes, bad methods) as JSON
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	} else {
		s.logger.Error("unhandled error", zap.String("path", c.Request().URL.Path), zap.Error(err))
	}

	resp := dto.ErrorResponse{Error: errorCode(code), Message: message}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, resp)
	}
	if err != nil {
		s.logger.Warn("failed to write error response", zap.Error(err))
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusBadRequest:
		return "validation_error"
	case http.StatusTooManyRequests:
		return "rate_limit_exceeded"
	default:
		return "internal_error"
	}
}
