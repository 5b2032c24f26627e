package middleware

import (
	"errors"
	"net/http"

	"quizflare/internal/domain"
	"quizflare/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request outside the two AI
// proxy endpoints. Errors lists per-field problems of a rejected request.
type ErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Details map[string]interface{}   `json:"details,omitempty"`
	Errors  []domain.ValidationError `json:"errors,omitempty"`
}

// ErrorHandler renders handler errors as ErrorResponse. Server-side
// failures are logged at error level, client mistakes at warn.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		resp, cause := resolve(err)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("code", resp.Code),
			zap.Int("status", resp.Status),
			zap.Error(cause),
		}
		if resp.Status >= http.StatusInternalServerError {
			logger.Get().Error("Request failed", fields...)
		} else {
			logger.Get().Warn("Request rejected", fields...)
		}
		return c.Status(resp.Status).JSON(resp)
	}
}

// resolve maps err onto a response and the error worth logging.
func resolve(err error) (ErrorResponse, error) {
	var validationErrs domain.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ErrorResponse{
			Code:    string(domain.CodeValidation),
			Message: "Request validation failed",
			Status:  http.StatusBadRequest,
			Errors:  validationErrs,
		}, err
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		resp := ErrorResponse{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Status:  statusOf(domainErr.Code),
		}
		if len(domainErr.Context) > 0 {
			resp.Details = domainErr.Context
		}
		return resp, domainErr.Cause
	}

	// fiber raises these for unknown routes and oversized bodies
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := "HTTP_ERROR"
		switch fiberErr.Code {
		case http.StatusNotFound:
			code = string(domain.CodeNotFound)
		case http.StatusRequestEntityTooLarge:
			code = "PAYLOAD_TOO_LARGE"
		}
		return ErrorResponse{Code: code, Message: fiberErr.Message, Status: fiberErr.Code}, nil
	}

	return ErrorResponse{
		Code:    string(domain.CodeInternal),
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	}, err
}

func statusOf(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNotFound, domain.CodeQuizNotFound, domain.CodeSessionNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeValidation, domain.CodeMissingField,
		domain.CodeInvalidFormat, domain.CodeOutOfRange:
		return http.StatusBadRequest
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeInvalidState:
		return http.StatusConflict
	case domain.CodeLLMServiceError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
