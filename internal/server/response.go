package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ingestion"
	"github.com/spigell/resume-matcher/internal/reports"
	"github.com/spigell/resume-matcher/internal/scoring"
)

// Error kinds carried in the envelope.
const (
	KindInvalidInput    = string(scoring.KindInvalidInput)
	KindNotFound        = "not_found"
	KindPayloadTooLarge = "payload_too_large"
	KindInternal        = "internal"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Envelope wraps every API response.
type Envelope struct {
	Status string     `json:"status"`
	Data   any        `json:"data,omitempty"`
	Error  *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// apiError carries a kind and status through fiber's error handler.
type apiError struct {
	status  int
	kind    string
	message string
}

func (e *apiError) Error() string {
	return e.kind + ": " + e.message
}

func invalid(message string) error {
	return &apiError{status: fiber.StatusBadRequest, kind: KindInvalidInput, message: message}
}

func success(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Envelope{Status: statusSuccess, Data: data})
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status, kind, message := classify(err)

	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		message = "internal server error"
	}

	return c.Status(status).JSON(Envelope{
		Status: statusError,
		Error:  &ErrorBody{Kind: kind, Message: message},
	})
}

func classify(err error) (int, string, string) {
	var apiErr *apiError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &apiErr):
		return apiErr.status, apiErr.kind, apiErr.message
	case errors.Is(err, scoring.ErrInvalidInput),
		errors.Is(err, ingestion.ErrEmptyPayload),
		errors.Is(err, ingestion.ErrDecode):
		return fiber.StatusBadRequest, KindInvalidInput, err.Error()
	case errors.Is(err, ingestion.ErrTooLarge):
		return fiber.StatusRequestEntityTooLarge, KindPayloadTooLarge, err.Error()
	case errors.Is(err, reports.ErrNotFound):
		return fiber.StatusNotFound, KindNotFound, err.Error()
	case errors.As(err, &fiberErr):
		return fiberErr.Code, kindForStatus(fiberErr.Code), fiberErr.Message
	default:
		return fiber.StatusInternalServerError, KindInternal, err.Error()
	}
}

func kindForStatus(status int) string {
	switch {
	case status == fiber.StatusNotFound:
		return KindNotFound
	case status == fiber.StatusRequestEntityTooLarge:
		return KindPayloadTooLarge
	case status >= 400 && status < 500:
		return KindInvalidInput
	default:
		return KindInternal
	}
}
