package handlers_fiber

import (
	"errors"
	"net/http"

	"pr-risk-analyzer/internal/entities"

	"github.com/gofiber/fiber/v2"
)

// Machine-readable error codes returned in the error envelope.
const (
	codeInvalidEvent      = "INVALID_EVENT"
	codeInvalidArgument   = "INVALID_ARGUMENT"
	codeNotFound          = "NOT_FOUND"
	codeRemoteUnavailable = "REMOTE_UNAVAILABLE"
	codeInternal          = "INTERNAL"
)

// ErrorResponse is the error envelope of every non-2xx reply.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := codeInternal
	msg := err.Error()

	switch {
	case errors.Is(err, entities.ErrInvalidEvent):
		status = http.StatusBadRequest
		code = codeInvalidEvent
	case errors.Is(err, entities.ErrInvalidArgument):
		status = http.StatusBadRequest
		code = codeInvalidArgument
	case errors.Is(err, entities.ErrPRNotFound):
		status = http.StatusNotFound
		code = codeNotFound
		msg = "resource not found"
	case errors.Is(err, entities.ErrRemoteUnavailable):
		status = http.StatusServiceUnavailable
		code = codeRemoteUnavailable
		msg = "upstream provider unavailable"
	default:
		msg = "internal error"
	}

	return c.Status(status).JSON(errorResponse(code, msg))
}

func errorResponse(code, msg string) ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = msg
	return resp
}
