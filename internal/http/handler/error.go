package handler

import (
	"github.com/gofiber/fiber/v2"

	"docscan/internal/apperr"
)

// errorBody is the uniform error response shape. ExistingDoc is populated
// only for duplicate rejections so the caller can show the conflicting
// document.
type errorBody struct {
	Error       string `json:"error"`
	ExistingDoc any    `json:"existingDoc,omitempty"`
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindDuplicate:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError maps a pipeline error onto its status code and JSON body. This
// is the single place the kind-to-status mapping lives; an error of
// unrecognized kind collapses to 500 with a generic message.
func writeError(c *fiber.Ctx, err error) error {
	ae, ok := apperr.AsError(err)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).
			JSON(errorBody{Error: "Internal server error"})
	}
	body := errorBody{Error: ae.Message}
	if ae.Kind == apperr.KindDuplicate {
		body.ExistingDoc = ae.Existing
	}
	return c.Status(statusForKind(ae.Kind)).JSON(body)
}

// writeMessage emits a plain error body with an explicit status.
func writeMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorBody{Error: message})
}

// ErrorHandler returns a Fiber global error handler so errors escaping the
// handlers (routing failures included) keep the same response shape.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if _, ok := apperr.AsError(err); ok {
			return writeError(c, err)
		}
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
		switch status {
		case fiber.StatusNotFound:
			return writeMessage(c, status, "Resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeMessage(c, status, "Method not allowed")
		default:
			return writeMessage(c, fiber.StatusInternalServerError, "Internal server error")
		}
	}
}
