package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/egetrack/egetrack/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

// errorHandler translates domain errors into the fixed response envelope.
// An unowned resource and a missing one produce the same 404, so the API
// never leaks the existence of other users' subjects. Store failures are
// reduced to a generic message.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal error"

	var fiberErr *fiber.Error

	switch {
	case errors.Is(err, common.ErrorValidation):
		code = fiber.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, common.ErrorAlreadyExists):
		code = fiber.StatusBadRequest
		msg = "user with this email already exists"
	case errors.Is(err, common.ErrorUnauthorized):
		code = fiber.StatusUnauthorized
		msg = "invalid email or password"
	case errors.Is(err, common.ErrInvalidToken):
		code = fiber.StatusUnauthorized
		msg = "authorization required"
	case errors.Is(err, common.ErrorNotFound):
		code = fiber.StatusNotFound
		msg = "subject not found"
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		msg = fiberErr.Message
		if code == fiber.StatusMethodNotAllowed {
			msg = "method not allowed"
		}
	}

	if code == fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "request failed", "path", c.Path(), "error", err.Error())
	}

	return c.Status(code).JSON(errorResponse{Error: msg})
}
