package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/egetrack/egetrack/internal/server/auth"
)

// authTokenHeader carries the bearer token; the name is part of the frontend
// contract.
const authTokenHeader = "X-Auth-Token"

const userIDKey = "userID"

// requireAuth verifies the bearer token and stores the caller's user id in
// the request locals. It rejects before any resource is looked up.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	token := c.Get(authTokenHeader)
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "authorization required")
	}

	userID, _, err := auth.Verify(token, s.secret)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "authorization required")
	}

	c.Locals(userIDKey, userID)
	return c.Next()
}

// callerID returns the authenticated user id placed by requireAuth.
func callerID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(userIDKey).(int64)
	return id
}

// requestLogger logs one line per request with a correlatable request id.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	reqID := uuid.NewString()

	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	s.logger.Info(c.UserContext(), "request",
		"req_id", reqID,
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration", time.Since(start).String(),
	)

	return err
}
