package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/egetrack/egetrack/internal/server/services"
)

type authRequest struct {
	Action   string `json:"action"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type userJSON struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userJSON `json:"user"`
}

func (s *Server) handleAuth(c *fiber.Ctx) error {
	var req authRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var result *services.AuthResult
	var err error

	switch req.Action {
	case "register":
		result, err = s.users.Register(c.UserContext(), req.Email, req.Password, req.Name)
	case "login":
		result, err = s.users.Login(c.UserContext(), req.Email, req.Password)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown action")
	}

	if err != nil {
		return err
	}

	return c.JSON(authResponse{
		Token: result.Token,
		User: userJSON{
			ID:    result.User.ID,
			Email: result.User.Email,
			Name:  result.User.Name,
		},
	})
}
