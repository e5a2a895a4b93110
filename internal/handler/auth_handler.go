package handler

import (
	"waterlife-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	response, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(response)
}

// Register creates a client account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"data":    user,
	})
}
