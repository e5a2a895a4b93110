package handler

import (
	"waterlife-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles user creation
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.userService.CreateUser(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"data":    user,
	})
}

// AssignRole replaces the roles of a user with one role
// PUT /api/v1/users/role
func (h *UserHandler) AssignRole(c *fiber.Ctx) error {
	var req service.AssignRoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.userService.AssignRole(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Role updated successfully",
		"data":    user,
	})
}

// GetUsers returns all users
// GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// GetUser returns a single user by ID
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "user")
	if err != nil {
		return err
	}

	user, err := h.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user)
}

// UpdateUser handles user update
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "user")
	if err != nil {
		return err
	}

	var req service.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateUser(c.UserContext(), userID, &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"data":    user,
	})
}

// DeleteUser handles user deletion
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "user")
	if err != nil {
		return err
	}

	if err := h.userService.DeleteUser(c.UserContext(), userID, actorFrom(c).ID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
