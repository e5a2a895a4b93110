package handler

import (
	"errors"
	"fmt"

	"waterlife-backoffice/internal/middleware"
	"waterlife-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// actorFrom builds the acting user from the JWT context (set by auth middleware).
func actorFrom(c *fiber.Ctx) service.Actor {
	var actor service.Actor
	if id, ok := c.Locals(middleware.LocalUserID).(string); ok {
		actor.ID, _ = uuid.Parse(id)
	}
	actor.Name, _ = c.Locals(middleware.LocalUserName).(string)
	actor.Email, _ = c.Locals(middleware.LocalUserEmail).(string)
	actor.Role, _ = c.Locals(middleware.LocalRole).(string)
	return actor
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(fmt.Sprint(c.Locals(middleware.LocalUserID)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}

// paramID parses the :id route parameter.
func paramID(c *fiber.Ctx, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+what+" ID")
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON")
	}
	return nil
}

// respondError writes the status a service error maps to. Unknown errors are
// returned to fiber's ErrorHandler.
func respondError(c *fiber.Ctx, err error) error {
	var stock *service.InsufficientStockError
	switch {
	case errors.As(err, &stock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     "Insufficient stock",
			"shortages": stock.Shortages,
		})
	case errors.Is(err, service.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return err
}

// ErrorHandler renders fiber errors as {"error": ...} and hides internal ones.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
