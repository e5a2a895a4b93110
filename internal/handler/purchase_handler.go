package handler

import (
	"waterlife-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PurchaseHandler struct {
	service service.PurchaseService
}

func NewPurchaseHandler(s service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: s}
}

// Create records a purchase and updates stock and average cost
// POST /api/v1/purchases
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var req service.CreatePurchaseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	purchase, err := h.service.Create(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Purchase recorded", "data": purchase})
}

func (h *PurchaseHandler) GetAll(c *fiber.Ctx) error {
	purchases, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(purchases)
}

func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "purchase")
	if err != nil {
		return err
	}
	purchase, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(purchase)
}

// GET /api/v1/purchases/summary
func (h *PurchaseHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// GET /api/v1/purchases/recent
func (h *PurchaseHandler) Recent(c *fiber.Ctx) error {
	purchases, err := h.service.Recent(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(purchases)
}
