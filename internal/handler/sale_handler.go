package handler

import (
	"waterlife-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// Create sells a product to a client, consuming raw-material stock
// POST /api/v1/sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var req service.CreateSaleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.service.Create(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Sale recorded", "data": result})
}

func (h *SaleHandler) GetAll(c *fiber.Ctx) error {
	sales, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(sales)
}

// GET /api/v1/sales/client/:id
func (h *SaleHandler) GetByClient(c *fiber.Ctx) error {
	id, err := paramID(c, "client")
	if err != nil {
		return err
	}
	sales, err := h.service.GetByCustomer(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sales)
}
