package handler

import (
	"waterlife-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type QuotationHandler struct {
	service service.QuotationService
}

func NewQuotationHandler(s service.QuotationService) *QuotationHandler {
	return &QuotationHandler{service: s}
}

// Create prices and stores a quotation request; no login required
// POST /api/v1/quotations
func (h *QuotationHandler) Create(c *fiber.Ctx) error {
	var req service.CreateQuotationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	quotation, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Quotation created", "data": quotation})
}

func (h *QuotationHandler) GetAll(c *fiber.Ctx) error {
	quotations, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(quotations)
}

func (h *QuotationHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "quotation")
	if err != nil {
		return err
	}
	quotation, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quotation)
}
