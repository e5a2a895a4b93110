package handler

import (
	"waterlife-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SupplierHandler struct {
	service service.SupplierService
}

func NewSupplierHandler(s service.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: s}
}

func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var req service.SupplierRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	supplier, err := h.service.Create(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Supplier created", "data": supplier})
}

func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "supplier")
	if err != nil {
		return err
	}
	var req service.SupplierRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	supplier, err := h.service.Update(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier updated", "data": supplier})
}

func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "supplier")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted"})
}

func (h *SupplierHandler) GetAll(c *fiber.Ctx) error {
	suppliers, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(suppliers)
}

func (h *SupplierHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "supplier")
	if err != nil {
		return err
	}
	supplier, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(supplier)
}
