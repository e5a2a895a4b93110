package handler

import (
	"waterlife-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type RawMaterialHandler struct {
	service service.RawMaterialService
}

func NewRawMaterialHandler(s service.RawMaterialService) *RawMaterialHandler {
	return &RawMaterialHandler{service: s}
}

func (h *RawMaterialHandler) Create(c *fiber.Ctx) error {
	var req service.RawMaterialRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	material, err := h.service.Create(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Raw material created", "data": material})
}

func (h *RawMaterialHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "raw material")
	if err != nil {
		return err
	}
	var req service.RawMaterialRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	material, err := h.service.Update(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Raw material updated", "data": material})
}

func (h *RawMaterialHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "raw material")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Raw material deleted"})
}

func (h *RawMaterialHandler) GetAll(c *fiber.Ctx) error {
	materials, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(materials)
}

func (h *RawMaterialHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "raw material")
	if err != nil {
		return err
	}
	material, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(material)
}
