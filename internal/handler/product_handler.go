package handler

import (
	"waterlife-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// Create stores a product with its bill of materials
// POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.service.Create(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

// Update replaces the product and its components
// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "product")
	if err != nil {
		return err
	}
	var req service.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.service.Update(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// PATCH /api/v1/products/:id/price
func (h *ProductHandler) SetPrice(c *fiber.Ctx) error {
	id, err := paramID(c, "product")
	if err != nil {
		return err
	}
	var req service.SetPriceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.service.SetPrice(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Price updated", "data": product})
}

// POST /api/v1/products/:id/reprice
func (h *ProductHandler) Reprice(c *fiber.Ctx) error {
	id, err := paramID(c, "product")
	if err != nil {
		return err
	}
	product, err := h.service.Reprice(c.UserContext(), id, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Price recomputed", "data": product})
}

// GET /api/v1/products/:id/suggested-price
func (h *ProductHandler) SuggestedPrice(c *fiber.Ctx) error {
	id, err := paramID(c, "product")
	if err != nil {
		return err
	}
	resp, err := h.service.SuggestedPrice(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "product")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *ProductHandler) GetAll(c *fiber.Ctx) error {
	products, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "product")
	if err != nil {
		return err
	}
	product, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}
