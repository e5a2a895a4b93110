package handler

import (
	"waterlife-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

// MeHandler serves the signed-in user's own account, purchases and comments.
type MeHandler struct {
	userService    service.UserService
	saleService    service.SaleService
	commentService service.CommentService
}

func NewMeHandler(userService service.UserService, saleService service.SaleService, commentService service.CommentService) *MeHandler {
	return &MeHandler{
		userService:    userService,
		saleService:    saleService,
		commentService: commentService,
	}
}

// Profile returns the signed-in user
// GET /api/v1/me
func (h *MeHandler) Profile(c *fiber.Ctx) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// PUT /api/v1/me/name
func (h *MeHandler) UpdateName(c *fiber.Ctx) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req service.UpdateNameRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.userService.UpdateName(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Name updated successfully", "data": user})
}

// PUT /api/v1/me/email
func (h *MeHandler) UpdateEmail(c *fiber.Ctx) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req service.UpdateEmailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.userService.UpdateEmail(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Email updated successfully", "data": user})
}

// PUT /api/v1/me/password
func (h *MeHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req service.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.userService.ChangePassword(c.UserContext(), id, &req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// MySales lists the signed-in client's purchases, newest first
// GET /api/v1/me/sales
func (h *MeHandler) MySales(c *fiber.Ctx) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	sales, err := h.saleService.GetByCustomer(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sales)
}

// GET /api/v1/me/products
func (h *MeHandler) MyProducts(c *fiber.Ctx) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	products, err := h.saleService.ProductsBoughtBy(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// POST /api/v1/me/comments
func (h *MeHandler) CreateComment(c *fiber.Ctx) error {
	var req service.CreateCommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := h.commentService.Create(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Comment sent", "data": comment})
}

// GET /api/v1/me/comments
func (h *MeHandler) MyComments(c *fiber.Ctx) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	comments, err := h.commentService.GetMine(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}
