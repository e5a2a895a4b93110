package handler

import (
	"waterlife-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CommentHandler is the moderation side of client comments.
type CommentHandler struct {
	service service.CommentService
}

func NewCommentHandler(s service.CommentService) *CommentHandler {
	return &CommentHandler{service: s}
}

func (h *CommentHandler) GetAll(c *fiber.Ctx) error {
	comments, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(comments)
}

// Reply answers a comment once
// POST /api/v1/comments/:id/reply
func (h *CommentHandler) Reply(c *fiber.Ctx) error {
	id, err := paramID(c, "comment")
	if err != nil {
		return err
	}
	var req service.ReplyCommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := h.service.Reply(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reply sent", "data": comment})
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "comment")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
