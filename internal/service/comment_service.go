package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/repository"

	"github.com/google/uuid"
)

type CommentService interface {
	Create(ctx context.Context, req *CreateCommentRequest, actor Actor) (*model.CommentResponse, error)
	GetMine(ctx context.Context, userID uuid.UUID) ([]model.CommentResponse, error)
	GetAll(ctx context.Context) ([]model.CommentResponse, error)
	Reply(ctx context.Context, id uuid.UUID, req *ReplyCommentRequest, actor Actor) (*model.CommentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=3,max=500"`
}

type ReplyCommentRequest struct {
	Reply string `json:"reply" validate:"required,min=1,max=500"`
}

type commentService struct {
	repo repository.CommentRepository
	now  func() time.Time
}

func NewCommentService(repo repository.CommentRepository) CommentService {
	return &commentService{repo: repo, now: time.Now}
}

func (s *commentService) Create(ctx context.Context, req *CreateCommentRequest, actor Actor) (*model.CommentResponse, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := validate(req); err != nil {
		return nil, err
	}
	comment := &model.Comment{UserID: actor.ID, Text: req.Text}
	comment.CreatedBy = actor.audit()
	comment.UpdatedBy = actor.audit()
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.get(ctx, comment.ID)
}

func toCommentResponses(comments []model.Comment) []model.CommentResponse {
	out := make([]model.CommentResponse, len(comments))
	for i := range comments {
		out[i] = comments[i].ToResponse()
	}
	return out
}

func (s *commentService) GetMine(ctx context.Context, userID uuid.UUID) ([]model.CommentResponse, error) {
	comments, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toCommentResponses(comments), nil
}

func (s *commentService) GetAll(ctx context.Context) ([]model.CommentResponse, error) {
	comments, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toCommentResponses(comments), nil
}

// Reply answers an unanswered comment. Answered comments stay as they are.
func (s *commentService) Reply(ctx context.Context, id uuid.UUID, req *ReplyCommentRequest, actor Actor) (*model.CommentResponse, error) {
	req.Reply = strings.TrimSpace(req.Reply)
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetReply(ctx, id, req.Reply, s.now(), actor.ID); err != nil {
		if errors.Is(err, repository.ErrAlreadyAnswered) {
			return nil, conflictError("comment was already answered")
		}
		return nil, err
	}
	return s.get(ctx, id)
}

func (s *commentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *commentService) get(ctx context.Context, id uuid.UUID) (*model.CommentResponse, error) {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "comment")
	}
	resp := comment.ToResponse()
	return &resp, nil
}
