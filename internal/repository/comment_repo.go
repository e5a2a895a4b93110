package repository

import (
	"context"
	"time"

	"waterlife-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindAll(ctx context.Context) ([]model.Comment, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	SetReply(ctx context.Context, id uuid.UUID, reply string, at time.Time, adminID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type commentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) CommentRepository {
	return &commentRepo{db}
}

func (r *commentRepo) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Omit("User", "RepliedBy").Create(comment).Error
}

func (r *commentRepo) FindAll(ctx context.Context) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).Preload("User").Preload("RepliedBy").Order("created_at DESC").Find(&comments).Error
	return comments, err
}

func (r *commentRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Preload("User").Preload("RepliedBy").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Preload("User").Preload("RepliedBy").First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// SetReply answers the comment once; a comment that already has a reply is left untouched.
func (r *commentRepo) SetReply(ctx context.Context, id uuid.UUID, reply string, at time.Time, adminID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ? AND reply IS NULL", id).
		Updates(map[string]interface{}{
			"reply":         reply,
			"replied_at":    at,
			"replied_by_id": adminID,
			"updated_by":    adminID.String(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyAnswered
	}
	return nil
}

func (r *commentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Comment{}, "id = ?", id).Error
}
