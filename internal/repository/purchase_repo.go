package repository

import (
	"context"
	"time"

	"waterlife-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	FindAll(ctx context.Context) ([]model.Purchase, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	FindRecent(ctx context.Context, limit int) ([]model.Purchase, error)
	FindBetween(ctx context.Context, from, to time.Time) ([]model.Purchase, error)

	// Transactional
	Create(tx *gorm.DB, purchase *model.Purchase) error
}

type purchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &purchaseRepo{db}
}

func (r *purchaseRepo) FindAll(ctx context.Context) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.db.WithContext(ctx).Preload("Supplier").Order("purchased_at DESC").Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Lines.RawMaterial").
		First(&purchase, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepo) FindRecent(ctx context.Context, limit int) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.db.WithContext(ctx).Preload("Supplier").Order("purchased_at DESC").Limit(limit).Find(&purchases).Error
	return purchases, err
}

// FindBetween returns purchases with from <= purchased_at < to.
func (r *purchaseRepo) FindBetween(ctx context.Context, from, to time.Time) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.db.WithContext(ctx).
		Where("purchased_at >= ? AND purchased_at < ?", from, to).
		Order("purchased_at").
		Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepo) Create(tx *gorm.DB, purchase *model.Purchase) error {
	for i := range purchase.Lines {
		purchase.Lines[i].Position = i
	}
	return tx.Omit("Supplier").Create(purchase).Error
}
