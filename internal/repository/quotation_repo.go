package repository

import (
	"context"

	"waterlife-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuotationRepository interface {
	Create(ctx context.Context, quotation *model.Quotation) error
	FindAll(ctx context.Context) ([]model.Quotation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error)
}

type quotationRepo struct {
	db *gorm.DB
}

func NewQuotationRepo(db *gorm.DB) QuotationRepository {
	return &quotationRepo{db}
}

func withQuotationLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Lines.Product")
}

// Create stores the quotation and its lines in one transaction.
func (r *quotationRepo) Create(ctx context.Context, quotation *model.Quotation) error {
	for i := range quotation.Lines {
		quotation.Lines[i].Position = i
	}
	return r.db.WithContext(ctx).Create(quotation).Error
}

func (r *quotationRepo) FindAll(ctx context.Context) ([]model.Quotation, error) {
	var quotations []model.Quotation
	err := withQuotationLines(r.db.WithContext(ctx)).Order("created_at DESC").Find(&quotations).Error
	return quotations, err
}

func (r *quotationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	var quotation model.Quotation
	if err := withQuotationLines(r.db.WithContext(ctx)).First(&quotation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quotation, nil
}
