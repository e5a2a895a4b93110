package repository

import (
	"context"

	"waterlife-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) error
	FindAll(ctx context.Context) ([]model.Supplier, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	Update(ctx context.Context, supplier *model.Supplier) error
	CountPurchases(ctx context.Context, id uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(ctx context.Context, supplier *model.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *supplierRepo) FindAll(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Order("name").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) Update(ctx context.Context, supplier *model.Supplier) error {
	return r.db.WithContext(ctx).Model(&model.Supplier{}).
		Where("id = ?", supplier.ID).
		Updates(map[string]interface{}{
			"name":       supplier.Name,
			"company":    supplier.Company,
			"email":      supplier.Email,
			"phone":      supplier.Phone,
			"address":    supplier.Address,
			"updated_by": supplier.UpdatedBy,
		}).Error
}

func (r *supplierRepo) CountPurchases(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).Where("supplier_id = ?", id).Count(&count).Error
	return count, err
}

func (r *supplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Supplier{}, "id = ?", id).Error
}
