package repository

import (
	"context"

	"waterlife-backoffice/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RawMaterialRepository interface {
	Create(ctx context.Context, material *model.RawMaterial) error
	FindAll(ctx context.Context) ([]model.RawMaterial, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.RawMaterial, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.RawMaterial, error)
	UpdateDetails(ctx context.Context, material *model.RawMaterial) error
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Transactional
	LockByIDs(tx *gorm.DB, ids []uuid.UUID) ([]model.RawMaterial, error)
	ApplyPurchase(tx *gorm.DB, id uuid.UUID, version int64, stock int, averageCost decimal.Decimal, updatedBy string) error
	DecrementStock(tx *gorm.DB, id uuid.UUID, qty int, updatedBy string) error
}

type rawMaterialRepo struct {
	db *gorm.DB
}

func NewRawMaterialRepo(db *gorm.DB) RawMaterialRepository {
	return &rawMaterialRepo{db}
}

func (r *rawMaterialRepo) Create(ctx context.Context, material *model.RawMaterial) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *rawMaterialRepo) FindAll(ctx context.Context) ([]model.RawMaterial, error) {
	var materials []model.RawMaterial
	err := r.db.WithContext(ctx).Order("name").Find(&materials).Error
	return materials, err
}

func (r *rawMaterialRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.RawMaterial, error) {
	var material model.RawMaterial
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *rawMaterialRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.RawMaterial, error) {
	var materials []model.RawMaterial
	if len(ids) == 0 {
		return materials, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&materials).Error
	return materials, err
}

// UpdateDetails writes the descriptive fields only; stock and cost belong to purchases and sales.
func (r *rawMaterialRepo) UpdateDetails(ctx context.Context, material *model.RawMaterial) error {
	return r.db.WithContext(ctx).Model(&model.RawMaterial{}).
		Where("id = ?", material.ID).
		Updates(map[string]interface{}{
			"name":           material.Name,
			"unit":           material.Unit,
			"margin_percent": material.MarginPercent,
			"updated_by":     material.UpdatedBy,
		}).Error
}

// IsReferenced reports whether a product component or purchase line points at the raw material.
func (r *rawMaterialRepo) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)

	var components int64
	if err := db.Model(&model.ProductComponent{}).Where("raw_material_id = ?", id).Count(&components).Error; err != nil {
		return false, err
	}
	if components > 0 {
		return true, nil
	}

	var lines int64
	if err := db.Model(&model.PurchaseLine{}).Where("raw_material_id = ?", id).Count(&lines).Error; err != nil {
		return false, err
	}
	return lines > 0, nil
}

func (r *rawMaterialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.RawMaterial{}, "id = ?", id).Error
}

// LockByIDs loads the rows FOR UPDATE in id order so concurrent writers queue
// instead of deadlocking.
func (r *rawMaterialRepo) LockByIDs(tx *gorm.DB, ids []uuid.UUID) ([]model.RawMaterial, error) {
	var materials []model.RawMaterial
	if len(ids) == 0 {
		return materials, nil
	}
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&materials).Error
	return materials, err
}

// ApplyPurchase stores the blended stock and cost if nobody touched the row since version was read.
func (r *rawMaterialRepo) ApplyPurchase(tx *gorm.DB, id uuid.UUID, version int64, stock int, averageCost decimal.Decimal, updatedBy string) error {
	res := tx.Model(&model.RawMaterial{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"stock":        stock,
			"average_cost": averageCost,
			"version":      gorm.Expr("version + 1"),
			"updated_by":   updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}

// DecrementStock takes qty units only while enough stock remains.
func (r *rawMaterialRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, qty int, updatedBy string) error {
	res := tx.Model(&model.RawMaterial{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", qty),
			"version":    gorm.Expr("version + 1"),
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockChanged
	}
	return nil
}
