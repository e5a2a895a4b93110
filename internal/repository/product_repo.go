package repository

import (
	"context"

	"waterlife-backoffice/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository interface {
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal, updatedBy string) error

	// Transactional
	Create(tx *gorm.DB, product *model.Product) error
	UpdateDetails(tx *gorm.DB, product *model.Product) error
	ReplaceComponents(tx *gorm.DB, productID uuid.UUID, components []model.ProductComponent) error
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func withComponents(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Components", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Components.RawMaterial")
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := withComponents(r.db.WithContext(ctx)).Order("name").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := withComponents(r.db.WithContext(ctx)).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

// IsReferenced reports whether sales or quotation lines point at the product.
func (r *productRepo) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)

	var sales int64
	if err := db.Model(&model.Sale{}).Where("product_id = ?", id).Count(&sales).Error; err != nil {
		return false, err
	}
	if sales > 0 {
		return true, nil
	}

	var lines int64
	if err := db.Model(&model.QuotationLine{}).Where("product_id = ?", id).Count(&lines).Error; err != nil {
		return false, err
	}
	return lines > 0, nil
}

func (r *productRepo) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal, updatedBy string) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"price":      price,
			"updated_by": updatedBy,
		}).Error
}

// Create inserts the product and its components.
func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	for i := range product.Components {
		product.Components[i].Position = i
	}
	return tx.Create(product).Error
}

func (r *productRepo) UpdateDetails(tx *gorm.DB, product *model.Product) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"updated_by":  product.UpdatedBy,
		}).Error
}

// ReplaceComponents deletes every component of the product and inserts the given ones.
func (r *productRepo) ReplaceComponents(tx *gorm.DB, productID uuid.UUID, components []model.ProductComponent) error {
	if err := tx.Where("product_id = ?", productID).Delete(&model.ProductComponent{}).Error; err != nil {
		return err
	}
	if len(components) == 0 {
		return nil
	}
	for i := range components {
		components[i].ID = uuid.Nil
		components[i].ProductID = productID
		components[i].Position = i
	}
	return tx.Omit("RawMaterial").Create(&components).Error
}

func (r *productRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("product_id = ?", id).Delete(&model.ProductComponent{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}
