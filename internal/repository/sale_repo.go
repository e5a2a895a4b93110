package repository

import (
	"context"
	"time"

	"waterlife-backoffice/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesTotal is an aggregate over a set of sales.
type SalesTotal struct {
	Total decimal.Decimal
	Count int64
}

type ClientTotal struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Total      decimal.Decimal `json:"total"`
	Count      int64           `json:"count"`
}

type ProductTotal struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Units     int64           `json:"units"`
	Total     decimal.Decimal `json:"total"`
}

type SaleRepository interface {
	FindAll(ctx context.Context) ([]model.Sale, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Sale, error)
	FindRecent(ctx context.Context, limit int) ([]model.Sale, error)
	FindBetween(ctx context.Context, from, to time.Time) ([]model.Sale, error)
	ProductsBoughtBy(ctx context.Context, customerID uuid.UUID) ([]model.Product, error)
	SumBetween(ctx context.Context, from, to time.Time) (SalesTotal, error)
	TopClients(ctx context.Context, limit int) ([]ClientTotal, error)
	TopProducts(ctx context.Context, limit int) ([]ProductTotal, error)

	// Transactional
	Create(tx *gorm.DB, sale *model.Sale) error
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func withSaleRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Product").Preload("Customer").Preload("CreatedByAdmin")
}

func (r *saleRepo) FindAll(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := withSaleRelations(r.db.WithContext(ctx)).Order("sold_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := withSaleRelations(r.db.WithContext(ctx)).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := withSaleRelations(r.db.WithContext(ctx)).
		Where("customer_id = ?", customerID).
		Order("sold_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindRecent(ctx context.Context, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	err := withSaleRelations(r.db.WithContext(ctx)).Order("sold_at DESC").Limit(limit).Find(&sales).Error
	return sales, err
}

// FindBetween returns sales with from <= sold_at < to, oldest first.
func (r *saleRepo) FindBetween(ctx context.Context, from, to time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := withSaleRelations(r.db.WithContext(ctx)).
		Where("sold_at >= ? AND sold_at < ?", from, to).
		Order("sold_at").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) ProductsBoughtBy(ctx context.Context, customerID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.Model(&model.Sale{}).Select("product_id").Where("customer_id = ?", customerID)).
		Order("name").
		Find(&products).Error
	return products, err
}

func (r *saleRepo) SumBetween(ctx context.Context, from, to time.Time) (SalesTotal, error) {
	var out SalesTotal
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Where("sold_at >= ? AND sold_at < ?", from, to).
		Scan(&out).Error
	return out, err
}

func (r *saleRepo) TopClients(ctx context.Context, limit int) ([]ClientTotal, error) {
	var out []ClientTotal
	err := r.db.WithContext(ctx).Table("sales").
		Select("sales.customer_id AS customer_id, users.name AS name, users.email AS email, SUM(sales.total) AS total, COUNT(*) AS count").
		Joins("JOIN users ON users.id = sales.customer_id").
		Group("sales.customer_id, users.name, users.email").
		Order("total DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *saleRepo) TopProducts(ctx context.Context, limit int) ([]ProductTotal, error) {
	var out []ProductTotal
	err := r.db.WithContext(ctx).Table("sales").
		Select("sales.product_id AS product_id, products.name AS name, SUM(sales.quantity) AS units, SUM(sales.total) AS total").
		Joins("JOIN products ON products.id = sales.product_id").
		Group("sales.product_id, products.name").
		Order("total DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Omit("Product", "Customer", "CreatedByAdmin").Create(sale).Error
}
