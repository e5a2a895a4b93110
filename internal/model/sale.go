package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const SaleStatusCompleted = "COMPLETED"

// Sale records one product sold to a customer. UnitPrice is the product price
// at the moment of sale and does not follow later price changes.
type Sale struct {
	BaseModel
	SoldAt           time.Time       `gorm:"not null;index" json:"sold_at"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product          *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CustomerID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer         *User           `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"unit_price"`
	Total            decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total"`
	Status           string          `gorm:"type:varchar(20);not null" json:"status"`
	CreatedByAdminID *uuid.UUID      `gorm:"type:uuid" json:"created_by_admin_id,omitempty"`
	CreatedByAdmin   *User           `gorm:"foreignKey:CreatedByAdminID" json:"created_by_admin,omitempty"`
}

// SaleResponse is the API shape of a sale; nested users are reduced to refs.
type SaleResponse struct {
	ID             uuid.UUID       `json:"id"`
	SoldAt         time.Time       `json:"sold_at"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Total          decimal.Decimal `json:"total"`
	Status         string          `json:"status"`
	Product        *ProductRef     `json:"product,omitempty"`
	Customer       *UserRef        `json:"customer,omitempty"`
	CreatedByAdmin *UserRef        `json:"created_by_admin,omitempty"`
}

func (s *Sale) ToResponse() SaleResponse {
	return SaleResponse{
		ID:             s.ID,
		SoldAt:         s.SoldAt,
		Quantity:       s.Quantity,
		UnitPrice:      s.UnitPrice,
		Total:          s.Total,
		Status:         s.Status,
		Product:        s.Product.Ref(),
		Customer:       s.Customer.Ref(),
		CreatedByAdmin: s.CreatedByAdmin.Ref(),
	}
}
