package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Quotation is a priced request from a prospective customer. Immutable once stored.
type Quotation struct {
	BaseModel
	FullName string          `gorm:"type:varchar(255);not null" json:"full_name"`
	Email    string          `gorm:"type:varchar(255);not null" json:"email"`
	Phone    string          `gorm:"type:varchar(30);not null" json:"phone"`
	Company  string          `gorm:"type:varchar(255)" json:"company,omitempty"`
	Lines    []QuotationLine `gorm:"foreignKey:QuotationID" json:"lines"`
	Total    decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total"`
}

type QuotationLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	QuotationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"unit_price"`
	Position    int             `gorm:"not null;default:0" json:"-"`
}

func (l QuotationLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l *QuotationLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
