package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase is append-only: lines are persisted as received and never re-derived.
type Purchase struct {
	BaseModel
	PurchasedAt time.Time       `gorm:"not null;index" json:"purchased_at"`
	SupplierID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier    *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Lines       []PurchaseLine  `gorm:"foreignKey:PurchaseID" json:"lines,omitempty"`
	Total       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total"`
}

type PurchaseLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PurchaseID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	RawMaterialID uuid.UUID       `gorm:"type:uuid;not null;index" json:"raw_material_id"`
	RawMaterial   *RawMaterial    `gorm:"foreignKey:RawMaterialID" json:"raw_material,omitempty"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	UnitCost      decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"unit_cost"`
	Position      int             `gorm:"not null;default:0" json:"-"`
}

func (l PurchaseLine) Subtotal() decimal.Decimal {
	return l.UnitCost.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l *PurchaseLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
