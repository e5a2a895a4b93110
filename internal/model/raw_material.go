package model

import "github.com/shopspring/decimal"

// RawMaterial is an input stocked in integer units and costed by weighted average.
// Stock and AverageCost are only mutated by purchases and sales; Version is bumped
// on every such mutation and guards conditional updates.
type RawMaterial struct {
	BaseModel
	Name          string          `gorm:"type:varchar(100);not null" json:"name"`
	Unit          string          `gorm:"type:varchar(20)" json:"unit"` // kg, litros, piezas
	Stock         int             `gorm:"not null;default:0" json:"stock"`
	AverageCost   decimal.Decimal `gorm:"type:numeric(18,6);not null" json:"average_cost"`
	MarginPercent decimal.Decimal `gorm:"type:numeric(9,2);not null" json:"margin_percent"`
	Version       int64           `gorm:"not null;default:0" json:"version"`
}
