package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	BaseModel
	Name        string             `gorm:"type:varchar(255);not null" json:"name"`
	Description string             `gorm:"type:text" json:"description"`
	Price       decimal.Decimal    `gorm:"type:numeric(18,2);not null" json:"price"`
	Components  []ProductComponent `gorm:"foreignKey:ProductID" json:"components"`

	// Computed on read from the current raw-material costs, never stored.
	SuggestedPrice *decimal.Decimal `gorm:"-" json:"suggested_price,omitempty"`
}

// ProductComponent is one bill-of-materials line: Quantity units of a raw
// material per unit of product. Owned by the product and replaced wholesale.
type ProductComponent struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"-"`
	ProductID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"-"`
	RawMaterialID uuid.UUID    `gorm:"type:uuid;not null;index" json:"raw_material_id"`
	RawMaterial   *RawMaterial `gorm:"foreignKey:RawMaterialID" json:"raw_material,omitempty"`
	Quantity      int          `gorm:"not null" json:"quantity"`
	Position      int          `gorm:"not null;default:0" json:"-"`
}

// ProductRef is the short form embedded in sales and quotations.
type ProductRef struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

func (p *Product) Ref() *ProductRef {
	if p == nil {
		return nil
	}
	return &ProductRef{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price}
}

func (c *ProductComponent) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
