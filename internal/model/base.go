package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel handles ID (UUID) and standard audit trails
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Audit user tracking
	CreatedBy string `gorm:"type:varchar(64)" json:"created_by,omitempty"`
	UpdatedBy string `gorm:"type:varchar(64)" json:"updated_by,omitempty"`
}

// BeforeCreate generates the UUID unless the caller already assigned one
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}
