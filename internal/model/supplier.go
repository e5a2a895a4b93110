package model

type Supplier struct {
	BaseModel
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	Company string `gorm:"type:varchar(100)" json:"company,omitempty"`
	Email   string `gorm:"type:varchar(100)" json:"email,omitempty"`
	Phone   string `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Address string `gorm:"type:text" json:"address,omitempty"`

	Purchases []Purchase `gorm:"foreignKey:SupplierID" json:"-"`
}
