package model

// Role represents user roles in the system
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // ADMIN, CLIENT
	Name        string `gorm:"type:varchar(100)" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// Role codes as constants
const (
	RoleAdmin  = "ADMIN"
	RoleClient = "CLIENT"
)

// DefaultRoles defines the roles seeded on startup
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Back-office access: inventory, purchases, sales, users and comments",
	},
	{
		Code:        RoleClient,
		Name:        "Client",
		Description: "Customer access: own purchases, profile and comments",
	},
}
