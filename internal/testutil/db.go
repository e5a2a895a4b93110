// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"testing"

	"waterlife-backoffice/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database. The pool is pinned to a
// single connection because every connection to ":memory:" is a fresh database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// SeedRoles inserts the default roles and returns them keyed by code.
func SeedRoles(t *testing.T, db *gorm.DB) map[string]model.Role {
	t.Helper()

	roles := make(map[string]model.Role, len(model.DefaultRoles))
	for _, r := range model.DefaultRoles {
		role := r
		require.NoError(t, db.Where(model.Role{Code: role.Code}).FirstOrCreate(&role).Error)
		roles[role.Code] = role
	}
	return roles
}

// CreateUser stores a user holding the given role with password "secret123".
func CreateUser(t *testing.T, db *gorm.DB, name, email string, role model.Role) *model.User {
	t.Helper()

	user := &model.User{Name: name, Email: email, Roles: []model.Role{role}}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateRawMaterial stores a raw material with the given stock, cost and margin.
func CreateRawMaterial(t *testing.T, db *gorm.DB, name string, stock int, cost, margin string) *model.RawMaterial {
	t.Helper()

	material := &model.RawMaterial{
		Name:          name,
		Unit:          "pieza",
		Stock:         stock,
		AverageCost:   decimal.RequireFromString(cost),
		MarginPercent: decimal.RequireFromString(margin),
	}
	require.NoError(t, db.Create(material).Error)
	return material
}

// Component is a shorthand for a bill-of-materials line.
func Component(material *model.RawMaterial, qty int) model.ProductComponent {
	return model.ProductComponent{RawMaterialID: material.ID, Quantity: qty}
}

// CreateProduct stores a product with its bill of materials.
func CreateProduct(t *testing.T, db *gorm.DB, name, price string, components ...model.ProductComponent) *model.Product {
	t.Helper()

	product := &model.Product{Name: name, Price: decimal.RequireFromString(price)}
	for i, c := range components {
		c.Position = i
		product.Components = append(product.Components, c)
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
