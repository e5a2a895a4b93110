package repository

import (
	"context"
	"testing"
	"time"

	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSaleRepo_Aggregates(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSaleRepo(db)
	ctx := context.Background()
	roles := testutil.SeedRoles(t, db)
	ana := testutil.CreateUser(t, db, "Ana", "ana@example.com", roles[model.RoleClient])
	beto := testutil.CreateUser(t, db, "Beto", "beto@example.com", roles[model.RoleClient])
	garrafon := testutil.CreateProduct(t, db, "Garrafón", "40")
	botella := testutil.CreateProduct(t, db, "Botella", "10")

	now := time.Now().UTC()
	sell := func(customer *model.User, product *model.Product, qty int, at time.Time) {
		total := product.Price.Mul(decimal.NewFromInt(int64(qty)))
		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			return repo.Create(tx, &model.Sale{
				SoldAt: at, ProductID: product.ID, CustomerID: customer.ID,
				Quantity: qty, UnitPrice: product.Price, Total: total, Status: model.SaleStatusCompleted,
			})
		}))
	}
	sell(ana, garrafon, 2, now.Add(-time.Hour))   // 80
	sell(ana, botella, 1, now.Add(-2*time.Hour))  // 10
	sell(beto, botella, 5, now.Add(-3*time.Hour)) // 50

	t.Run("top clients by total", func(t *testing.T) {
		top, err := repo.TopClients(ctx, 5)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, ana.ID, top[0].CustomerID)
		assert.True(t, top[0].Total.Equal(decimal.NewFromInt(90)))
		assert.Equal(t, int64(2), top[0].Count)
	})

	t.Run("top products by total with units", func(t *testing.T) {
		top, err := repo.TopProducts(ctx, 5)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, garrafon.ID, top[0].ProductID)
		assert.Equal(t, int64(6), top[1].Units)
	})

	t.Run("sum between bounds", func(t *testing.T) {
		sum, err := repo.SumBetween(ctx, now.Add(-150*time.Minute), now)
		require.NoError(t, err)
		assert.Equal(t, int64(2), sum.Count)
		assert.True(t, sum.Total.Equal(decimal.NewFromInt(90)))
	})

	t.Run("customer history is newest first", func(t *testing.T) {
		sales, err := repo.FindByCustomer(ctx, ana.ID)
		require.NoError(t, err)
		require.Len(t, sales, 2)
		assert.Equal(t, garrafon.ID, sales[0].ProductID)
		assert.Equal(t, "Garrafón", sales[0].Product.Name)
	})

	t.Run("distinct products bought", func(t *testing.T) {
		products, err := repo.ProductsBoughtBy(ctx, ana.ID)
		require.NoError(t, err)
		assert.Len(t, products, 2)

		products, err = repo.ProductsBoughtBy(ctx, beto.ID)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, botella.ID, products[0].ID)
	})
}
