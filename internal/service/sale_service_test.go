package service

import (
	"context"
	"errors"
	"testing"

	"waterlife-backoffice/internal/config"
	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleService_CreateDecrementsStock(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	ctx := context.Background()
	bottle := testutil.CreateRawMaterial(t, env.db, "Botella", 50, "3", "50")
	lid := testutil.CreateRawMaterial(t, env.db, "Tapa", 50, "1", "0")
	product := testutil.CreateProduct(t, env.db, "Garrafon 20L", "25.50",
		testutil.Component(bottle, 1), testutil.Component(lid, 2))
	customer := env.client(t, "Ana", "ana@example.com")

	result, err := env.sales.Create(ctx, &CreateSaleRequest{
		ProductID: product.ID, CustomerID: customer.ID, Quantity: 4,
	}, env.admin)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Sale.Quantity)
	assert.True(t, result.Sale.UnitPrice.Equal(decimal.RequireFromString("25.50")))
	assert.True(t, result.Sale.Total.Equal(decimal.NewFromInt(102)), "total %s", result.Sale.Total)
	assert.Equal(t, model.SaleStatusCompleted, result.Sale.Status)
	require.NotNil(t, result.Sale.Customer)
	assert.Equal(t, "ana@example.com", result.Sale.Customer.Email)
	require.NotNil(t, result.Sale.CreatedByAdmin)
	assert.Equal(t, env.admin.ID, result.Sale.CreatedByAdmin.ID)
	assert.Len(t, result.Consumed, 2)

	assert.Equal(t, 46, env.reloadMaterial(t, bottle).Stock)
	assert.Equal(t, 42, env.reloadMaterial(t, lid).Stock)
	assert.Equal(t, int64(1), env.count(t, &model.Sale{}))
	assert.Len(t, env.notifier.sales, 1)
	assert.Contains(t, env.events.actions(), "sale_created")
}

func TestSaleService_InsufficientStockChangesNothing(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	ctx := context.Background()
	material := testutil.CreateRawMaterial(t, env.db, "Filtro", 9, "2", "0")
	plenty := testutil.CreateRawMaterial(t, env.db, "Caja", 100, "1", "0")
	product := testutil.CreateProduct(t, env.db, "Kit filtro", "40",
		testutil.Component(plenty, 1), testutil.Component(material, 2))
	customer := env.client(t, "Luis", "luis@example.com")

	_, err := env.sales.Create(ctx, &CreateSaleRequest{
		ProductID: product.ID, CustomerID: customer.ID, Quantity: 5,
	}, env.admin)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, material.ID, stockErr.Shortages[0].RawMaterialID)
	assert.Equal(t, 9, stockErr.Shortages[0].Available)
	assert.Equal(t, 10, stockErr.Shortages[0].Required)

	assert.Equal(t, 9, env.reloadMaterial(t, material).Stock)
	assert.Equal(t, 100, env.reloadMaterial(t, plenty).Stock)
	assert.Zero(t, env.count(t, &model.Sale{}))
	assert.Empty(t, env.notifier.sales)
	assert.Empty(t, env.events.actions())
}

func TestSaleService_NotifierFailureKeepsSale(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	env.notifier.err = errors.New("smtp down")
	material := testutil.CreateRawMaterial(t, env.db, "Botella", 10, "3", "0")
	product := testutil.CreateProduct(t, env.db, "Botella 1L", "8", testutil.Component(material, 1))
	customer := env.client(t, "Eva", "eva@example.com")

	result, err := env.sales.Create(context.Background(), &CreateSaleRequest{
		ProductID: product.ID, CustomerID: customer.ID, Quantity: 2,
	}, env.admin)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.Sale.ID)
	assert.Equal(t, 8, env.reloadMaterial(t, material).Stock)
	assert.Equal(t, int64(1), env.count(t, &model.Sale{}))
}

func TestSaleService_RejectsBadRequests(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	ctx := context.Background()
	material := testutil.CreateRawMaterial(t, env.db, "Botella", 10, "3", "0")
	product := testutil.CreateProduct(t, env.db, "Botella 1L", "8", testutil.Component(material, 1))
	customer := env.client(t, "Eva", "eva@example.com")

	_, err := env.sales.Create(ctx, &CreateSaleRequest{ProductID: product.ID, CustomerID: customer.ID, Quantity: 0}, env.admin)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.sales.Create(ctx, &CreateSaleRequest{ProductID: product.ID, CustomerID: customer.ID, Quantity: 1_000_001}, env.admin)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.sales.Create(ctx, &CreateSaleRequest{ProductID: uuid.New(), CustomerID: customer.ID, Quantity: 1}, env.admin)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.sales.Create(ctx, &CreateSaleRequest{ProductID: product.ID, CustomerID: env.admin.ID, Quantity: 1}, env.admin)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, 10, env.reloadMaterial(t, material).Stock)
	assert.Zero(t, env.count(t, &model.Sale{}))
}

func TestSaleService_RejectsOverflowingRequirement(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	ctx := context.Background()
	material := testutil.CreateRawMaterial(t, env.db, "Sello", 5, "1", "0")
	product := testutil.CreateProduct(t, env.db, "Sello industrial", "8", testutil.Component(material, 1<<62))
	customer := env.client(t, "Eva", "eva@example.com")

	for _, qty := range []int{3, 4} {
		_, err := env.sales.Create(ctx, &CreateSaleRequest{ProductID: product.ID, CustomerID: customer.ID, Quantity: qty}, env.admin)
		assert.ErrorIs(t, err, ErrValidation, "quantity %d", qty)
	}

	assert.Equal(t, 5, env.reloadMaterial(t, material).Stock)
	assert.Zero(t, env.count(t, &model.Sale{}))
}

func TestSaleService_SequentialSalesDrainStockExactly(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	ctx := context.Background()
	material := testutil.CreateRawMaterial(t, env.db, "Botella", 6, "3", "0")
	product := testutil.CreateProduct(t, env.db, "Botella 1L", "8", testutil.Component(material, 2))
	customer := env.client(t, "Eva", "eva@example.com")

	var ok, rejected int
	for i := 0; i < 5; i++ {
		_, err := env.sales.Create(ctx, &CreateSaleRequest{ProductID: product.ID, CustomerID: customer.ID, Quantity: 1}, env.admin)
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, ErrConflict)
		rejected++
	}
	assert.Equal(t, 3, ok)
	assert.Equal(t, 2, rejected)
	assert.Zero(t, env.reloadMaterial(t, material).Stock)
}

func TestSaleService_CustomerHistory(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	ctx := context.Background()
	material := testutil.CreateRawMaterial(t, env.db, "Botella", 10, "3", "0")
	product := testutil.CreateProduct(t, env.db, "Botella 1L", "8", testutil.Component(material, 1))
	ana := env.client(t, "Ana", "ana@example.com")
	luis := env.client(t, "Luis", "luis@example.com")

	for i := 0; i < 2; i++ {
		_, err := env.sales.Create(ctx, &CreateSaleRequest{ProductID: product.ID, CustomerID: ana.ID, Quantity: 1}, env.admin)
		require.NoError(t, err)
	}

	sales, err := env.sales.GetByCustomer(ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, sales, 2)

	sales, err = env.sales.GetByCustomer(ctx, luis.ID)
	require.NoError(t, err)
	assert.Empty(t, sales)

	_, err = env.sales.GetByCustomer(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	bought, err := env.sales.ProductsBoughtBy(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, bought, 1)
	assert.Equal(t, product.ID, bought[0].ID)
}
