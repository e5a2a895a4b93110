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

func TestRawMaterialService_CRUD(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	ctx := context.Background()

	_, err := env.materials.Create(ctx, &RawMaterialRequest{Name: ""}, env.admin)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.materials.Create(ctx, &RawMaterialRequest{Name: "Tapa", MarginPercent: decimal.NewFromInt(-1)}, env.admin)
	assert.ErrorIs(t, err, ErrValidation)

	material, err := env.materials.Create(ctx, &RawMaterialRequest{Name: "Tapa", Unit: "pieza", MarginPercent: decimal.NewFromInt(30)}, env.admin)
	require.NoError(t, err)
	assert.Zero(t, material.Stock)
	assert.True(t, material.AverageCost.IsZero())

	updated, err := env.materials.Update(ctx, material.ID, &RawMaterialRequest{Name: "Tapa azul", Unit: "pieza", MarginPercent: decimal.NewFromInt(40)}, env.admin)
	require.NoError(t, err)
	assert.Equal(t, "Tapa azul", updated.Name)
	assert.True(t, updated.MarginPercent.Equal(decimal.NewFromInt(40)))

	_, err = env.materials.Update(ctx, uuid.New(), &RawMaterialRequest{Name: "X"}, env.admin)
	assert.ErrorIs(t, err, ErrNotFound)

	testutil.CreateProduct(t, env.db, "Garrafon", "10", model.ProductComponent{RawMaterialID: material.ID, Quantity: 1})
	assert.ErrorIs(t, env.materials.Delete(ctx, material.ID), ErrConflict)

	loose, err := env.materials.Create(ctx, &RawMaterialRequest{Name: "Etiqueta"}, env.admin)
	require.NoError(t, err)
	require.NoError(t, env.materials.Delete(ctx, loose.ID))

	all, err := env.materials.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSupplierService_DeleteBlockedByPurchases(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	ctx := context.Background()
	used := env.supplier(t, "Usado")
	unused := env.supplier(t, "Libre")
	material := testutil.CreateRawMaterial(t, env.db, "Tapa", 0, "0", "0")

	_, err := env.purchases.Create(ctx, &CreatePurchaseRequest{
		SupplierID: used.ID,
		Lines:      []PurchaseLineRequest{{RawMaterialID: material.ID, Quantity: 1, UnitCost: decimal.NewFromInt(1)}},
	}, env.admin)
	require.NoError(t, err)

	assert.ErrorIs(t, env.suppliers.Delete(ctx, used.ID), ErrConflict)
	require.NoError(t, env.suppliers.Delete(ctx, unused.ID))
	assert.ErrorIs(t, env.suppliers.Delete(ctx, unused.ID), ErrNotFound)

	_, err = env.suppliers.Create(ctx, &SupplierRequest{Name: "Malo", Email: "no-es-correo"}, env.admin)
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := env.suppliers.Update(ctx, used.ID, &SupplierRequest{Name: "Usado SA", Company: "Usado"}, env.admin)
	require.NoError(t, err)
	assert.Equal(t, "Usado SA", updated.Name)
}

func TestCommentService_ReplyOnce(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	ctx := context.Background()
	author := env.client(t, "Ana", "ana@example.com")
	actor := Actor{ID: author.ID, Name: author.Name, Email: author.Email, Role: model.RoleClient}

	_, err := env.comments.Create(ctx, &CreateCommentRequest{Text: "  a "}, actor)
	assert.ErrorIs(t, err, ErrValidation)

	comment, err := env.comments.Create(ctx, &CreateCommentRequest{Text: "  ¿Entregan en domingo?  "}, actor)
	require.NoError(t, err)
	assert.Equal(t, "¿Entregan en domingo?", comment.Text)

	replied, err := env.comments.Reply(ctx, comment.ID, &ReplyCommentRequest{Reply: "Sí, hasta las 2pm"}, env.admin)
	require.NoError(t, err)
	require.NotNil(t, replied.Reply)
	assert.Equal(t, "Sí, hasta las 2pm", *replied.Reply)

	_, err = env.comments.Reply(ctx, comment.ID, &ReplyCommentRequest{Reply: "Otra"}, env.admin)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.comments.Reply(ctx, uuid.New(), &ReplyCommentRequest{Reply: "Otra"}, env.admin)
	assert.ErrorIs(t, err, ErrNotFound)

	mine, err := env.comments.GetMine(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Sí, hasta las 2pm", *mine[0].Reply)

	require.NoError(t, env.comments.Delete(ctx, comment.ID))
	all, err := env.comments.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestQuotationService_Create(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	ctx := context.Background()
	a := testutil.CreateProduct(t, env.db, "Garrafon", "10")
	b := testutil.CreateProduct(t, env.db, "Botella", "5")

	quotation, err := env.quotations.Create(ctx, &CreateQuotationRequest{
		FullName: "Carla Ruiz",
		Email:    "Carla@Example.com",
		Phone:    "5551234567",
		Lines: []QuotationLineRequest{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.True(t, quotation.Total.Equal(decimal.NewFromInt(35)), "total %s", quotation.Total)
	assert.Equal(t, "carla@example.com", quotation.Email)
	require.Len(t, quotation.Lines, 2)
	assert.Equal(t, "Garrafon", quotation.Lines[0].Product.Name)

	stored, err := env.quotations.GetByID(ctx, quotation.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(quotation.Total))
	sum := decimal.Zero
	for _, l := range stored.Lines {
		sum = sum.Add(l.Subtotal())
	}
	assert.True(t, sum.Equal(stored.Total))

	require.Len(t, env.notifier.quotations, 1)
	assert.Equal(t, quotation.ID, env.notifier.quotations[0].ID)
	assert.Contains(t, env.events.actions(), "quotation_created")
}

func TestQuotationService_RejectsUnknownProduct(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)

	_, err := env.quotations.Create(context.Background(), &CreateQuotationRequest{
		FullName: "Carla Ruiz",
		Email:    "carla@example.com",
		Phone:    "5551234567",
		Lines:    []QuotationLineRequest{{ProductID: uuid.New(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, env.count(t, &model.Quotation{}))
	assert.Empty(t, env.notifier.quotations)
}

func TestQuotationService_EmailFailureKeepsQuotation(t *testing.T) {
	env := newTestEnv(t, config.PricingManual)
	env.notifier.err = errors.New("smtp down")
	p := testutil.CreateProduct(t, env.db, "Garrafon", "10")

	quotation, err := env.quotations.Create(context.Background(), &CreateQuotationRequest{
		FullName: "Carla Ruiz",
		Email:    "carla@example.com",
		Phone:    "5551234567",
		Lines:    []QuotationLineRequest{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, quotation.ID)
	assert.Equal(t, int64(1), env.count(t, &model.Quotation{}))
}
