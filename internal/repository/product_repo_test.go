package repository

import (
	"context"
	"testing"

	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestProductRepo_ReplaceComponents(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()
	a := testutil.CreateRawMaterial(t, db, "A", 5, "1", "0")
	b := testutil.CreateRawMaterial(t, db, "B", 5, "1", "0")
	c := testutil.CreateRawMaterial(t, db, "C", 5, "1", "0")
	p := testutil.CreateProduct(t, db, "Kit", "10", testutil.Component(a, 1), testutil.Component(b, 2))

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return repo.ReplaceComponents(tx, p.ID, []model.ProductComponent{
			testutil.Component(c, 3),
			testutil.Component(a, 4),
		})
	}))

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Components, 2)
	assert.Equal(t, c.ID, got.Components[0].RawMaterialID)
	assert.Equal(t, 3, got.Components[0].Quantity)
	assert.Equal(t, "C", got.Components[0].RawMaterial.Name)
	assert.Equal(t, a.ID, got.Components[1].RawMaterialID)

	var total int64
	require.NoError(t, db.Model(&model.ProductComponent{}).Count(&total).Error)
	assert.Equal(t, int64(2), total)
}

func TestProductRepo_DeleteRemovesComponents(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()
	a := testutil.CreateRawMaterial(t, db, "A", 5, "1", "0")
	p := testutil.CreateProduct(t, db, "Kit", "10", testutil.Component(a, 1))

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return repo.Delete(tx, p.ID)
	}))

	_, err := repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var total int64
	require.NoError(t, db.Model(&model.ProductComponent{}).Count(&total).Error)
	assert.Zero(t, total)
}
