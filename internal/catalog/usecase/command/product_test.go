package command

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

func TestProductDerivedFieldsScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cat := f.category(t, "Electronics")
	p, err := NewCreateProductHandler(f.products, f.categories, f.brands, f.store).Handle(ctx, CreateProductCommand{
		Name:          "Phone",
		CategoryID:    cat.ID,
		PurchasePrice: decimal.NewFromInt(100),
		SalePrice:     decimal.NewFromInt(150),
		StockQuantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, p.ProfitMargin())
	assert.True(t, decimal.NewFromInt(50).Equal(p.ProfitAmount()))
	assert.False(t, p.IsOutOfStock())

	p, err = NewUpdateProductHandler(f.products, f.categories, f.brands, f.store).Handle(ctx, UpdateProductCommand{
		ID: p.ID, StockQuantity: intPtr(0),
	})
	require.NoError(t, err)
	assert.True(t, p.IsOutOfStock())
	assert.Equal(t, "Phone", p.Name)
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := NewCreateProductHandler(f.products, f.categories, f.brands, f.store)
	cat := f.category(t, "Tools")

	tests := []struct {
		name  string
		cmd   CreateProductCommand
		field string
	}{
		{"missing name", CreateProductCommand{CategoryID: cat.ID}, "name"},
		{"unknown category", CreateProductCommand{Name: "x", CategoryID: 42}, "category_id"},
		{"unknown brand", CreateProductCommand{Name: "x", CategoryID: cat.ID, BrandID: uintPtr(7)}, "brand_id"},
		{"negative price", CreateProductCommand{Name: "x", CategoryID: cat.ID, SalePrice: decimal.NewFromInt(-1)}, "prix_vente"},
		{"negative stock", CreateProductCommand{Name: "x", CategoryID: cat.ID, StockQuantity: -1}, "stock_quantity"},
		{"letters in ean", CreateProductCommand{Name: "x", CategoryID: cat.ID, EAN13: "12ab"}, "ean13"},
		{"ean too long", CreateProductCommand{Name: "x", CategoryID: cat.ID, EAN13: "12345678901234"}, "ean13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(ctx, tt.cmd)
			require.ErrorIs(t, err, apperror.ErrValidation)
			assert.Contains(t, apperror.FieldErrors(err), tt.field)
		})
	}
}

func TestProductEANConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cat := f.category(t, "Tools")

	first := f.product(t, "Hammer", cat.ID, "123")
	require.NotNil(t, first.EAN13)
	assert.Equal(t, "0000000000123", *first.EAN13)

	_, err := NewCreateProductHandler(f.products, f.categories, f.brands, f.store).Handle(ctx, CreateProductCommand{
		Name: "Copy", CategoryID: cat.ID, EAN13: "0000000000123",
	})
	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, 409, apperror.HTTPStatus(err))

	require.NoError(t, NewDeleteProductHandler(f.products).Handle(ctx, DeleteProductCommand{ID: first.ID}))
	f.product(t, "Replacement", cat.ID, "123")

	_, err = NewRestoreProductHandler(f.products, f.store).Handle(ctx, RestoreProductCommand{ID: first.ID})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestRestoreAndForceDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cat := f.category(t, "Tools")
	p := f.product(t, "Saw", cat.ID, "")
	f.upload(t, &p.ID, 2)

	restore := NewRestoreProductHandler(f.products, f.store)
	force := NewForceDeleteProductHandler(f.products, f.images, f.store)

	// live products cannot be purged, and restoring them changes nothing
	err := force.Handle(ctx, ForceDeleteProductCommand{ID: p.ID})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	got, err := restore.Handle(ctx, RestoreProductCommand{ID: p.ID})
	require.NoError(t, err)
	assert.False(t, got.IsTrashed())

	require.NoError(t, NewDeleteProductHandler(f.products).Handle(ctx, DeleteProductCommand{ID: p.ID}))
	got, err = restore.Handle(ctx, RestoreProductCommand{ID: p.ID})
	require.NoError(t, err)
	assert.False(t, got.IsTrashed())

	require.NoError(t, NewDeleteProductHandler(f.products).Handle(ctx, DeleteProductCommand{ID: p.ID}))
	require.NoError(t, force.Handle(ctx, ForceDeleteProductCommand{ID: p.ID}))

	_, err = f.products.FindByIDWithTrashed(ctx, p.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	orphans, err := f.images.CountOrphaned(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), orphans)
}

func TestUpdateStockByCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cat := f.category(t, "Tools")
	p := f.product(t, "Nail", cat.ID, "0000000000123")
	other := f.product(t, "Screw", cat.ID, "456")

	h := NewUpdateStockByCodeHandler(f.products, NewUpdateStockHandler(f.products, f.store))

	t.Run("short code is padded", func(t *testing.T) {
		got, err := h.Handle(ctx, UpdateStockByCodeCommand{EAN13: "123", StockQuantity: 40})
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, 40, got.StockQuantity)
	})

	t.Run("id wins over ean", func(t *testing.T) {
		got, err := h.Handle(ctx, UpdateStockByCodeCommand{ID: &other.ID, EAN13: "123", StockQuantity: 7})
		require.NoError(t, err)
		assert.Equal(t, other.ID, got.ID)

		unchanged, err := f.products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 40, unchanged.StockQuantity)
	})

	t.Run("zero id falls back to ean", func(t *testing.T) {
		got, err := h.Handle(ctx, UpdateStockByCodeCommand{ID: uintPtr(0), EAN13: "123", StockQuantity: 41})
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, 41, got.StockQuantity)

		_, err = h.Handle(ctx, UpdateStockByCodeCommand{ID: uintPtr(0), StockQuantity: 1})
		assert.ErrorIs(t, err, apperror.ErrValidation)

		_, err = h.Handle(ctx, UpdateStockByCodeCommand{EAN13: "123", StockQuantity: 40})
		require.NoError(t, err)
	})

	t.Run("unknown code never creates", func(t *testing.T) {
		_, err := h.Handle(ctx, UpdateStockByCodeCommand{EAN13: "999", StockQuantity: 1})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		_, err = h.Handle(ctx, UpdateStockByCodeCommand{ID: uintPtr(999), StockQuantity: 1})
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		all, err := f.products.FindAll(ctx, domain.ProductFilter{Trashed: domain.TrashedWith})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("neither id nor ean", func(t *testing.T) {
		_, err := h.Handle(ctx, UpdateStockByCodeCommand{StockQuantity: 1})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := h.Handle(ctx, UpdateStockByCodeCommand{EAN13: "123", StockQuantity: -3})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})
}
