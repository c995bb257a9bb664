package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

func TestCreateBrand(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := NewCreateBrandHandler(f.brands, f.store)

	t.Run("defaults to active", func(t *testing.T) {
		b, err := h.Handle(ctx, CreateBrandCommand{Name: "Acme"})
		require.NoError(t, err)
		assert.True(t, b.IsActive)
		assert.True(t, b.IsRoot())
	})

	t.Run("unknown parent", func(t *testing.T) {
		_, err := h.Handle(ctx, CreateBrandCommand{Name: "Orphan", ParentID: uintPtr(99)})
		assert.ErrorIs(t, err, apperror.ErrValidation)
		assert.Contains(t, apperror.FieldErrors(err), "parent_id")
	})

	t.Run("name required", func(t *testing.T) {
		_, err := h.Handle(ctx, CreateBrandCommand{Name: "  "})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})
}

func TestUpdateBrandRejectsCycles(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := NewUpdateBrandHandler(f.brands, f.store)

	root := f.brand(t, "Root", nil)
	child := f.brand(t, "Child", &root.ID)
	grandchild := f.brand(t, "Grandchild", &child.ID)

	tests := []struct {
		name   string
		id     uint
		parent uint
	}{
		{"self", root.ID, root.ID},
		{"direct child", root.ID, child.ID},
		{"deep descendant", root.ID, grandchild.ID},
		{"middle to its child", child.ID, grandchild.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := f.brands.FindByID(ctx, tt.id)
			require.NoError(t, err)

			_, err = h.Handle(ctx, UpdateBrandCommand{ID: tt.id, Name: strPtr("Renamed"), ParentID: domain.SetID(tt.parent)})
			assert.ErrorIs(t, err, apperror.ErrCircularReference)
			assert.Equal(t, 422, apperror.HTTPStatus(err))

			after, err := f.brands.FindByID(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, before.Name, after.Name)
			assert.Equal(t, before.ParentID, after.ParentID)
		})
	}
}

func TestUpdateBrandReparents(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := NewUpdateBrandHandler(f.brands, f.store)

	a := f.brand(t, "A", nil)
	b := f.brand(t, "B", nil)
	c := f.brand(t, "C", &a.ID)

	updated, err := h.Handle(ctx, UpdateBrandCommand{ID: c.ID, ParentID: domain.SetID(b.ID)})
	require.NoError(t, err)
	require.NotNil(t, updated.ParentID)
	assert.Equal(t, b.ID, *updated.ParentID)
	assert.Equal(t, "C", updated.Name)

	updated, err = h.Handle(ctx, UpdateBrandCommand{ID: c.ID, ParentID: domain.SetNull()})
	require.NoError(t, err)
	assert.Nil(t, updated.ParentID)

	_, err = h.Handle(ctx, UpdateBrandCommand{ID: c.ID, ParentID: domain.SetID(404)})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = h.Handle(ctx, UpdateBrandCommand{ID: 404, Name: strPtr("x")})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRemoveBrandParent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	parent := f.brand(t, "Parent", nil)
	child := f.brand(t, "Child", &parent.ID)

	h := NewRemoveBrandParentHandler(f.brands, f.store)

	// a rename committed after the caller last read the brand is kept
	renamed := *child
	renamed.Name = "Child Renamed"
	renamed.Description = "updated elsewhere"
	require.NoError(t, f.brands.Update(ctx, &renamed))

	b, err := h.Handle(ctx, RemoveBrandParentCommand{ID: child.ID})
	require.NoError(t, err)
	assert.True(t, b.IsRoot())
	assert.Equal(t, "Child Renamed", b.Name)
	assert.Equal(t, "updated elsewhere", b.Description)

	_, err = h.Handle(ctx, RemoveBrandParentCommand{ID: 99})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteBrand(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := NewDeleteBrandHandler(f.brands, f.products, f.store)

	parent := f.brand(t, "Parent", nil)
	child := f.brand(t, "Child", &parent.ID)

	_, err := h.Handle(ctx, DeleteBrandCommand{ID: parent.ID})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, 422, apperror.HTTPStatus(err))

	cat := f.category(t, "Tools")
	p := f.product(t, "Drill", cat.ID, "")
	_, err = NewUpdateProductHandler(f.products, f.categories, f.brands, f.store).Handle(ctx, UpdateProductCommand{
		ID: p.ID, BrandID: domain.SetID(child.ID),
	})
	require.NoError(t, err)
	require.NoError(t, NewDeleteProductHandler(f.products).Handle(ctx, DeleteProductCommand{ID: p.ID}))

	// trashed products still block
	_, err = h.Handle(ctx, DeleteBrandCommand{ID: child.ID})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "Cannot delete brand with existing products", apperror.Public(err))

	require.NoError(t, NewForceDeleteProductHandler(f.products, f.images, f.store).Handle(ctx, ForceDeleteProductCommand{ID: p.ID}))
	_, err = h.Handle(ctx, DeleteBrandCommand{ID: child.ID})
	require.NoError(t, err)
	_, err = h.Handle(ctx, DeleteBrandCommand{ID: parent.ID})
	require.NoError(t, err)

	n, err := f.brands.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
