package query

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/internal/catalog/media"
	"github.com/tair/catalog-admin/internal/catalog/repository/memory"
	"github.com/tair/catalog-admin/pkg/apperror"
	blobmemory "github.com/tair/catalog-admin/pkg/blobstore/memory"
	"github.com/tair/catalog-admin/pkg/cache"
)

const storageBase = "http://localhost:8080/storage"

func uintPtr(v uint) *uint { return &v }

func boolPtr(b bool) *bool { return &b }

// seedBrands builds
//
//	1 Acme (inactive)
//	├── 2 Zeta
//	└── 3 Beta
//	    └── 4 Gamma
//	5 Solo
func seedBrands(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	brands := []domain.Brand{
		{Name: "Acme", IsActive: false},
		{Name: "Zeta", ParentID: uintPtr(1), IsActive: true},
		{Name: "Beta", ParentID: uintPtr(1), IsActive: true},
		{Name: "Gamma", ParentID: uintPtr(3), IsActive: true},
		{Name: "Solo", IsActive: true},
	}
	for i := range brands {
		require.NoError(t, store.Brands().Create(ctx, &brands[i]))
	}
}

func TestListBrandsFlat(t *testing.T) {
	store := memory.NewStore()
	seedBrands(t, store)
	h := NewListBrandsHandler(store.Brands(), cache.Noop{}, 0)

	listing, err := h.Handle(context.Background(), ListBrandsQuery{})
	require.NoError(t, err)
	assert.False(t, listing.Hierarchical)

	names := make([]string, 0, len(listing.Brands))
	for _, b := range listing.Brands {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"Acme", "Beta", "Gamma", "Solo", "Zeta"}, names)

	acme := listing.Brands[0]
	require.Len(t, acme.Children, 2)
	assert.Equal(t, "Beta", acme.Children[0].Name)
	assert.Equal(t, "Zeta", acme.Children[1].Name)

	gamma := listing.Brands[2]
	require.NotNil(t, gamma.Parent)
	assert.Equal(t, "Beta", gamma.Parent.Name)
}

func TestListBrandsHierarchicalSurfacesFilteredParents(t *testing.T) {
	store := memory.NewStore()
	seedBrands(t, store)
	h := NewListBrandsHandler(store.Brands(), cache.Noop{}, 0)

	listing, err := h.Handle(context.Background(), ListBrandsQuery{IsActive: boolPtr(true), Hierarchical: true})
	require.NoError(t, err)

	roots := make([]string, 0, len(listing.Tree))
	for _, n := range listing.Tree {
		roots = append(roots, n.Name)
	}
	assert.Equal(t, []string{"Beta", "Solo", "Zeta"}, roots)
	require.Len(t, listing.Tree[0].Children, 1)
	assert.Equal(t, "Gamma", listing.Tree[0].Children[0].Name)
}

func TestListBrandsRootsOnlyAndSearch(t *testing.T) {
	store := memory.NewStore()
	seedBrands(t, store)
	h := NewListBrandsHandler(store.Brands(), cache.Noop{}, 0)
	ctx := context.Background()

	listing, err := h.Handle(ctx, ListBrandsQuery{RootsOnly: true, SortBy: "id", SortDirection: "desc"})
	require.NoError(t, err)
	require.Len(t, listing.Brands, 2)
	assert.Equal(t, "Solo", listing.Brands[0].Name)

	listing, err = h.Handle(ctx, ListBrandsQuery{Search: "GAM"})
	require.NoError(t, err)
	require.Len(t, listing.Brands, 1)
	assert.Equal(t, "Gamma", listing.Brands[0].Name)

	_, err = h.Handle(ctx, ListBrandsQuery{SortBy: "password"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestListBrandsUsesCache(t *testing.T) {
	store := memory.NewStore()
	seedBrands(t, store)
	c := cache.NewMemory()
	h := NewListBrandsHandler(store.Brands(), c, 0)
	ctx := context.Background()

	first, err := h.Handle(ctx, ListBrandsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, store.Brands().Create(ctx, &domain.Brand{Name: "Newcomer"}))
	cached, err := h.Handle(ctx, ListBrandsQuery{})
	require.NoError(t, err)
	assert.Len(t, cached.Brands, len(first.Brands))

	require.NoError(t, c.InvalidatePrefix(ctx, BrandCachePrefix))
	fresh, err := h.Handle(ctx, ListBrandsQuery{})
	require.NoError(t, err)
	assert.Len(t, fresh.Brands, len(first.Brands)+1)
}

func TestListBrandsCachedEmptyResult(t *testing.T) {
	store := memory.NewStore()
	seedBrands(t, store)
	c := cache.NewMemory()
	h := NewListBrandsHandler(store.Brands(), c, 0)
	ctx := context.Background()

	for _, hierarchical := range []bool{false, true} {
		q := ListBrandsQuery{Search: "zzz", Hierarchical: hierarchical}
		for i := 0; i < 2; i++ {
			listing, err := h.Handle(ctx, q)
			require.NoError(t, err)
			if hierarchical {
				require.NotNil(t, listing.Tree)
				assert.Empty(t, listing.Tree)
			} else {
				require.NotNil(t, listing.Brands)
				assert.Empty(t, listing.Brands)
			}
		}
	}
	assert.Equal(t, 2, c.Len())
}

func TestGetBrand(t *testing.T) {
	store := memory.NewStore()
	seedBrands(t, store)
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &domain.Product{Name: "P", CategoryID: 1, BrandID: uintPtr(4), IsActive: true}))
	require.NoError(t, store.Products().Create(ctx, &domain.Product{Name: "Q", CategoryID: 1, BrandID: uintPtr(4)}))

	detail, err := NewGetBrandHandler(store.Brands(), store.Products()).Handle(ctx, GetBrandQuery{ID: 4})
	require.NoError(t, err)
	assert.Equal(t, "Gamma", detail.Brand.Name)
	assert.Equal(t, 2, detail.Depth)
	require.Len(t, detail.Ancestors, 2)
	assert.Equal(t, "Acme", detail.Ancestors[0].Name)
	assert.Equal(t, "Beta", detail.Ancestors[1].Name)
	assert.Equal(t, int64(2), detail.ProductsCount)
	assert.Equal(t, int64(1), detail.ActiveProductsCount)
	assert.Zero(t, detail.ChildrenCount)

	_, err = NewGetBrandHandler(store.Brands(), store.Products()).Handle(ctx, GetBrandQuery{ID: 77})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func newPresenter() *media.Presenter {
	urls := media.NewURLResolver(storageBase)
	return media.NewPresenter(urls, media.NewPlaceholder(blobmemory.New(), urls))
}

func TestGetProductResolvesRelations(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Categories().Create(ctx, &domain.Category{Name: "Electronics"}))
	require.NoError(t, store.Brands().Create(ctx, &domain.Brand{Name: "Acme"}))

	p := &domain.Product{
		Name: "TV", CategoryID: 1, BrandID: uintPtr(1),
		PurchasePrice: decimal.NewFromInt(100), SalePrice: decimal.NewFromInt(150),
	}
	require.NoError(t, store.Products().Create(ctx, p))

	h := NewGetProductHandler(store.Products(), store.Categories(), store.Brands(), store.Images(), newPresenter())

	view, err := h.Handle(ctx, GetProductQuery{ID: p.ID})
	require.NoError(t, err)
	require.NotNil(t, view.Category)
	assert.Equal(t, "Electronics", view.Category.Name)
	require.NotNil(t, view.Brand)
	assert.Equal(t, "Acme", view.Brand.Name)
	assert.True(t, view.PrimaryImage.IsPlaceholder)
	assert.Equal(t, 50.0, view.ProfitMargin)

	require.NoError(t, store.Images().Create(ctx, &domain.ProductImage{ProductID: &p.ID, ImagePath: "products/x.png", SortOrder: 1}))
	view, err = h.Handle(ctx, GetProductQuery{ID: p.ID})
	require.NoError(t, err)
	assert.False(t, view.PrimaryImage.IsPlaceholder)
	assert.Equal(t, storageBase+"/products/x.png", view.PrimaryImage.ImageURL)
	require.Len(t, view.Images, 1)

	_, err = h.Handle(ctx, GetProductQuery{ID: 99})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListImages(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	pid := uint(1)
	require.NoError(t, store.Images().Create(ctx, &domain.ProductImage{ProductID: &pid, ImagePath: "products/a.png", SortOrder: 2}))
	require.NoError(t, store.Images().Create(ctx, &domain.ProductImage{ProductID: &pid, ImagePath: "products/b.png", SortOrder: 1}))
	require.NoError(t, store.Images().Create(ctx, &domain.ProductImage{ImagePath: "products/c.png"}))

	h := NewListImagesHandler(store.Images(), newPresenter())

	mine, err := h.Handle(ctx, ListImagesQuery{ProductID: &pid})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, storageBase+"/products/b.png", mine[0].ImageURL)

	orphans, err := h.Handle(ctx, ListImagesQuery{Unattached: true})
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Nil(t, orphans[0].ProductID)

	all, err := h.Handle(ctx, ListImagesQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListCategoriesSort(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	for _, name := range []string{"Garden", "Audio", "Tools"} {
		require.NoError(t, store.Categories().Create(ctx, &domain.Category{Name: name, IsActive: true}))
	}
	h := NewListCategoriesHandler(store.Categories())

	got, err := h.Handle(ctx, ListCategoriesQuery{SortBy: "name", SortDirection: "desc"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Tools", got[0].Name)

	_, err = h.Handle(ctx, ListCategoriesQuery{SortBy: "secret"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
