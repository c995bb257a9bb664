package command

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/internal/catalog/repository/memory"
	blobmemory "github.com/tair/catalog-admin/pkg/blobstore/memory"
)

type fixture struct {
	store *memory.Store
	blobs *blobmemory.Backend

	brands     *memory.BrandRepository
	categories *memory.CategoryRepository
	products   *memory.ProductRepository
	images     *memory.ImageRepository
}

func newFixture() *fixture {
	store := memory.NewStore()
	return &fixture{
		store:      store,
		blobs:      blobmemory.New(),
		brands:     store.Brands(),
		categories: store.Categories(),
		products:   store.Products(),
		images:     store.Images(),
	}
}

func (f *fixture) brand(t *testing.T, name string, parent *uint) *domain.Brand {
	t.Helper()
	b, err := NewCreateBrandHandler(f.brands, f.store).Handle(context.Background(), CreateBrandCommand{Name: name, ParentID: parent})
	require.NoError(t, err)
	return b
}

func (f *fixture) category(t *testing.T, name string) *domain.Category {
	t.Helper()
	c, err := NewCreateCategoryHandler(f.categories).Handle(context.Background(), CreateCategoryCommand{Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) product(t *testing.T, name string, categoryID uint, ean string) *domain.Product {
	t.Helper()
	p, err := NewCreateProductHandler(f.products, f.categories, f.brands, f.store).Handle(context.Background(), CreateProductCommand{
		Name:          name,
		CategoryID:    categoryID,
		EAN13:         ean,
		PurchasePrice: decimal.NewFromInt(10),
		SalePrice:     decimal.NewFromInt(15),
		StockQuantity: 5,
		MinStock:      1,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) upload(t *testing.T, productID *uint, n int) []domain.ProductImage {
	t.Helper()
	files := make([]UploadFile, n)
	for i := range files {
		files[i] = UploadFile{Filename: "photo.png", Data: pngBytes(t)}
	}
	imgs, err := NewUploadImagesHandler(f.products, f.images, f.blobs, f.store).Handle(context.Background(), UploadImagesCommand{
		ProductID: productID,
		Files:     files,
	})
	require.NoError(t, err)
	return imgs
}

func (f *fixture) imagesOf(t *testing.T, productID uint) []domain.ProductImage {
	t.Helper()
	imgs, err := f.images.FindByProduct(context.Background(), productID)
	require.NoError(t, err)
	return imgs
}

func primaries(imgs []domain.ProductImage) []uint {
	var ids []uint
	for _, img := range imgs {
		if img.IsPrimary {
			ids = append(ids, img.ID)
		}
	}
	return ids
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func uintPtr(v uint) *uint { return &v }

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func intPtr(v int) *int { return &v }
