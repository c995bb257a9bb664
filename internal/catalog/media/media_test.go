package media

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/blobstore/memory"
)

const base = "http://localhost:8080/storage"

func TestURLResolver(t *testing.T) {
	urls := NewURLResolver(base + "/")

	assert.Equal(t, base+"/products/a.png", urls.URL("products/a.png"))
	assert.Equal(t, "https://cdn.example.com/x.png", urls.URL("https://cdn.example.com/x.png"))
	assert.Equal(t, "HTTP://cdn.example.com/x.png", urls.URL("HTTP://cdn.example.com/x.png"))
}

func TestDetectImage(t *testing.T) {
	pngData, err := Render()
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
		ext  string
		ok   bool
	}{
		{"png", pngData, ".png", true},
		{"jpeg", []byte("\xFF\xD8\xFF\xE0\x00\x10JFIF\x00"), ".jpg", true},
		{"gif", []byte("GIF89a\x01\x00\x01\x00"), ".gif", true},
		{"text", []byte("hello world"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ext, ok := DetectImage(tt.data)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.ext, ext)
		})
	}
}

func TestBlobName(t *testing.T) {
	name := BlobName(".png")
	assert.True(t, strings.HasPrefix(name, "products/"))
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.NotEqual(t, name, BlobName(".png"))
}

func TestRenderIsSquarePNG(t *testing.T) {
	data, err := Render()
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, PlaceholderSize, img.Bounds().Dx())
	assert.Equal(t, PlaceholderSize, img.Bounds().Dy())
}

func TestPlaceholderEnsureIsIdempotent(t *testing.T) {
	store := memory.New()
	ph := NewPlaceholder(store, NewURLResolver(base))
	ctx := context.Background()

	require.NoError(t, ph.Ensure(ctx))
	require.NoError(t, ph.Ensure(ctx))

	exists, err := store.Exists(ctx, PlaceholderPath)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 1, store.Len())
}

type failingStore struct {
	*memory.Backend
	fail bool
}

func (f *failingStore) Exists(ctx context.Context, key string) (bool, error) {
	if f.fail {
		return false, errors.New("unreachable")
	}
	return f.Backend.Exists(ctx, key)
}

func TestPlaceholderFallsBackAndRetries(t *testing.T) {
	store := &failingStore{Backend: memory.New(), fail: true}
	ph := NewPlaceholder(store, NewURLResolver(base))
	ctx := context.Background()

	url := ph.URL(ctx, "A very long product name indeed")
	assert.Equal(t, "https://via.placeholder.com/800x800/E5E7EB/9CA3AF?text=A+very+long+product+", url)

	store.fail = false
	assert.Equal(t, base+"/"+PlaceholderPath, ph.URL(ctx, "Widget"))
}

func TestPresenterProduct(t *testing.T) {
	urls := NewURLResolver(base)
	p := NewPresenter(urls, NewPlaceholder(memory.New(), urls))
	ctx := context.Background()
	pid := uint(7)

	product := &domain.Product{
		ID:            pid,
		Name:          "Widget",
		PurchasePrice: decimal.NewFromInt(100),
		SalePrice:     decimal.NewFromInt(150),
		StockQuantity: 0,
		MinStock:      5,
	}

	t.Run("no images resolves to placeholder", func(t *testing.T) {
		view := p.Product(ctx, product)
		assert.Equal(t, 50.0, view.ProfitMargin)
		assert.True(t, decimal.NewFromInt(50).Equal(view.ProfitAmount))
		assert.True(t, view.IsLowStock)
		assert.True(t, view.IsOutOfStock)
		assert.Empty(t, view.Images)

		primary := view.PrimaryImage
		assert.True(t, primary.IsPlaceholder)
		assert.True(t, primary.IsPrimary)
		assert.Nil(t, primary.ID)
		require.NotNil(t, primary.AltText)
		assert.Equal(t, "Widget - No image available", *primary.AltText)
		assert.Equal(t, base+"/"+PlaceholderPath, primary.ImageURL)
	})

	t.Run("unflagged images resolve to the first in order", func(t *testing.T) {
		withImages := *product
		withImages.Images = []domain.ProductImage{
			{ID: 2, ProductID: &pid, ImagePath: "products/b.png", SortOrder: 2},
			{ID: 1, ProductID: &pid, ImagePath: "products/a.png", SortOrder: 1},
		}
		view := p.Product(ctx, &withImages)
		require.Len(t, view.Images, 2)
		assert.Equal(t, uint(1), *view.Images[0].ID)
		assert.Equal(t, uint(1), *view.PrimaryImage.ID)
		assert.False(t, view.PrimaryImage.IsPlaceholder)
		assert.Equal(t, base+"/products/a.png", view.PrimaryImage.ImageURL)
	})
}
