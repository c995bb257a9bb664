package media

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/catalog-admin/internal/catalog/domain"
)

// ImageView is an image as returned to API clients. Placeholder descriptors
// have no id and no timestamps.
type ImageView struct {
	ID            *uint      `json:"id"`
	ProductID     *uint      `json:"product_id"`
	AltText       *string    `json:"alt_text"`
	SortOrder     int        `json:"sort_order"`
	IsPrimary     bool       `json:"is_primary"`
	ImageURL      string     `json:"image_url"`
	IsPlaceholder bool       `json:"is_placeholder"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// ProductView is a product with its derived fields and resolved images
type ProductView struct {
	domain.Product
	ProfitMargin float64         `json:"profit_margin"`
	ProfitAmount decimal.Decimal `json:"profit_amount"`
	IsLowStock   bool            `json:"is_low_stock"`
	IsOutOfStock bool            `json:"is_out_of_stock"`
	PrimaryImage ImageView       `json:"primary_image"`
	Images       []ImageView     `json:"images"`
}

// Presenter renders catalog records for API responses
type Presenter struct {
	urls        *URLResolver
	placeholder *Placeholder
}

// NewPresenter creates a presenter
func NewPresenter(urls *URLResolver, placeholder *Placeholder) *Presenter {
	return &Presenter{urls: urls, placeholder: placeholder}
}

// Image renders a stored image
func (p *Presenter) Image(img domain.ProductImage) ImageView {
	id := img.ID
	created, updated := img.CreatedAt, img.UpdatedAt
	return ImageView{
		ID:        &id,
		ProductID: img.ProductID,
		AltText:   img.AltText,
		SortOrder: img.SortOrder,
		IsPrimary: img.IsPrimary,
		ImageURL:  p.urls.URL(img.ImagePath),
		CreatedAt: &created,
		UpdatedAt: &updated,
	}
}

// Images renders images keeping their order
func (p *Presenter) Images(images []domain.ProductImage) []ImageView {
	out := make([]ImageView, 0, len(images))
	for _, img := range images {
		out = append(out, p.Image(img))
	}
	return out
}

// PlaceholderImage is the descriptor used when a product has no images
func (p *Presenter) PlaceholderImage(ctx context.Context, product *domain.Product) ImageView {
	id := product.ID
	alt := product.Name + " - No image available"
	return ImageView{
		ProductID:     &id,
		AltText:       &alt,
		SortOrder:     0,
		IsPrimary:     true,
		ImageURL:      p.placeholder.URL(ctx, product.Name),
		IsPlaceholder: true,
	}
}

// PrimaryImage resolves the image shown first for product: the flagged
// primary, else the first in display order, else the placeholder
func (p *Presenter) PrimaryImage(ctx context.Context, product *domain.Product) ImageView {
	if img, ok := domain.ResolvePrimary(product.Images); ok {
		return p.Image(*img)
	}
	return p.PlaceholderImage(ctx, product)
}

// Product renders product. Relations must already be loaded
func (p *Presenter) Product(ctx context.Context, product *domain.Product) ProductView {
	images := make([]domain.ProductImage, len(product.Images))
	copy(images, product.Images)
	domain.SortImages(images)

	return ProductView{
		Product:      *product,
		ProfitMargin: product.ProfitMargin(),
		ProfitAmount: product.ProfitAmount(),
		IsLowStock:   product.IsLowStock(),
		IsOutOfStock: product.IsOutOfStock(),
		PrimaryImage: p.PrimaryImage(ctx, product),
		Images:       p.Images(images),
	}
}

// Products renders a listing
func (p *Presenter) Products(ctx context.Context, products []domain.Product) []ProductView {
	out := make([]ProductView, 0, len(products))
	for i := range products {
		out = append(out, p.Product(ctx, &products[i]))
	}
	return out
}
