package domain

import (
	"context"
	"sort"
	"time"
)

// ProductImage is an image that is either attached to a product or orphaned
type ProductImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID *uint     `json:"product_id" gorm:"index"`
	ImagePath string    `json:"-" gorm:"size:255;not null"`
	AltText   *string   `json:"alt_text" gorm:"size:255"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	IsPrimary bool      `json:"is_primary" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (ProductImage) TableName() string {
	return "product_images"
}

// IsOrphaned reports whether the image awaits attachment
func (i *ProductImage) IsOrphaned() bool {
	return i.ProductID == nil
}

// BelongsTo reports whether the image is attached to productID
func (i *ProductImage) BelongsTo(productID uint) bool {
	return i.ProductID != nil && *i.ProductID == productID
}

// imageLess is the display order: sort_order, then creation time, then id
func imageLess(a, b *ProductImage) bool {
	if a.SortOrder != b.SortOrder {
		return a.SortOrder < b.SortOrder
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// SortImages orders images for display in place
func SortImages(images []ProductImage) {
	sort.SliceStable(images, func(i, j int) bool {
		return imageLess(&images[i], &images[j])
	})
}

// FirstInOrder returns the image that sorts first, skipping excludeID
func FirstInOrder(images []ProductImage, excludeID uint) (*ProductImage, bool) {
	var best *ProductImage
	for i := range images {
		img := &images[i]
		if img.ID == excludeID {
			continue
		}
		if best == nil || imageLess(img, best) {
			best = img
		}
	}
	return best, best != nil
}

// ResolvePrimary returns the flagged primary image, or the first image in display order
func ResolvePrimary(images []ProductImage) (*ProductImage, bool) {
	for i := range images {
		if images[i].IsPrimary {
			return &images[i], true
		}
	}
	return FirstInOrder(images, 0)
}

// MaxSortOrder returns the highest sort_order among images, 0 when empty
func MaxSortOrder(images []ProductImage) int {
	highest := 0
	for _, img := range images {
		if img.SortOrder > highest {
			highest = img.SortOrder
		}
	}
	return highest
}

// ImageFilter narrows an image listing
type ImageFilter struct {
	ProductID  *uint
	Unattached bool
}

// ImageRepository defines the contract for product image data access
type ImageRepository interface {
	Create(ctx context.Context, image *ProductImage) error
	Update(ctx context.Context, image *ProductImage) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*ProductImage, error)
	FindByIDs(ctx context.Context, ids []uint) ([]ProductImage, error)
	// FindByProduct returns the product's images in display order
	FindByProduct(ctx context.Context, productID uint) ([]ProductImage, error)
	FindByProducts(ctx context.Context, productIDs []uint) ([]ProductImage, error)
	FindAll(ctx context.Context, filter ImageFilter) ([]ProductImage, error)
	// UnsetPrimary clears is_primary on every image of productID except exceptID
	UnsetPrimary(ctx context.Context, productID, exceptID uint) error
	// DetachByProduct turns every image of productID into an orphan
	DetachByProduct(ctx context.Context, productID uint) error
	CountOrphaned(ctx context.Context) (int64, error)
}

// Transactor runs fn atomically; repositories called with the provided ctx join the transaction
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
