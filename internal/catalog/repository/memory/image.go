package memory

import (
	"context"
	"sort"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// ImageRepository implements domain.ImageRepository over a Store
type ImageRepository struct {
	s *Store
}

func cloneImage(img domain.ProductImage) domain.ProductImage {
	img.ProductID = copyUint(img.ProductID)
	img.AltText = copyString(img.AltText)
	return img
}

func (r *ImageRepository) Create(ctx context.Context, image *domain.ProductImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	image.ID = r.s.id("product_images")
	now := r.s.now()
	image.CreatedAt = now
	image.UpdatedAt = now
	r.s.images[image.ID] = cloneImage(*image)
	return nil
}

func (r *ImageRepository) Update(ctx context.Context, image *domain.ProductImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.images[image.ID]; !ok {
		return apperror.NotFound("image", image.ID)
	}
	image.UpdatedAt = r.s.now()
	r.s.images[image.ID] = cloneImage(*image)
	return nil
}

func (r *ImageRepository) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.images, id)
	return nil
}

func (r *ImageRepository) FindByID(ctx context.Context, id uint) (*domain.ProductImage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	img, ok := r.s.images[id]
	if !ok {
		return nil, apperror.NotFound("image", id)
	}
	out := cloneImage(img)
	return &out, nil
}

func (r *ImageRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.ProductImage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.ProductImage, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if img, ok := r.s.images[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, cloneImage(img))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ImageRepository) collect(match func(domain.ProductImage) bool) []domain.ProductImage {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.ProductImage, 0)
	for _, img := range r.s.images {
		if match(img) {
			out = append(out, cloneImage(img))
		}
	}
	domain.SortImages(out)
	return out
}

func (r *ImageRepository) FindByProduct(ctx context.Context, productID uint) ([]domain.ProductImage, error) {
	return r.collect(func(img domain.ProductImage) bool {
		return img.BelongsTo(productID)
	}), nil
}

func (r *ImageRepository) FindByProducts(ctx context.Context, productIDs []uint) ([]domain.ProductImage, error) {
	wanted := make(map[uint]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	return r.collect(func(img domain.ProductImage) bool {
		return img.ProductID != nil && wanted[*img.ProductID]
	}), nil
}

func (r *ImageRepository) FindAll(ctx context.Context, filter domain.ImageFilter) ([]domain.ProductImage, error) {
	out := r.collect(func(img domain.ProductImage) bool {
		if filter.ProductID != nil {
			return img.BelongsTo(*filter.ProductID)
		}
		if filter.Unattached {
			return img.IsOrphaned()
		}
		return true
	})
	if filter.ProductID == nil {
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	}
	return out, nil
}

func (r *ImageRepository) UnsetPrimary(ctx context.Context, productID, exceptID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	for id, img := range r.s.images {
		if id != exceptID && img.BelongsTo(productID) && img.IsPrimary {
			img.IsPrimary = false
			img.UpdatedAt = now
			r.s.images[id] = img
		}
	}
	return nil
}

func (r *ImageRepository) DetachByProduct(ctx context.Context, productID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	for id, img := range r.s.images {
		if img.BelongsTo(productID) {
			img.ProductID = nil
			img.IsPrimary = false
			img.UpdatedAt = now
			r.s.images[id] = img
		}
	}
	return nil
}

func (r *ImageRepository) CountOrphaned(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, img := range r.s.images {
		if img.IsOrphaned() {
			n++
		}
	}
	return n, nil
}
