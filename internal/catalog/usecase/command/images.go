package command

import (
	"context"
	"errors"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// lockImage loads an image after row-locking the product that owns it, so
// concurrent primary changes on one product's images serialize. Trashed
// owners keep their images and are locked too; a missing owner has nothing
// to lock. The image is read again once the lock is held because its owner
// or flags may have changed meanwhile.
func lockImage(ctx context.Context, products domain.ProductRepository, images domain.ImageRepository, id uint) (*domain.ProductImage, error) {
	img, err := images.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	locked := map[uint]bool{}
	for img.ProductID != nil && !locked[*img.ProductID] {
		_, err := products.FindByIDWithTrashedForUpdate(ctx, *img.ProductID)
		if errors.Is(err, apperror.ErrNotFound) {
			return img, nil
		}
		if err != nil {
			return nil, err
		}
		locked[*img.ProductID] = true
		if img, err = images.FindByID(ctx, id); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// promoteNext flags the first remaining image of productID in display order
// as primary. It is a no-op when none remain.
func promoteNext(ctx context.Context, images domain.ImageRepository, productID, excludeID uint) error {
	siblings, err := images.FindByProduct(ctx, productID)
	if err != nil {
		return err
	}
	next, ok := domain.FirstInOrder(siblings, excludeID)
	if !ok {
		return nil
	}
	next.IsPrimary = true
	return images.Update(ctx, next)
}
