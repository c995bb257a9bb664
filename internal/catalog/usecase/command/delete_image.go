package command

import (
	"context"
	"fmt"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/internal/catalog/media"
	"github.com/tair/catalog-admin/pkg/apperror"
	"github.com/tair/catalog-admin/pkg/blobstore"
	"github.com/tair/catalog-admin/pkg/logger"
)

// DeleteImageCommand represents the command to delete an image
type DeleteImageCommand struct {
	ID uint
}

// DeleteImageHandler handles image deletion
type DeleteImageHandler struct {
	products domain.ProductRepository
	images   domain.ImageRepository
	store    blobstore.Store
	tx       domain.Transactor
}

// NewDeleteImageHandler creates a new delete image handler
func NewDeleteImageHandler(products domain.ProductRepository, images domain.ImageRepository, store blobstore.Store, tx domain.Transactor) *DeleteImageHandler {
	return &DeleteImageHandler{products: products, images: images, store: store, tx: tx}
}

// Handle removes the record and promotes the next sibling when the primary
// was removed. The blob is deleted only after commit: a failed blob delete
// leaves an unreferenced file, which is logged, rather than a record whose
// file is gone.
func (h *DeleteImageHandler) Handle(ctx context.Context, cmd DeleteImageCommand) (*domain.ProductImage, error) {
	var deleted *domain.ProductImage

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		img, err := lockImage(ctx, h.products, h.images, cmd.ID)
		if err != nil {
			return err
		}

		if err := h.images.Delete(ctx, img.ID); err != nil {
			return err
		}
		if img.IsPrimary && !img.IsOrphaned() {
			if err := promoteNext(ctx, h.images, *img.ProductID, img.ID); err != nil {
				return err
			}
		}
		deleted = img
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete image: %w", err)
	}

	if err := h.removeBlob(ctx, deleted.ImagePath); err != nil {
		logger.Warn(ctx).
			Err(err).
			Uint("image_id", deleted.ID).
			Str("path", deleted.ImagePath).
			Msg("Image deleted but its blob could not be removed")
	}
	return deleted, nil
}

func (h *DeleteImageHandler) removeBlob(ctx context.Context, path string) error {
	if media.IsRemote(path) {
		return nil
	}
	exists, err := h.store.Exists(ctx, path)
	if err != nil {
		return apperror.Storage("exists", path, err)
	}
	if !exists {
		return nil
	}
	if err := h.store.Delete(ctx, path); err != nil {
		return apperror.Storage("delete", path, err)
	}
	return nil
}
