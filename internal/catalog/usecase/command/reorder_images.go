package command

import (
	"context"
	"fmt"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// ReorderImagesCommand sets each image's sort_order to its index in ImageIDs
type ReorderImagesCommand struct {
	ProductID uint
	ImageIDs  []uint
}

// ReorderImagesHandler handles reordering
type ReorderImagesHandler struct {
	products domain.ProductRepository
	images   domain.ImageRepository
	tx       domain.Transactor
}

// NewReorderImagesHandler creates a new reorder images handler
func NewReorderImagesHandler(products domain.ProductRepository, images domain.ImageRepository, tx domain.Transactor) *ReorderImagesHandler {
	return &ReorderImagesHandler{products: products, images: images, tx: tx}
}

// Handle validates every id before writing anything
func (h *ReorderImagesHandler) Handle(ctx context.Context, cmd ReorderImagesCommand) ([]domain.ProductImage, error) {
	if len(cmd.ImageIDs) == 0 {
		return nil, apperror.Validation("image_ids", "The image ids field is required")
	}

	var reordered []domain.ProductImage
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := h.products.FindByIDForUpdate(ctx, cmd.ProductID); err != nil {
			return err
		}

		current, err := h.images.FindByProduct(ctx, cmd.ProductID)
		if err != nil {
			return err
		}
		owned := make(map[uint]domain.ProductImage, len(current))
		for _, img := range current {
			owned[img.ID] = img
		}

		fields := apperror.FieldSet{}
		seen := make(map[uint]bool, len(cmd.ImageIDs))
		for i, id := range cmd.ImageIDs {
			field := fmt.Sprintf("image_ids.%d", i)
			if _, ok := owned[id]; !ok {
				fields.Add(field, fmt.Sprintf("Image %d does not belong to product %d", id, cmd.ProductID))
			} else if seen[id] {
				fields.Add(field, fmt.Sprintf("Image %d is listed more than once", id))
			}
			seen[id] = true
		}
		if err := fields.Err(); err != nil {
			return err
		}

		for i, id := range cmd.ImageIDs {
			img := owned[id]
			img.SortOrder = i
			if err := h.images.Update(ctx, &img); err != nil {
				return err
			}
		}

		reordered, err = h.images.FindByProduct(ctx, cmd.ProductID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reorder images: %w", err)
	}

	return reordered, nil
}
