package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// AttachImagesCommand assigns orphaned images to a product
type AttachImagesCommand struct {
	ProductID uint
	ImageIDs  []uint
}

// AttachImagesHandler handles attachment
type AttachImagesHandler struct {
	products domain.ProductRepository
	images   domain.ImageRepository
	tx       domain.Transactor
}

// NewAttachImagesHandler creates a new attach images handler
func NewAttachImagesHandler(products domain.ProductRepository, images domain.ImageRepository, tx domain.Transactor) *AttachImagesHandler {
	return &AttachImagesHandler{products: products, images: images, tx: tx}
}

// Handle attaches the orphans among ImageIDs after the product's current
// images. Images already attached anywhere are skipped. The first image
// attached becomes primary only when the product had no images before.
func (h *AttachImagesHandler) Handle(ctx context.Context, cmd AttachImagesCommand) ([]domain.ProductImage, error) {
	ids := dedupe(cmd.ImageIDs)
	if len(ids) == 0 {
		return nil, apperror.Validation("image_ids", "The image ids field is required")
	}

	var result []domain.ProductImage
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := h.products.FindByIDForUpdate(ctx, cmd.ProductID); err != nil {
			return err
		}

		found, err := h.images.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uint]domain.ProductImage, len(found))
		for _, img := range found {
			byID[img.ID] = img
		}
		if missing := missingIDs(ids, byID); len(missing) > 0 {
			return apperror.Validation("image_ids", "The selected image ids are invalid: "+missing)
		}

		existing, err := h.images.FindByProduct(ctx, cmd.ProductID)
		if err != nil {
			return err
		}
		next := domain.MaxSortOrder(existing)
		hadNone := len(existing) == 0

		attached := 0
		for _, id := range ids {
			img := byID[id]
			if !img.IsOrphaned() {
				continue
			}
			next++
			pid := cmd.ProductID
			img.ProductID = &pid
			img.SortOrder = next
			img.IsPrimary = hadNone && attached == 0
			if err := h.images.Update(ctx, &img); err != nil {
				return err
			}
			attached++
		}

		result, err = h.images.FindByIDs(ctx, ids)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to attach images: %w", err)
	}

	return result, nil
}

func missingIDs(ids []uint, found map[uint]domain.ProductImage) string {
	var missing []uint
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })

	parts := make([]string, len(missing))
	for i, id := range missing {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
