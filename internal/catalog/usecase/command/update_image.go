package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// UpdateImageCommand is a partial update. An AltText pointing to a blank
// string clears it.
type UpdateImageCommand struct {
	ID        uint
	AltText   *string
	SortOrder *int
	IsPrimary *bool
}

// UpdateImageHandler handles image updates
type UpdateImageHandler struct {
	products domain.ProductRepository
	images   domain.ImageRepository
	tx       domain.Transactor
}

// NewUpdateImageHandler creates a new update image handler
func NewUpdateImageHandler(products domain.ProductRepository, images domain.ImageRepository, tx domain.Transactor) *UpdateImageHandler {
	return &UpdateImageHandler{products: products, images: images, tx: tx}
}

// Handle executes the update image command. Changing the primary flag keeps
// exactly one primary per product within the same transaction.
func (h *UpdateImageHandler) Handle(ctx context.Context, cmd UpdateImageCommand) (*domain.ProductImage, error) {
	fields := apperror.FieldSet{}
	checkOptionalText(fields, "alt_text", cmd.AltText)
	if cmd.SortOrder != nil {
		checkNonNegative(fields, "sort_order", *cmd.SortOrder)
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}

	var updated *domain.ProductImage
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		img, err := lockImage(ctx, h.products, h.images, cmd.ID)
		if err != nil {
			return err
		}

		if cmd.AltText != nil {
			img.AltText = nil
			if strings.TrimSpace(*cmd.AltText) != "" {
				alt := *cmd.AltText
				img.AltText = &alt
			}
		}
		if cmd.SortOrder != nil {
			img.SortOrder = *cmd.SortOrder
		}

		demoted := false
		if cmd.IsPrimary != nil {
			switch {
			case *cmd.IsPrimary && img.IsOrphaned():
				return apperror.Validation("is_primary", "Only an image attached to a product can be primary")
			case *cmd.IsPrimary:
				if err := h.images.UnsetPrimary(ctx, *img.ProductID, img.ID); err != nil {
					return err
				}
				img.IsPrimary = true
			case img.IsPrimary && !img.IsOrphaned():
				siblings, err := h.images.FindByProduct(ctx, *img.ProductID)
				if err != nil {
					return err
				}
				if _, ok := domain.FirstInOrder(siblings, img.ID); !ok {
					return apperror.Validation("is_primary", "The only image of a product must stay primary")
				}
				img.IsPrimary = false
				demoted = true
			default:
				img.IsPrimary = false
			}
		}

		if err := h.images.Update(ctx, img); err != nil {
			return err
		}
		if demoted {
			if err := promoteNext(ctx, h.images, *img.ProductID, img.ID); err != nil {
				return err
			}
		}
		updated = img
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update image: %w", err)
	}

	return updated, nil
}
