package command

import (
	"context"
	"fmt"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// DeleteBrandCommand represents the command to delete a brand
type DeleteBrandCommand struct {
	ID uint
}

// DeleteBrandHandler handles brand deletion
type DeleteBrandHandler struct {
	brands   domain.BrandRepository
	products domain.ProductRepository
	tx       domain.Transactor
}

// NewDeleteBrandHandler creates a new delete brand handler
func NewDeleteBrandHandler(brands domain.BrandRepository, products domain.ProductRepository, tx domain.Transactor) *DeleteBrandHandler {
	return &DeleteBrandHandler{brands: brands, products: products, tx: tx}
}

// Handle deletes the brand unless products (trashed ones included) or child brands still reference it
func (h *DeleteBrandHandler) Handle(ctx context.Context, cmd DeleteBrandCommand) (*domain.Brand, error) {
	var deleted *domain.Brand

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		brand, err := h.brands.FindByID(ctx, cmd.ID)
		if err != nil {
			return err
		}

		products, err := h.products.CountByBrand(ctx, cmd.ID, domain.CountIncludingTrashed)
		if err != nil {
			return err
		}
		if products > 0 {
			return apperror.DeleteBlocked("Cannot delete brand with existing products")
		}

		children, err := h.brands.CountChildren(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if children > 0 {
			return apperror.DeleteBlocked("Cannot delete brand with child brands. Please delete or reassign child brands first.")
		}

		deleted = brand
		return h.brands.Delete(ctx, cmd.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete brand: %w", err)
	}

	return deleted, nil
}
