package command

import (
	"context"
	"fmt"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// DeleteProductCommand soft-deletes a product
type DeleteProductCommand struct {
	ID uint
}

// DeleteProductHandler handles soft deletion
type DeleteProductHandler struct {
	products domain.ProductRepository
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(products domain.ProductRepository) *DeleteProductHandler {
	return &DeleteProductHandler{products: products}
}

// Handle moves the product to the trash. Its images stay attached
func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) error {
	if err := h.products.SoftDelete(ctx, cmd.ID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// RestoreProductCommand brings a soft-deleted product back
type RestoreProductCommand struct {
	ID uint
}

// RestoreProductHandler handles restores
type RestoreProductHandler struct {
	products domain.ProductRepository
	tx       domain.Transactor
}

// NewRestoreProductHandler creates a new restore product handler
func NewRestoreProductHandler(products domain.ProductRepository, tx domain.Transactor) *RestoreProductHandler {
	return &RestoreProductHandler{products: products, tx: tx}
}

// Handle restores the product. Restoring a live product changes nothing;
// restoring one whose ean13 was reused meanwhile is a conflict.
func (h *RestoreProductHandler) Handle(ctx context.Context, cmd RestoreProductCommand) (*domain.Product, error) {
	var restored *domain.Product

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := h.products.FindByIDWithTrashedForUpdate(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if !product.IsTrashed() {
			restored = product
			return nil
		}

		if err := ensureEANFree(ctx, h.products, product.EAN13, product.ID); err != nil {
			return err
		}
		if err := h.products.Restore(ctx, cmd.ID); err != nil {
			return err
		}

		restored, err = h.products.FindByID(ctx, cmd.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to restore product: %w", err)
	}

	return restored, nil
}

// ForceDeleteProductCommand permanently removes a trashed product
type ForceDeleteProductCommand struct {
	ID uint
}

// ForceDeleteProductHandler handles permanent deletion
type ForceDeleteProductHandler struct {
	products domain.ProductRepository
	images   domain.ImageRepository
	tx       domain.Transactor
}

// NewForceDeleteProductHandler creates a new force delete handler
func NewForceDeleteProductHandler(products domain.ProductRepository, images domain.ImageRepository, tx domain.Transactor) *ForceDeleteProductHandler {
	return &ForceDeleteProductHandler{products: products, images: images, tx: tx}
}

// Handle purges the product and turns its images into orphans
func (h *ForceDeleteProductHandler) Handle(ctx context.Context, cmd ForceDeleteProductCommand) error {
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := h.products.FindByIDWithTrashedForUpdate(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if !product.IsTrashed() {
			return apperror.Conflict("Product must be deleted before it can be permanently removed")
		}

		if err := h.images.DetachByProduct(ctx, cmd.ID); err != nil {
			return err
		}
		return h.products.ForceDelete(ctx, cmd.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to force delete product: %w", err)
	}
	return nil
}
