package command

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// UpdateProductCommand is a partial update; nil fields are left untouched.
// An EAN13 pointing to an empty string clears the code.
type UpdateProductCommand struct {
	ID            uint
	Name          *string
	CategoryID    *uint
	BrandID       domain.OptionalID
	Description   *string
	EAN13         *string
	PurchasePrice *decimal.Decimal
	SalePrice     *decimal.Decimal
	StockQuantity *int
	MinStock      *int
	IsActive      *bool
}

// UpdateProductHandler handles product updates
type UpdateProductHandler struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	brands     domain.BrandRepository
	tx         domain.Transactor
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	brands domain.BrandRepository,
	tx domain.Transactor,
) *UpdateProductHandler {
	return &UpdateProductHandler{products: products, categories: categories, brands: brands, tx: tx}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	var updated *domain.Product

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := h.products.FindByIDForUpdate(ctx, cmd.ID)
		if err != nil {
			return err
		}

		fields := apperror.FieldSet{}
		if cmd.Name != nil {
			checkName(fields, "name", *cmd.Name)
			product.Name = *cmd.Name
		}
		if cmd.PurchasePrice != nil {
			checkPrice(fields, "prix_achat", *cmd.PurchasePrice)
			product.PurchasePrice = *cmd.PurchasePrice
		}
		if cmd.SalePrice != nil {
			checkPrice(fields, "prix_vente", *cmd.SalePrice)
			product.SalePrice = *cmd.SalePrice
		}
		if cmd.StockQuantity != nil {
			checkNonNegative(fields, "stock_quantity", *cmd.StockQuantity)
			product.StockQuantity = *cmd.StockQuantity
		}
		if cmd.MinStock != nil {
			checkNonNegative(fields, "min_stock", *cmd.MinStock)
			product.MinStock = *cmd.MinStock
		}
		if cmd.EAN13 != nil {
			ean, err := domain.NormalizeEAN13(*cmd.EAN13)
			if err != nil {
				fields.Add("ean13", apperror.Public(err))
			}
			product.EAN13 = nil
			if ean != "" {
				product.EAN13 = &ean
			}
		}
		if err := fields.Err(); err != nil {
			return err
		}

		if cmd.CategoryID != nil {
			product.CategoryID = *cmd.CategoryID
		}
		if cmd.BrandID.Set {
			product.BrandID = cmd.BrandID.Value
		}
		if cmd.Description != nil {
			product.Description = *cmd.Description
		}
		if cmd.IsActive != nil {
			product.IsActive = *cmd.IsActive
		}

		var brandID *uint
		if cmd.BrandID.Set {
			brandID = product.BrandID
		}
		if err := checkReferences(ctx, h.categories, h.brands, cmd.CategoryID, brandID); err != nil {
			return err
		}
		if cmd.EAN13 != nil {
			if err := ensureEANFree(ctx, h.products, product.EAN13, product.ID); err != nil {
				return err
			}
		}

		if err := h.products.Update(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return updated, nil
}
