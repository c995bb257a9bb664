package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// CreateProductCommand represents the command to create a new product
type CreateProductCommand struct {
	Name          string
	CategoryID    uint
	BrandID       *uint
	Description   string
	EAN13         string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	StockQuantity int
	MinStock      int
	IsActive      *bool
}

// CreateProductHandler handles product creation
type CreateProductHandler struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	brands     domain.BrandRepository
	tx         domain.Transactor
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	brands domain.BrandRepository,
	tx domain.Transactor,
) *CreateProductHandler {
	return &CreateProductHandler{products: products, categories: categories, brands: brands, tx: tx}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	fields := apperror.FieldSet{}
	checkName(fields, "name", cmd.Name)
	checkPrice(fields, "prix_achat", cmd.PurchasePrice)
	checkPrice(fields, "prix_vente", cmd.SalePrice)
	checkNonNegative(fields, "stock_quantity", cmd.StockQuantity)
	checkNonNegative(fields, "min_stock", cmd.MinStock)
	if cmd.CategoryID == 0 {
		fields.Add("category_id", "The category id field is required")
	}
	ean, err := domain.NormalizeEAN13(cmd.EAN13)
	if err != nil {
		fields.Add("ean13", apperror.Public(err))
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:          cmd.Name,
		CategoryID:    cmd.CategoryID,
		BrandID:       cmd.BrandID,
		Description:   cmd.Description,
		PurchasePrice: cmd.PurchasePrice,
		SalePrice:     cmd.SalePrice,
		StockQuantity: cmd.StockQuantity,
		MinStock:      cmd.MinStock,
		IsActive:      boolOr(cmd.IsActive, true),
	}
	if ean != "" {
		product.EAN13 = &ean
	}

	err = h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := checkReferences(ctx, h.categories, h.brands, &product.CategoryID, product.BrandID); err != nil {
			return err
		}
		if err := ensureEANFree(ctx, h.products, product.EAN13, 0); err != nil {
			return err
		}
		return h.products.Create(ctx, product)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// checkReferences validates the category and brand ids a product points to.
// A nil categoryID is not checked.
func checkReferences(ctx context.Context, categories domain.CategoryRepository, brands domain.BrandRepository, categoryID, brandID *uint) error {
	fields := apperror.FieldSet{}
	if categoryID != nil {
		ok, err := categories.Exists(ctx, *categoryID)
		if err != nil {
			return err
		}
		if !ok {
			fields.Add("category_id", "The selected category id is invalid")
		}
	}
	if brandID != nil {
		ok, err := brands.Exists(ctx, *brandID)
		if err != nil {
			return err
		}
		if !ok {
			fields.Add("brand_id", "The selected brand id is invalid")
		}
	}
	return fields.Err()
}

// ensureEANFree fails with a conflict when another live product holds ean
func ensureEANFree(ctx context.Context, products domain.ProductRepository, ean *string, exceptID uint) error {
	if ean == nil {
		return nil
	}
	existing, err := products.FindByEAN13(ctx, *ean)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != exceptID:
		return apperror.Conflict("The ean13 has already been taken")
	}
	return nil
}
