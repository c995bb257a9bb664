package command

import (
	"context"
	"fmt"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// UpdateStockCommand sets the stock of a product identified by id
type UpdateStockCommand struct {
	ID            uint
	StockQuantity int
}

// UpdateStockHandler handles stock updates
type UpdateStockHandler struct {
	products domain.ProductRepository
	tx       domain.Transactor
}

// NewUpdateStockHandler creates a new update stock handler
func NewUpdateStockHandler(products domain.ProductRepository, tx domain.Transactor) *UpdateStockHandler {
	return &UpdateStockHandler{products: products, tx: tx}
}

// Handle executes the update stock command
func (h *UpdateStockHandler) Handle(ctx context.Context, cmd UpdateStockCommand) (*domain.Product, error) {
	fields := apperror.FieldSet{}
	checkNonNegative(fields, "stock_quantity", cmd.StockQuantity)
	if err := fields.Err(); err != nil {
		return nil, err
	}

	var product *domain.Product
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		product, err = h.products.FindByIDForUpdate(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if err := h.products.UpdateStock(ctx, cmd.ID, cmd.StockQuantity); err != nil {
			return err
		}
		product.StockQuantity = cmd.StockQuantity
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	return product, nil
}

// UpdateStockByCodeCommand identifies the product by id or by ean13.
// The id wins when both are given; a zero id counts as absent.
type UpdateStockByCodeCommand struct {
	ID            *uint
	EAN13         string
	StockQuantity int
}

// UpdateStockByCodeHandler resolves a product code and updates its stock.
// It never creates products.
type UpdateStockByCodeHandler struct {
	products domain.ProductRepository
	stock    *UpdateStockHandler
}

// NewUpdateStockByCodeHandler creates a new stock-by-code handler
func NewUpdateStockByCodeHandler(products domain.ProductRepository, stock *UpdateStockHandler) *UpdateStockByCodeHandler {
	return &UpdateStockByCodeHandler{products: products, stock: stock}
}

// Handle executes the stock-by-code command. The ean13 is left-padded to 13
// digits before lookup, so "123" matches "0000000000123".
func (h *UpdateStockByCodeHandler) Handle(ctx context.Context, cmd UpdateStockByCodeCommand) (*domain.Product, error) {
	fields := apperror.FieldSet{}
	checkNonNegative(fields, "stock_quantity", cmd.StockQuantity)
	if err := fields.Err(); err != nil {
		return nil, err
	}

	if cmd.ID != nil && *cmd.ID != 0 {
		return h.stock.Handle(ctx, UpdateStockCommand{ID: *cmd.ID, StockQuantity: cmd.StockQuantity})
	}

	ean, err := domain.NormalizeEAN13(cmd.EAN13)
	if err != nil {
		return nil, err
	}
	if ean == "" {
		return nil, apperror.ValidationFields(map[string]string{
			"id":    "Either id or ean13 is required",
			"ean13": "Either id or ean13 is required",
		})
	}

	product, err := h.products.FindByEAN13(ctx, ean)
	if err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}
	return h.stock.Handle(ctx, UpdateStockCommand{ID: product.ID, StockQuantity: cmd.StockQuantity})
}
