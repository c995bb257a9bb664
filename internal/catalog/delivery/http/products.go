package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/internal/catalog/usecase/command"
	"github.com/tair/catalog-admin/internal/catalog/usecase/query"
	"github.com/tair/catalog-admin/pkg/apperror"
	"github.com/tair/catalog-admin/pkg/events"
	"github.com/tair/catalog-admin/pkg/logger"
)

// ListProducts handles GET /api/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := newQueryParams(r)
	filter := domain.ProductFilter{
		CategoryID: params.id("category_id"),
		BrandID:    params.id("brand_id"),
		IsActive:   params.boolean("is_active"),
		LowStock:   params.flag("low_stock"),
		Search:     params.str("search"),
		Trashed: domain.TrashedMode(params.oneOf("trashed",
			string(domain.TrashedWithout), string(domain.TrashedWith), string(domain.TrashedOnly))),
	}
	if err := params.err(); err != nil {
		respondError(w, r, err)
		return
	}

	products, err := h.queries.ListProducts.Handle(r.Context(), query.ListProductsQuery{Filter: filter})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"products": products,
			"total":    len(products),
		},
	})
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	params := newQueryParams(r)
	withTrashed := params.flag("with_trashed")
	if err := params.err(); err != nil {
		respondError(w, r, err)
		return
	}

	product, err := h.queries.GetProduct.Handle(r.Context(), query.GetProductQuery{ID: id, WithTrashed: withTrashed})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: product})
}

// GetStats handles GET /api/products/statistics
func (h *CatalogHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.queries.GetStats.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: stats})
}

type productRequest struct {
	Name          string           `json:"name"`
	CategoryID    uint             `json:"category_id"`
	BrandID       *uint            `json:"brand_id"`
	Description   string           `json:"description"`
	EAN13         string           `json:"ean13"`
	PurchasePrice *decimal.Decimal `json:"prix_achat"`
	SalePrice     *decimal.Decimal `json:"prix_vente"`
	StockQuantity *int             `json:"stock_quantity"`
	MinStock      *int             `json:"min_stock"`
	IsActive      *bool            `json:"is_active"`
}

func (req productRequest) command() (command.CreateProductCommand, error) {
	fields := apperror.FieldSet{}
	if req.PurchasePrice == nil {
		fields.Add("prix_achat", "The prix achat field is required")
	}
	if req.SalePrice == nil {
		fields.Add("prix_vente", "The prix vente field is required")
	}
	if req.StockQuantity == nil {
		fields.Add("stock_quantity", "The stock quantity field is required")
	}
	if err := fields.Err(); err != nil {
		return command.CreateProductCommand{}, err
	}

	minStock := 0
	if req.MinStock != nil {
		minStock = *req.MinStock
	}
	return command.CreateProductCommand{
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		BrandID:       req.BrandID,
		Description:   req.Description,
		EAN13:         req.EAN13,
		PurchasePrice: *req.PurchasePrice,
		SalePrice:     *req.SalePrice,
		StockQuantity: *req.StockQuantity,
		MinStock:      minStock,
		IsActive:      req.IsActive,
	}, nil
}

// CreateProduct handles POST /api/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadBody(w)
		return
	}
	cmd, err := req.command()
	if err != nil {
		respondError(w, r, err)
		return
	}

	product, err := h.commands.CreateProduct.Handle(r.Context(), cmd)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logger.Info(r.Context()).Uint("product_id", product.ID).Str("name", product.Name).Msg("Product created")
	h.afterMutation(r.Context(), "product", events.EventTypeCreated, product.ID, map[string]interface{}{
		"category_id": product.CategoryID,
		"brand_id":    product.BrandID,
	})

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product created successfully",
		Data:    h.productView(r, product.ID, false, product),
	})
}

// UpdateProduct handles PUT /api/products/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req struct {
		Name          *string          `json:"name"`
		CategoryID    *uint            `json:"category_id"`
		BrandID       nullableID       `json:"brand_id"`
		Description   *string          `json:"description"`
		EAN13         *string          `json:"ean13"`
		PurchasePrice *decimal.Decimal `json:"prix_achat"`
		SalePrice     *decimal.Decimal `json:"prix_vente"`
		StockQuantity *int             `json:"stock_quantity"`
		MinStock      *int             `json:"min_stock"`
		IsActive      *bool            `json:"is_active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadBody(w)
		return
	}

	product, err := h.commands.UpdateProduct.Handle(r.Context(), command.UpdateProductCommand{
		ID:            id,
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		BrandID:       req.BrandID.OptionalID,
		Description:   req.Description,
		EAN13:         req.EAN13,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		StockQuantity: req.StockQuantity,
		MinStock:      req.MinStock,
		IsActive:      req.IsActive,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.afterMutation(r.Context(), "product", events.EventTypeUpdated, product.ID, nil)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product updated successfully",
		Data:    h.productView(r, product.ID, false, product),
	})
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.commands.DeleteProduct.Handle(r.Context(), command.DeleteProductCommand{ID: id}); err != nil {
		respondError(w, r, err)
		return
	}

	h.afterMutation(r.Context(), "product", events.EventTypeDeleted, id, nil)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product deleted successfully",
	})
}

// RestoreProduct handles POST /api/products/{id}/restore
func (h *CatalogHandler) RestoreProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	product, err := h.commands.RestoreProduct.Handle(r.Context(), command.RestoreProductCommand{ID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.afterMutation(r.Context(), "product", events.EventTypeRestored, product.ID, nil)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product restored successfully",
		Data:    h.productView(r, product.ID, false, product),
	})
}

// ForceDeleteProduct handles DELETE /api/products/{id}/force-delete
func (h *CatalogHandler) ForceDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.commands.ForceDeleteProduct.Handle(r.Context(), command.ForceDeleteProductCommand{ID: id}); err != nil {
		respondError(w, r, err)
		return
	}

	logger.Info(r.Context()).Uint("product_id", id).Msg("Product permanently deleted")
	h.afterMutation(r.Context(), "product", events.EventTypePurged, id, nil)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product permanently deleted",
	})
}

// UpdateStock handles PATCH /api/products/{id}/stock
func (h *CatalogHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req struct {
		StockQuantity *int `json:"stock_quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadBody(w)
		return
	}
	if req.StockQuantity == nil {
		respondError(w, r, apperror.Validation("stock_quantity", "The stock quantity field is required"))
		return
	}

	product, err := h.commands.UpdateStock.Handle(r.Context(), command.UpdateStockCommand{ID: id, StockQuantity: *req.StockQuantity})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.afterMutation(r.Context(), "product", events.EventTypeUpdated, product.ID, map[string]interface{}{
		"stock_quantity": product.StockQuantity,
	})
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock updated successfully",
		Data:    h.productView(r, product.ID, false, product),
	})
}

// UpdateStockByCode handles POST /api/products/stock-by-code
func (h *CatalogHandler) UpdateStockByCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID            *uint  `json:"id"`
		EAN13         string `json:"ean13"`
		StockQuantity *int   `json:"stock_quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadBody(w)
		return
	}
	if req.StockQuantity == nil {
		respondError(w, r, apperror.Validation("stock_quantity", "The stock quantity field is required"))
		return
	}

	product, err := h.commands.UpdateStockByCode.Handle(r.Context(), command.UpdateStockByCodeCommand{
		ID:            req.ID,
		EAN13:         req.EAN13,
		StockQuantity: *req.StockQuantity,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.afterMutation(r.Context(), "product", events.EventTypeUpdated, product.ID, map[string]interface{}{
		"stock_quantity": product.StockQuantity,
	})
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock updated successfully",
		Data:    h.productView(r, product.ID, false, product),
	})
}

// productView reloads the product with its relations and resolved images
func (h *CatalogHandler) productView(r *http.Request, id uint, withTrashed bool, fallback interface{}) interface{} {
	view, err := h.queries.GetProduct.Handle(r.Context(), query.GetProductQuery{ID: id, WithTrashed: withTrashed})
	if err != nil {
		logger.Warn(r.Context()).Err(err).Uint("product_id", id).Msg("Failed to reload product")
		return fallback
	}
	return view
}
