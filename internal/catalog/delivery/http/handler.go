package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/internal/catalog/media"
	"github.com/tair/catalog-admin/internal/catalog/usecase/command"
	"github.com/tair/catalog-admin/internal/catalog/usecase/query"
	"github.com/tair/catalog-admin/pkg/apperror"
	"github.com/tair/catalog-admin/pkg/auth"
	"github.com/tair/catalog-admin/pkg/blobstore"
	"github.com/tair/catalog-admin/pkg/cache"
	"github.com/tair/catalog-admin/pkg/events"
	"github.com/tair/catalog-admin/pkg/logger"
	"github.com/tair/catalog-admin/pkg/metrics"
)

// Commands groups the catalog write-side handlers
type Commands struct {
	CreateBrand       *command.CreateBrandHandler
	UpdateBrand       *command.UpdateBrandHandler
	RemoveBrandParent *command.RemoveBrandParentHandler
	DeleteBrand       *command.DeleteBrandHandler

	CreateCategory *command.CreateCategoryHandler
	UpdateCategory *command.UpdateCategoryHandler
	DeleteCategory *command.DeleteCategoryHandler

	CreateProduct      *command.CreateProductHandler
	UpdateProduct      *command.UpdateProductHandler
	DeleteProduct      *command.DeleteProductHandler
	RestoreProduct     *command.RestoreProductHandler
	ForceDeleteProduct *command.ForceDeleteProductHandler
	UpdateStock        *command.UpdateStockHandler
	UpdateStockByCode  *command.UpdateStockByCodeHandler

	UploadImages  *command.UploadImagesHandler
	UpdateImage   *command.UpdateImageHandler
	DeleteImage   *command.DeleteImageHandler
	ReorderImages *command.ReorderImagesHandler
	AttachImages  *command.AttachImagesHandler
}

// Queries groups the catalog read-side handlers
type Queries struct {
	ListBrands     *query.ListBrandsHandler
	GetBrand       *query.GetBrandHandler
	ListCategories *query.ListCategoriesHandler
	GetCategory    *query.GetCategoryHandler
	ListProducts   *query.ListProductsHandler
	GetProduct     *query.GetProductHandler
	GetStats       *query.GetStatsHandler
	ListImages     *query.ListImagesHandler
	GetImage       *query.GetImageHandler
}

// Pinger reports database reachability for /health
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CatalogHandler serves the catalog admin API
type CatalogHandler struct {
	commands  *Commands
	queries   *Queries
	presenter *media.Presenter

	brands   domain.BrandRepository
	products domain.ProductRepository
	images   domain.ImageRepository

	blobs     blobstore.Store
	cache     cache.Cache
	publisher events.Publisher
	tokens    *auth.TokenManager
	db        Pinger

	metrics *metrics.Registry
}

// NewCatalogHandler creates the catalog handler
func NewCatalogHandler(
	commands *Commands,
	queries *Queries,
	presenter *media.Presenter,
	brands domain.BrandRepository,
	products domain.ProductRepository,
	images domain.ImageRepository,
	blobs blobstore.Store,
	c cache.Cache,
	publisher events.Publisher,
	tokens *auth.TokenManager,
	db Pinger,
	m *metrics.Registry,
) *CatalogHandler {
	return &CatalogHandler{
		commands:  commands,
		queries:   queries,
		presenter: presenter,
		brands:    brands,
		products:  products,
		images:    images,
		blobs:     blobs,
		cache:     c,
		publisher: publisher,
		tokens:    tokens,
		db:        db,
		metrics:   m,
	}
}

// Response is the JSON envelope of every catalog endpoint
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// NewRouter returns the router the catalog routes expect. Paths are not
// cleaned, so /storage keys containing ".." reach ServeStorage and are
// rejected there instead of being redirected.
func NewRouter() *mux.Router {
	return mux.NewRouter().SkipClean(true)
}

// route registers a public endpoint
func (h *CatalogHandler) route(router *mux.Router, path string, fn http.HandlerFunc, method string) {
	router.HandleFunc(path, h.metrics.HTTP.Wrap(path, fn)).Methods(method)
}

// protected registers an endpoint that requires a bearer token
func (h *CatalogHandler) protected(router *mux.Router, path string, fn http.HandlerFunc, method string) {
	router.HandleFunc(path, h.metrics.HTTP.Wrap(path, h.tokens.RequireToken(fn))).Methods(method)
}

// RegisterRoutes mounts the catalog routes. Fixed segments are registered
// before {id} routes so they are matched first.
func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	h.route(router, "/api/brands", h.ListBrands, http.MethodGet)
	h.protected(router, "/api/brands", h.CreateBrand, http.MethodPost)
	h.route(router, "/api/brands/{id:[0-9]+}", h.GetBrand, http.MethodGet)
	h.protected(router, "/api/brands/{id:[0-9]+}", h.UpdateBrand, http.MethodPut)
	h.protected(router, "/api/brands/{id:[0-9]+}", h.DeleteBrand, http.MethodDelete)
	h.protected(router, "/api/brands/{id:[0-9]+}/remove-parent", h.RemoveBrandParent, http.MethodPost)

	h.route(router, "/api/categories", h.ListCategories, http.MethodGet)
	h.protected(router, "/api/categories", h.CreateCategory, http.MethodPost)
	h.route(router, "/api/categories/{id:[0-9]+}", h.GetCategory, http.MethodGet)
	h.protected(router, "/api/categories/{id:[0-9]+}", h.UpdateCategory, http.MethodPut)
	h.protected(router, "/api/categories/{id:[0-9]+}", h.DeleteCategory, http.MethodDelete)

	h.route(router, "/api/products/statistics", h.GetStats, http.MethodGet)
	h.protected(router, "/api/products/stock-by-code", h.UpdateStockByCode, http.MethodPost)
	h.route(router, "/api/products", h.ListProducts, http.MethodGet)
	h.protected(router, "/api/products", h.CreateProduct, http.MethodPost)
	h.route(router, "/api/products/{id:[0-9]+}", h.GetProduct, http.MethodGet)
	h.protected(router, "/api/products/{id:[0-9]+}", h.UpdateProduct, http.MethodPut)
	h.protected(router, "/api/products/{id:[0-9]+}", h.DeleteProduct, http.MethodDelete)
	h.protected(router, "/api/products/{id:[0-9]+}/stock", h.UpdateStock, http.MethodPatch)
	h.protected(router, "/api/products/{id:[0-9]+}/restore", h.RestoreProduct, http.MethodPost)
	h.protected(router, "/api/products/{id:[0-9]+}/force-delete", h.ForceDeleteProduct, http.MethodDelete)

	h.protected(router, "/api/product-images/reorder", h.ReorderImages, http.MethodPost)
	h.protected(router, "/api/product-images/attach", h.AttachImages, http.MethodPost)
	h.route(router, "/api/product-images", h.ListImages, http.MethodGet)
	h.protected(router, "/api/product-images", h.UploadImages, http.MethodPost)
	h.route(router, "/api/product-images/{id:[0-9]+}", h.GetImage, http.MethodGet)
	h.protected(router, "/api/product-images/{id:[0-9]+}", h.UpdateImage, http.MethodPut)
	h.protected(router, "/api/product-images/{id:[0-9]+}", h.DeleteImage, http.MethodDelete)

	router.PathPrefix("/storage/").Handler(h.metrics.HTTP.Wrap("/storage/", h.ServeStorage)).Methods(http.MethodGet, http.MethodHead)
}

// RegisterHealthCheck mounts GET /health
func (h *CatalogHandler) RegisterHealthCheck(router *mux.Router) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if h.db != nil {
			if err := h.db.PingContext(ctx); err != nil {
				logger.Error(ctx).Err(err).Msg("Health check failed")
				respondJSON(w, http.StatusServiceUnavailable, Response{
					Success: false,
					Error:   "Database unavailable",
				})
				return
			}
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Catalog service is healthy",
		})
	}).Methods(http.MethodGet)
}

// afterMutation runs once a write has committed: it publishes the catalog
// event, drops cached brand listings when brands changed, and refreshes the
// catalog gauges. None of these can fail the request.
func (h *CatalogHandler) afterMutation(ctx context.Context, resource, eventType string, id uint, attrs map[string]interface{}) {
	event := events.CatalogEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		Resource:   resource,
		ResourceID: id,
		Attributes: attrs,
		Timestamp:  time.Now().UTC(),
	}
	if err := h.publisher.Publish(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("resource", resource).
			Str("event_type", eventType).
			Uint("resource_id", id).
			Msg("Failed to publish catalog event")
	}

	if resource == "brand" {
		if err := h.cache.InvalidatePrefix(ctx, query.BrandCachePrefix); err != nil {
			logger.Warn(ctx).Err(err).Msg("Failed to invalidate brand cache")
		}
	}

	h.updateCatalogMetrics(ctx)
}

// updateCatalogMetrics refreshes the catalog gauges
func (h *CatalogHandler) updateCatalogMetrics(ctx context.Context) {
	if stats, err := h.products.Stats(ctx); err == nil {
		h.metrics.Catalog.Products.Set(float64(stats.TotalProducts))
		h.metrics.Catalog.LowStock.Set(float64(stats.LowStockProducts))
	}
	if n, err := h.images.CountOrphaned(ctx); err == nil {
		h.metrics.Catalog.OrphanedImages.Set(float64(n))
	}
	if n, err := h.brands.Count(ctx); err == nil {
		h.metrics.Catalog.Brands.Set(float64(n))
	}
}

// respondError maps err to its status code and envelope. Server-side
// failures are logged with the request context.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(r.Context()).
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Catalog request failed")
	}
	respondJSON(w, status, Response{
		Success: false,
		Error:   apperror.Public(err),
		Errors:  apperror.FieldErrors(err),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
