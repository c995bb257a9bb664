package query

import (
	"context"
	"fmt"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/internal/catalog/media"
)

// relationLoader fills category, brand and images for a batch of products
type relationLoader struct {
	categories domain.CategoryRepository
	brands     domain.BrandRepository
	images     domain.ImageRepository
}

func (l relationLoader) load(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	productIDs := make([]uint, 0, len(products))
	categoryIDs := make([]uint, 0, len(products))
	var brandIDs []uint
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
		categoryIDs = append(categoryIDs, p.CategoryID)
		if p.BrandID != nil {
			brandIDs = append(brandIDs, *p.BrandID)
		}
	}

	categories, err := l.categories.FindByIDs(ctx, categoryIDs)
	if err != nil {
		return err
	}
	categoryByID := make(map[uint]domain.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}

	brands, err := l.brands.FindByIDs(ctx, brandIDs)
	if err != nil {
		return err
	}
	brandByID := make(map[uint]domain.Brand, len(brands))
	for _, b := range brands {
		brandByID[b.ID] = b
	}

	images, err := l.images.FindByProducts(ctx, productIDs)
	if err != nil {
		return err
	}
	imagesByProduct := make(map[uint][]domain.ProductImage, len(products))
	for _, img := range images {
		imagesByProduct[*img.ProductID] = append(imagesByProduct[*img.ProductID], img)
	}

	for i := range products {
		p := &products[i]
		if c, ok := categoryByID[p.CategoryID]; ok {
			p.Category = &c
		}
		if p.BrandID != nil {
			if b, ok := brandByID[*p.BrandID]; ok {
				p.Brand = &b
			}
		}
		p.Images = imagesByProduct[p.ID]
		domain.SortImages(p.Images)
	}
	return nil
}

// ListProductsQuery represents the query to list products
type ListProductsQuery struct {
	Filter domain.ProductFilter
}

// ListProductsHandler handles the list products query
type ListProductsHandler struct {
	products  domain.ProductRepository
	loader    relationLoader
	presenter *media.Presenter
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	brands domain.BrandRepository,
	images domain.ImageRepository,
	presenter *media.Presenter,
) *ListProductsHandler {
	return &ListProductsHandler{
		products:  products,
		loader:    relationLoader{categories: categories, brands: brands, images: images},
		presenter: presenter,
	}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(ctx context.Context, q ListProductsQuery) ([]media.ProductView, error) {
	products, err := h.products.FindAll(ctx, q.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if err := h.loader.load(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to load product relations: %w", err)
	}
	return h.presenter.Products(ctx, products), nil
}

// GetProductQuery represents the query to get one product
type GetProductQuery struct {
	ID          uint
	WithTrashed bool
}

// GetProductHandler handles the get product query
type GetProductHandler struct {
	products  domain.ProductRepository
	loader    relationLoader
	presenter *media.Presenter
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	brands domain.BrandRepository,
	images domain.ImageRepository,
	presenter *media.Presenter,
) *GetProductHandler {
	return &GetProductHandler{
		products:  products,
		loader:    relationLoader{categories: categories, brands: brands, images: images},
		presenter: presenter,
	}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(ctx context.Context, q GetProductQuery) (*media.ProductView, error) {
	var (
		product *domain.Product
		err     error
	)
	if q.WithTrashed {
		product, err = h.products.FindByIDWithTrashed(ctx, q.ID)
	} else {
		product, err = h.products.FindByID(ctx, q.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	batch := []domain.Product{*product}
	if err := h.loader.load(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to load product relations: %w", err)
	}
	view := h.presenter.Product(ctx, &batch[0])
	return &view, nil
}

// GetStatsQuery represents the query to get product statistics
type GetStatsQuery struct{}

// GetStatsHandler handles the statistics query
type GetStatsHandler struct {
	products domain.ProductRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(products domain.ProductRepository) *GetStatsHandler {
	return &GetStatsHandler{products: products}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(ctx context.Context, q GetStatsQuery) (*domain.ProductStats, error) {
	stats, err := h.products.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get product statistics: %w", err)
	}
	return stats, nil
}
