package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// ListCategoriesQuery represents the query to list categories
type ListCategoriesQuery struct {
	IsActive      *bool
	Search        string
	SortBy        string
	SortDirection string
}

// ListCategoriesHandler handles the list categories query
type ListCategoriesHandler struct {
	categories domain.CategoryRepository
}

// NewListCategoriesHandler creates a new list categories handler
func NewListCategoriesHandler(categories domain.CategoryRepository) *ListCategoriesHandler {
	return &ListCategoriesHandler{categories: categories}
}

// Handle executes the list categories query. The default order is name ascending
func (h *ListCategoriesHandler) Handle(ctx context.Context, q ListCategoriesQuery) ([]domain.Category, error) {
	desc := false
	switch strings.ToLower(q.SortDirection) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return nil, apperror.Validation("sort_direction", "The selected sort direction is invalid. Allowed: asc, desc")
	}

	var less func(a, b *domain.Category) bool
	switch q.SortBy {
	case "", "name":
		less = func(a, b *domain.Category) bool { return a.Name < b.Name }
	case "created_at":
		less = func(a, b *domain.Category) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "id":
		less = func(a, b *domain.Category) bool { return a.ID < b.ID }
	default:
		return nil, apperror.Validation("sort_by", "The selected sort by is invalid. Allowed: name, created_at, id")
	}

	categories, err := h.categories.FindAll(ctx, domain.CategoryFilter{IsActive: q.IsActive, Search: q.Search})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	sort.SliceStable(categories, func(i, j int) bool {
		if desc {
			return less(&categories[j], &categories[i])
		}
		return less(&categories[i], &categories[j])
	})
	return categories, nil
}

// GetCategoryQuery represents the query to get one category
type GetCategoryQuery struct {
	ID uint
}

// CategoryDetail is a category with its product counts
type CategoryDetail struct {
	Category            domain.Category `json:"category"`
	ProductsCount       int64           `json:"products_count"`
	ActiveProductsCount int64           `json:"active_products_count"`
}

// GetCategoryHandler handles the get category query
type GetCategoryHandler struct {
	categories domain.CategoryRepository
	products   domain.ProductRepository
}

// NewGetCategoryHandler creates a new get category handler
func NewGetCategoryHandler(categories domain.CategoryRepository, products domain.ProductRepository) *GetCategoryHandler {
	return &GetCategoryHandler{categories: categories, products: products}
}

// Handle executes the get category query
func (h *GetCategoryHandler) Handle(ctx context.Context, q GetCategoryQuery) (*CategoryDetail, error) {
	category, err := h.categories.FindByID(ctx, q.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	total, err := h.products.CountByCategory(ctx, q.ID, domain.CountLive)
	if err != nil {
		return nil, fmt.Errorf("failed to count category products: %w", err)
	}
	active, err := h.products.CountByCategory(ctx, q.ID, domain.CountActive)
	if err != nil {
		return nil, fmt.Errorf("failed to count category products: %w", err)
	}

	return &CategoryDetail{
		Category:            *category,
		ProductsCount:       total,
		ActiveProductsCount: active,
	}, nil
}
