package query

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
	"github.com/tair/catalog-admin/pkg/cache"
	"github.com/tair/catalog-admin/pkg/logger"
)

// BrandCachePrefix prefixes every cached brand listing
const BrandCachePrefix = "brands:"

// ListBrandsQuery represents the query to list brands
type ListBrandsQuery struct {
	IsActive      *bool
	RootsOnly     bool
	Search        string
	SortBy        string
	SortDirection string
	Hierarchical  bool
}

func (q ListBrandsQuery) cacheKey() string {
	v := url.Values{}
	if q.IsActive != nil {
		v.Set("is_active", strconv.FormatBool(*q.IsActive))
	}
	v.Set("roots_only", strconv.FormatBool(q.RootsOnly))
	v.Set("search", q.Search)
	v.Set("sort_by", q.SortBy)
	v.Set("sort_direction", q.SortDirection)
	v.Set("hierarchical", strconv.FormatBool(q.Hierarchical))
	return BrandCachePrefix + "list:" + v.Encode()
}

// BrandListing is a flat list or, when Hierarchical, a forest
type BrandListing struct {
	Hierarchical bool                `json:"hierarchical"`
	Brands       []domain.Brand      `json:"brands"`
	Tree         []*domain.BrandNode `json:"tree"`
}

// normalize makes the populated view non-nil so an empty result encodes as []
func (l *BrandListing) normalize() {
	if l.Hierarchical {
		if l.Tree == nil {
			l.Tree = []*domain.BrandNode{}
		}
		return
	}
	if l.Brands == nil {
		l.Brands = []domain.Brand{}
	}
}

// ListBrandsHandler handles the list brands query with cache-aside reads
type ListBrandsHandler struct {
	brands domain.BrandRepository
	cache  cache.Cache
	ttl    time.Duration
}

// NewListBrandsHandler creates a new list brands handler
func NewListBrandsHandler(brands domain.BrandRepository, c cache.Cache, ttl time.Duration) *ListBrandsHandler {
	return &ListBrandsHandler{brands: brands, cache: c, ttl: ttl}
}

// Handle executes the list brands query. Filters apply before the forest is
// assembled, so a brand whose parent was filtered out is listed as a root.
func (h *ListBrandsHandler) Handle(ctx context.Context, q ListBrandsQuery) (*BrandListing, error) {
	key := q.cacheKey()
	if raw, ok, err := h.cache.Get(ctx, key); err != nil {
		logger.Warn(ctx).Err(err).Str("key", key).Msg("Brand cache read failed")
	} else if ok {
		var listing BrandListing
		if err := json.Unmarshal(raw, &listing); err == nil {
			listing.normalize()
			return &listing, nil
		}
	}

	all, err := h.brands.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}

	filter := domain.BrandFilter{IsActive: q.IsActive, RootsOnly: q.RootsOnly, Search: q.Search}
	matched := make([]domain.Brand, 0, len(all))
	for i := range all {
		if filter.Matches(&all[i]) {
			matched = append(matched, all[i])
		}
	}
	if err := domain.SortBrands(matched, q.SortBy, q.SortDirection); err != nil {
		return nil, err
	}

	listing := &BrandListing{Hierarchical: q.Hierarchical}
	if q.Hierarchical {
		listing.Tree = domain.BuildForest(matched)
	} else {
		hierarchy := domain.NewHierarchy(all)
		listing.Brands = make([]domain.Brand, 0, len(matched))
		for _, b := range matched {
			listing.Brands = append(listing.Brands, withRelations(hierarchy, b))
		}
	}

	listing.normalize()
	if raw, err := json.Marshal(listing); err == nil {
		if err := h.cache.Set(ctx, key, raw, h.ttl); err != nil {
			logger.Warn(ctx).Err(err).Str("key", key).Msg("Brand cache write failed")
		}
	}
	return listing, nil
}

// withRelations attaches the parent summary and the direct children ordered by name
func withRelations(hierarchy *domain.Hierarchy, b domain.Brand) domain.Brand {
	out := b.Summary()
	if b.ParentID != nil {
		if parent, ok := hierarchy.Get(*b.ParentID); ok {
			p := parent.Summary()
			out.Parent = &p
		}
	}
	out.Children = hierarchy.Children(b.ID)
	return out
}

// GetBrandQuery represents the query to get one brand
type GetBrandQuery struct {
	ID uint
}

// BrandDetail is a brand with its position in the hierarchy and product counts
type BrandDetail struct {
	Brand               domain.Brand   `json:"brand"`
	ProductsCount       int64          `json:"products_count"`
	ActiveProductsCount int64          `json:"active_products_count"`
	ChildrenCount       int            `json:"children_count"`
	Ancestors           []domain.Brand `json:"ancestors"`
	Depth               int            `json:"depth"`
}

// GetBrandHandler handles the get brand query
type GetBrandHandler struct {
	brands   domain.BrandRepository
	products domain.ProductRepository
}

// NewGetBrandHandler creates a new get brand handler
func NewGetBrandHandler(brands domain.BrandRepository, products domain.ProductRepository) *GetBrandHandler {
	return &GetBrandHandler{brands: brands, products: products}
}

// Handle executes the get brand query
func (h *GetBrandHandler) Handle(ctx context.Context, q GetBrandQuery) (*BrandDetail, error) {
	all, err := h.brands.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	hierarchy := domain.NewHierarchy(all)

	brand, ok := hierarchy.Get(q.ID)
	if !ok {
		return nil, apperror.NotFound("brand", q.ID)
	}

	products, err := h.products.CountByBrand(ctx, q.ID, domain.CountLive)
	if err != nil {
		return nil, fmt.Errorf("failed to count brand products: %w", err)
	}
	active, err := h.products.CountByBrand(ctx, q.ID, domain.CountActive)
	if err != nil {
		return nil, fmt.Errorf("failed to count brand products: %w", err)
	}

	detail := withRelations(hierarchy, *brand)
	ancestors := hierarchy.Ancestors(q.ID)
	if ancestors == nil {
		ancestors = []domain.Brand{}
	}
	return &BrandDetail{
		Brand:               detail,
		ProductsCount:       products,
		ActiveProductsCount: active,
		ChildrenCount:       len(detail.Children),
		Ancestors:           ancestors,
		Depth:               len(ancestors),
	}, nil
}
