package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// ProductRepository implements domain.ProductRepository over a Store
type ProductRepository struct {
	s *Store
}

func cloneProduct(p domain.Product) domain.Product {
	p.Category = nil
	p.Brand = nil
	p.Images = nil
	p.BrandID = copyUint(p.BrandID)
	p.EAN13 = copyString(p.EAN13)
	return p
}

// eanTaken mirrors the partial unique index on live products. Callers hold s.mu
func (r *ProductRepository) eanTaken(ean *string, exceptID uint) bool {
	if ean == nil {
		return false
	}
	for _, p := range r.s.products {
		if p.ID != exceptID && !p.DeletedAt.Valid && p.EAN13 != nil && *p.EAN13 == *ean {
			return true
		}
	}
	return false
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.eanTaken(product.EAN13, 0) {
		return apperror.Conflict("The ean13 has already been taken")
	}
	product.ID = r.s.id("products")
	now := r.s.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.s.products[product.ID] = cloneProduct(*product)
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[product.ID]; !ok {
		return apperror.NotFound("product", product.ID)
	}
	if !product.DeletedAt.Valid && r.eanTaken(product.EAN13, product.ID) {
		return apperror.Conflict("The ean13 has already been taken")
	}
	product.UpdatedAt = r.s.now()
	r.s.products[product.ID] = cloneProduct(*product)
	return nil
}

func (r *ProductRepository) find(id uint, withTrashed bool) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok || (!withTrashed && p.DeletedAt.Valid) {
		return nil, apperror.NotFound("product", id)
	}
	out := cloneProduct(p)
	return &out, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	return r.find(id, false)
}

func (r *ProductRepository) FindByIDWithTrashed(ctx context.Context, id uint) (*domain.Product, error) {
	return r.find(id, true)
}

func (r *ProductRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Product, error) {
	return r.find(id, false)
}

func (r *ProductRepository) FindByIDWithTrashedForUpdate(ctx context.Context, id uint) (*domain.Product, error) {
	return r.find(id, true)
}

func (r *ProductRepository) FindByEAN13(ctx context.Context, ean13 string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.products {
		if !p.DeletedAt.Valid && p.EAN13 != nil && *p.EAN13 == ean13 {
			out := cloneProduct(p)
			return &out, nil
		}
	}
	return nil, apperror.NotFound("product with ean13", ean13)
}

func matchesProduct(p domain.Product, filter domain.ProductFilter, search string) bool {
	switch filter.Trashed {
	case domain.TrashedOnly:
		if !p.DeletedAt.Valid {
			return false
		}
	case domain.TrashedWith:
	default:
		if p.DeletedAt.Valid {
			return false
		}
	}
	if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
		return false
	}
	if filter.BrandID != nil && (p.BrandID == nil || *p.BrandID != *filter.BrandID) {
		return false
	}
	if filter.IsActive != nil && p.IsActive != *filter.IsActive {
		return false
	}
	if filter.LowStock && !p.IsLowStock() {
		return false
	}
	if search != "" {
		hay := strings.ToLower(p.Name + "\x00" + p.Description)
		if p.EAN13 != nil {
			hay += "\x00" + *p.EAN13
		}
		if !strings.Contains(hay, search) {
			return false
		}
	}
	return true
}

func (r *ProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if matchesProduct(p, filter, search) {
			out = append(out, cloneProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok || p.DeletedAt.Valid {
		return apperror.NotFound("product", id)
	}
	p.DeletedAt = gorm.DeletedAt{Time: r.s.now(), Valid: true}
	r.s.products[id] = p
	return nil
}

func (r *ProductRepository) Restore(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return apperror.NotFound("product", id)
	}
	if r.eanTaken(p.EAN13, id) {
		return apperror.Conflict("The ean13 has already been taken")
	}
	p.DeletedAt = gorm.DeletedAt{}
	p.UpdatedAt = r.s.now()
	r.s.products[id] = p
	return nil
}

func (r *ProductRepository) ForceDelete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.products, id)
	return nil
}

func (r *ProductRepository) UpdateStock(ctx context.Context, id uint, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok || p.DeletedAt.Valid {
		return apperror.NotFound("product", id)
	}
	p.StockQuantity = quantity
	p.UpdatedAt = r.s.now()
	r.s.products[id] = p
	return nil
}

func inScope(p domain.Product, scope domain.CountScope) bool {
	switch scope {
	case domain.CountIncludingTrashed:
		return true
	case domain.CountActive:
		return !p.DeletedAt.Valid && p.IsActive
	default:
		return !p.DeletedAt.Valid
	}
}

func (r *ProductRepository) CountByBrand(ctx context.Context, brandID uint, scope domain.CountScope) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, p := range r.s.products {
		if p.BrandID != nil && *p.BrandID == brandID && inScope(p, scope) {
			n++
		}
	}
	return n, nil
}

func (r *ProductRepository) CountByCategory(ctx context.Context, categoryID uint, scope domain.CountScope) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, p := range r.s.products {
		if p.CategoryID == categoryID && inScope(p, scope) {
			n++
		}
	}
	return n, nil
}

func (r *ProductRepository) Stats(ctx context.Context) (*domain.ProductStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stats := &domain.ProductStats{TotalValue: decimal.Zero}
	marginSum := decimal.Zero
	var marginCount int64
	hundred := decimal.NewFromInt(100)

	for _, p := range r.s.products {
		if p.DeletedAt.Valid {
			continue
		}
		stats.TotalProducts++
		if p.IsActive {
			stats.ActiveProducts++
		}
		if p.IsLowStock() {
			stats.LowStockProducts++
		}
		if p.StockQuantity <= 0 {
			stats.OutOfStockProducts++
		}
		stats.TotalValue = stats.TotalValue.Add(p.SalePrice)
		if p.PurchasePrice.IsPositive() {
			marginSum = marginSum.Add(p.SalePrice.Sub(p.PurchasePrice).Div(p.PurchasePrice).Mul(hundred))
			marginCount++
		}
	}

	if marginCount > 0 {
		avg, _ := marginSum.Div(decimal.NewFromInt(marginCount)).Round(2).Float64()
		stats.AverageProfitMargin = &avg
	}
	return stats, nil
}
