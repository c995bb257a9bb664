package repository

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
	"github.com/tair/catalog-admin/pkg/database"
)

const eanTakenMessage = "The ean13 has already been taken"

// GormProductRepository stores products in PostgreSQL with soft deletes
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a product repository over db
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// translateProduct reports a unique violation as the taken-ean conflict, the
// only unique index on products
func translateProduct(err error, key interface{}) error {
	if err != nil && isUniqueViolation(err) {
		return apperror.Conflict(eanTakenMessage)
	}
	return translate(err, "product", key)
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := startSpan(ctx, "product.Create",
		attribute.String("product.name", product.Name),
		idAttr("product.category_id", product.CategoryID),
	)
	err := translateProduct(database.Conn(ctx, r.db).Create(product).Error, product.Name)
	if err == nil {
		span.SetAttributes(idAttr("product.id", product.ID))
	}
	return endSpan(span, err)
}

func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := startSpan(ctx, "product.Update", idAttr("product.id", product.ID))
	result := database.Conn(ctx, r.db).Model(product).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(product)
	err := translateProduct(result.Error, product.ID)
	if err == nil && result.RowsAffected == 0 {
		err = apperror.NotFound("product", product.ID)
	}
	return endSpan(span, err)
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, span := startSpan(ctx, "product.FindByID", idAttr("product.id", id))
	var product domain.Product
	if err := database.Conn(ctx, r.db).First(&product, id).Error; err != nil {
		return nil, endSpan(span, translateProduct(err, id))
	}
	return &product, endSpan(span, nil)
}

func (r *GormProductRepository) FindByIDWithTrashed(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, span := startSpan(ctx, "product.FindByIDWithTrashed", idAttr("product.id", id))
	var product domain.Product
	if err := database.Conn(ctx, r.db).Unscoped().First(&product, id).Error; err != nil {
		return nil, endSpan(span, translateProduct(err, id))
	}
	return &product, endSpan(span, nil)
}

func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, span := startSpan(ctx, "product.FindByIDForUpdate", idAttr("product.id", id))
	var product domain.Product
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, id).Error
	if err != nil {
		return nil, endSpan(span, translateProduct(err, id))
	}
	return &product, endSpan(span, nil)
}

func (r *GormProductRepository) FindByIDWithTrashedForUpdate(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, span := startSpan(ctx, "product.FindByIDWithTrashedForUpdate", idAttr("product.id", id))
	var product domain.Product
	err := database.Conn(ctx, r.db).
		Unscoped().
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, id).Error
	if err != nil {
		return nil, endSpan(span, translateProduct(err, id))
	}
	return &product, endSpan(span, nil)
}

func (r *GormProductRepository) FindByEAN13(ctx context.Context, ean13 string) (*domain.Product, error) {
	ctx, span := startSpan(ctx, "product.FindByEAN13", attribute.String("product.ean13", ean13))
	var product domain.Product
	if err := database.Conn(ctx, r.db).Where("ean13 = ?", ean13).First(&product).Error; err != nil {
		return nil, endSpan(span, translate(err, "product with ean13", ean13))
	}
	return &product, endSpan(span, nil)
}

func (r *GormProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	ctx, span := startSpan(ctx, "product.FindAll", attribute.String("query.trashed", string(filter.Trashed)))
	query := database.Conn(ctx, r.db).Model(&domain.Product{})

	switch filter.Trashed {
	case domain.TrashedWith:
		query = query.Unscoped()
	case domain.TrashedOnly:
		query = query.Unscoped().Where("deleted_at IS NOT NULL")
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.BrandID != nil {
		query = query.Where("brand_id = ?", *filter.BrandID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.LowStock {
		query = query.Where("stock_quantity <= min_stock")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("(name ILIKE ? OR description ILIKE ? OR ean13 LIKE ?)", like, like, like)
	}

	var products []domain.Product
	err := query.Order("id").Find(&products).Error
	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, endSpan(span, translateProduct(err, "*"))
}

func (r *GormProductRepository) SoftDelete(ctx context.Context, id uint) error {
	ctx, span := startSpan(ctx, "product.SoftDelete", idAttr("product.id", id))
	result := database.Conn(ctx, r.db).Delete(&domain.Product{}, id)
	err := translateProduct(result.Error, id)
	if err == nil && result.RowsAffected == 0 {
		err = apperror.NotFound("product", id)
	}
	return endSpan(span, err)
}

func (r *GormProductRepository) Restore(ctx context.Context, id uint) error {
	ctx, span := startSpan(ctx, "product.Restore", idAttr("product.id", id))
	result := database.Conn(ctx, r.db).Unscoped().
		Model(&domain.Product{}).
		Where("id = ?", id).
		Update("deleted_at", nil)
	err := translateProduct(result.Error, id)
	if err == nil && result.RowsAffected == 0 {
		err = apperror.NotFound("product", id)
	}
	return endSpan(span, err)
}

func (r *GormProductRepository) ForceDelete(ctx context.Context, id uint) error {
	ctx, span := startSpan(ctx, "product.ForceDelete", idAttr("product.id", id))
	err := database.Conn(ctx, r.db).Unscoped().Delete(&domain.Product{}, id).Error
	return endSpan(span, translateProduct(err, id))
}

func (r *GormProductRepository) UpdateStock(ctx context.Context, id uint, quantity int) error {
	ctx, span := startSpan(ctx, "product.UpdateStock",
		idAttr("product.id", id),
		attribute.Int("product.stock_quantity", quantity),
	)
	result := database.Conn(ctx, r.db).Model(&domain.Product{}).
		Where("id = ?", id).
		Update("stock_quantity", quantity)
	err := translateProduct(result.Error, id)
	if err == nil && result.RowsAffected == 0 {
		err = apperror.NotFound("product", id)
	}
	return endSpan(span, err)
}

func (r *GormProductRepository) scoped(ctx context.Context, scope domain.CountScope) *gorm.DB {
	query := database.Conn(ctx, r.db).Model(&domain.Product{})
	switch scope {
	case domain.CountIncludingTrashed:
		query = query.Unscoped()
	case domain.CountActive:
		query = query.Where("is_active = ?", true)
	}
	return query
}

func (r *GormProductRepository) CountByBrand(ctx context.Context, brandID uint, scope domain.CountScope) (int64, error) {
	ctx, span := startSpan(ctx, "product.CountByBrand", idAttr("brand.id", brandID))
	var count int64
	err := r.scoped(ctx, scope).Where("brand_id = ?", brandID).Count(&count).Error
	return count, endSpan(span, translateProduct(err, brandID))
}

func (r *GormProductRepository) CountByCategory(ctx context.Context, categoryID uint, scope domain.CountScope) (int64, error) {
	ctx, span := startSpan(ctx, "product.CountByCategory", idAttr("category.id", categoryID))
	var count int64
	err := r.scoped(ctx, scope).Where("category_id = ?", categoryID).Count(&count).Error
	return count, endSpan(span, translateProduct(err, categoryID))
}

type statsRow struct {
	TotalProducts       int64
	ActiveProducts      int64
	LowStockProducts    int64
	OutOfStockProducts  int64
	TotalValue          decimal.Decimal
	AverageProfitMargin decimal.NullDecimal
}

func (r *GormProductRepository) Stats(ctx context.Context) (*domain.ProductStats, error) {
	ctx, span := startSpan(ctx, "product.Stats")
	var row statsRow
	err := database.Conn(ctx, r.db).Model(&domain.Product{}).Select(`
		COUNT(*) AS total_products,
		COUNT(*) FILTER (WHERE is_active) AS active_products,
		COUNT(*) FILTER (WHERE stock_quantity <= min_stock) AS low_stock_products,
		COUNT(*) FILTER (WHERE stock_quantity <= 0) AS out_of_stock_products,
		COALESCE(SUM(prix_vente), 0) AS total_value,
		AVG((prix_vente - prix_achat) / prix_achat * 100) FILTER (WHERE prix_achat > 0) AS average_profit_margin`).
		Scan(&row).Error
	if err != nil {
		return nil, endSpan(span, translateProduct(err, "*"))
	}

	stats := &domain.ProductStats{
		TotalProducts:      row.TotalProducts,
		ActiveProducts:     row.ActiveProducts,
		LowStockProducts:   row.LowStockProducts,
		OutOfStockProducts: row.OutOfStockProducts,
		TotalValue:         row.TotalValue,
	}
	if row.AverageProfitMargin.Valid {
		avg, _ := row.AverageProfitMargin.Decimal.Round(2).Float64()
		stats.AverageProfitMargin = &avg
	}
	return stats, endSpan(span, nil)
}
