package repository

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/database"
)

// GormCategoryRepository stores categories in PostgreSQL
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a category repository over db
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	ctx, span := startSpan(ctx, "category.Create", attribute.String("category.name", category.Name))
	err := database.Conn(ctx, r.db).Create(category).Error
	return endSpan(span, translate(err, "category", category.Name))
}

func (r *GormCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	ctx, span := startSpan(ctx, "category.Update", idAttr("category.id", category.ID))
	result := database.Conn(ctx, r.db).Model(category).Select("*").Omit("id", "created_at").Updates(category)
	err := translate(result.Error, "category", category.ID)
	if err == nil && result.RowsAffected == 0 {
		err = translate(gorm.ErrRecordNotFound, "category", category.ID)
	}
	return endSpan(span, err)
}

func (r *GormCategoryRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := startSpan(ctx, "category.Delete", idAttr("category.id", id))
	err := database.Conn(ctx, r.db).Delete(&domain.Category{}, id).Error
	return endSpan(span, translate(err, "category", id))
}

func (r *GormCategoryRepository) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	ctx, span := startSpan(ctx, "category.FindByID", idAttr("category.id", id))
	var category domain.Category
	if err := database.Conn(ctx, r.db).First(&category, id).Error; err != nil {
		return nil, endSpan(span, translate(err, "category", id))
	}
	return &category, endSpan(span, nil)
}

func (r *GormCategoryRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Category, error) {
	ctx, span := startSpan(ctx, "category.FindByIDs", attribute.Int("query.ids", len(ids)))
	categories := make([]domain.Category, 0, len(ids))
	if len(ids) == 0 {
		return categories, endSpan(span, nil)
	}
	err := database.Conn(ctx, r.db).Where("id IN ?", ids).Order("id").Find(&categories).Error
	return categories, endSpan(span, translate(err, "category", ids))
}

func (r *GormCategoryRepository) FindAll(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error) {
	ctx, span := startSpan(ctx, "category.FindAll")
	query := database.Conn(ctx, r.db).Model(&domain.Category{})
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var categories []domain.Category
	err := query.Order("name").Order("id").Find(&categories).Error
	span.SetAttributes(attribute.Int("result.count", len(categories)))
	return categories, endSpan(span, translate(err, "category", "*"))
}

func (r *GormCategoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	ctx, span := startSpan(ctx, "category.Exists", idAttr("category.id", id))
	var count int64
	err := database.Conn(ctx, r.db).Model(&domain.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, endSpan(span, translate(err, "category", id))
}
