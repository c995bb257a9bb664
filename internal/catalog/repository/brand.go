package repository

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/database"
)

// GormBrandRepository stores brands in PostgreSQL
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a brand repository over db
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

func (r *GormBrandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	ctx, span := startSpan(ctx, "brand.Create", attribute.String("brand.name", brand.Name))
	err := translate(database.Conn(ctx, r.db).Create(brand).Error, "brand", brand.Name)
	if err == nil {
		span.SetAttributes(idAttr("brand.id", brand.ID))
	}
	return endSpan(span, err)
}

func (r *GormBrandRepository) Update(ctx context.Context, brand *domain.Brand) error {
	ctx, span := startSpan(ctx, "brand.Update", idAttr("brand.id", brand.ID))
	result := database.Conn(ctx, r.db).Model(brand).Select("*").Omit("id", "created_at").Updates(brand)
	err := translate(result.Error, "brand", brand.ID)
	if err == nil && result.RowsAffected == 0 {
		err = translate(gorm.ErrRecordNotFound, "brand", brand.ID)
	}
	return endSpan(span, err)
}

func (r *GormBrandRepository) UpdateParent(ctx context.Context, id uint, parentID *uint) error {
	ctx, span := startSpan(ctx, "brand.UpdateParent", idAttr("brand.id", id))
	result := database.Conn(ctx, r.db).Model(&domain.Brand{}).Where("id = ?", id).Update("parent_id", parentID)
	err := translate(result.Error, "brand", id)
	if err == nil && result.RowsAffected == 0 {
		err = translate(gorm.ErrRecordNotFound, "brand", id)
	}
	return endSpan(span, err)
}

func (r *GormBrandRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := startSpan(ctx, "brand.Delete", idAttr("brand.id", id))
	err := database.Conn(ctx, r.db).Delete(&domain.Brand{}, id).Error
	return endSpan(span, translate(err, "brand", id))
}

func (r *GormBrandRepository) FindByID(ctx context.Context, id uint) (*domain.Brand, error) {
	ctx, span := startSpan(ctx, "brand.FindByID", idAttr("brand.id", id))
	var brand domain.Brand
	if err := database.Conn(ctx, r.db).First(&brand, id).Error; err != nil {
		return nil, endSpan(span, translate(err, "brand", id))
	}
	return &brand, endSpan(span, nil)
}

func (r *GormBrandRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Brand, error) {
	ctx, span := startSpan(ctx, "brand.FindByIDs", attribute.Int("query.ids", len(ids)))
	brands := make([]domain.Brand, 0, len(ids))
	if len(ids) == 0 {
		return brands, endSpan(span, nil)
	}
	err := database.Conn(ctx, r.db).Where("id IN ?", ids).Order("id").Find(&brands).Error
	return brands, endSpan(span, translate(err, "brand", ids))
}

func (r *GormBrandRepository) FindAll(ctx context.Context) ([]domain.Brand, error) {
	ctx, span := startSpan(ctx, "brand.FindAll")
	var brands []domain.Brand
	err := database.Conn(ctx, r.db).Order("id").Find(&brands).Error
	span.SetAttributes(attribute.Int("result.count", len(brands)))
	return brands, endSpan(span, translate(err, "brand", "*"))
}

func (r *GormBrandRepository) FindAllForUpdate(ctx context.Context) ([]domain.Brand, error) {
	ctx, span := startSpan(ctx, "brand.FindAllForUpdate")
	var brands []domain.Brand
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id").
		Find(&brands).Error
	return brands, endSpan(span, translate(err, "brand", "*"))
}

func (r *GormBrandRepository) Exists(ctx context.Context, id uint) (bool, error) {
	ctx, span := startSpan(ctx, "brand.Exists", idAttr("brand.id", id))
	var count int64
	err := database.Conn(ctx, r.db).Model(&domain.Brand{}).Where("id = ?", id).Count(&count).Error
	return count > 0, endSpan(span, translate(err, "brand", id))
}

func (r *GormBrandRepository) CountChildren(ctx context.Context, id uint) (int64, error) {
	ctx, span := startSpan(ctx, "brand.CountChildren", idAttr("brand.id", id))
	var count int64
	err := database.Conn(ctx, r.db).Model(&domain.Brand{}).Where("parent_id = ?", id).Count(&count).Error
	return count, endSpan(span, translate(err, "brand", id))
}

func (r *GormBrandRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := startSpan(ctx, "brand.Count")
	var count int64
	err := database.Conn(ctx, r.db).Model(&domain.Brand{}).Count(&count).Error
	return count, endSpan(span, translate(err, "brand", "*"))
}
