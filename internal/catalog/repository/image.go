package repository

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
	"github.com/tair/catalog-admin/pkg/database"
)

const displayOrder = "sort_order, created_at, id"

// GormImageRepository stores product images in PostgreSQL
type GormImageRepository struct {
	db *gorm.DB
}

// NewGormImageRepository creates an image repository over db
func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

func (r *GormImageRepository) Create(ctx context.Context, image *domain.ProductImage) error {
	ctx, span := startSpan(ctx, "image.Create", attribute.String("image.path", image.ImagePath))
	err := database.Conn(ctx, r.db).Create(image).Error
	if err == nil {
		span.SetAttributes(idAttr("image.id", image.ID))
	}
	return endSpan(span, translate(err, "image", image.ImagePath))
}

func (r *GormImageRepository) Update(ctx context.Context, image *domain.ProductImage) error {
	ctx, span := startSpan(ctx, "image.Update", idAttr("image.id", image.ID))
	result := database.Conn(ctx, r.db).Model(image).Select("*").Omit("id", "created_at").Updates(image)
	err := translate(result.Error, "image", image.ID)
	if err == nil && result.RowsAffected == 0 {
		err = apperror.NotFound("image", image.ID)
	}
	return endSpan(span, err)
}

func (r *GormImageRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := startSpan(ctx, "image.Delete", idAttr("image.id", id))
	err := database.Conn(ctx, r.db).Delete(&domain.ProductImage{}, id).Error
	return endSpan(span, translate(err, "image", id))
}

func (r *GormImageRepository) FindByID(ctx context.Context, id uint) (*domain.ProductImage, error) {
	ctx, span := startSpan(ctx, "image.FindByID", idAttr("image.id", id))
	var image domain.ProductImage
	if err := database.Conn(ctx, r.db).First(&image, id).Error; err != nil {
		return nil, endSpan(span, translate(err, "image", id))
	}
	return &image, endSpan(span, nil)
}

func (r *GormImageRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.ProductImage, error) {
	ctx, span := startSpan(ctx, "image.FindByIDs", attribute.Int("query.ids", len(ids)))
	images := make([]domain.ProductImage, 0, len(ids))
	if len(ids) == 0 {
		return images, endSpan(span, nil)
	}
	err := database.Conn(ctx, r.db).Where("id IN ?", ids).Order("id").Find(&images).Error
	return images, endSpan(span, translate(err, "image", ids))
}

func (r *GormImageRepository) FindByProduct(ctx context.Context, productID uint) ([]domain.ProductImage, error) {
	ctx, span := startSpan(ctx, "image.FindByProduct", idAttr("product.id", productID))
	var images []domain.ProductImage
	err := database.Conn(ctx, r.db).Where("product_id = ?", productID).Order(displayOrder).Find(&images).Error
	span.SetAttributes(attribute.Int("result.count", len(images)))
	return images, endSpan(span, translate(err, "image", productID))
}

func (r *GormImageRepository) FindByProducts(ctx context.Context, productIDs []uint) ([]domain.ProductImage, error) {
	ctx, span := startSpan(ctx, "image.FindByProducts", attribute.Int("query.products", len(productIDs)))
	var images []domain.ProductImage
	if len(productIDs) == 0 {
		return images, endSpan(span, nil)
	}
	err := database.Conn(ctx, r.db).Where("product_id IN ?", productIDs).Order(displayOrder).Find(&images).Error
	return images, endSpan(span, translate(err, "image", productIDs))
}

func (r *GormImageRepository) FindAll(ctx context.Context, filter domain.ImageFilter) ([]domain.ProductImage, error) {
	ctx, span := startSpan(ctx, "image.FindAll", attribute.Bool("query.unattached", filter.Unattached))
	query := database.Conn(ctx, r.db).Model(&domain.ProductImage{})
	switch {
	case filter.ProductID != nil:
		query = query.Where("product_id = ?", *filter.ProductID).Order(displayOrder)
	case filter.Unattached:
		query = query.Where("product_id IS NULL").Order("id DESC")
	default:
		query = query.Order("id DESC")
	}

	var images []domain.ProductImage
	err := query.Find(&images).Error
	span.SetAttributes(attribute.Int("result.count", len(images)))
	return images, endSpan(span, translate(err, "image", "*"))
}

func (r *GormImageRepository) UnsetPrimary(ctx context.Context, productID, exceptID uint) error {
	ctx, span := startSpan(ctx, "image.UnsetPrimary", idAttr("product.id", productID), idAttr("image.id", exceptID))
	err := database.Conn(ctx, r.db).Model(&domain.ProductImage{}).
		Where("product_id = ? AND id <> ? AND is_primary", productID, exceptID).
		Update("is_primary", false).Error
	return endSpan(span, translate(err, "image", productID))
}

func (r *GormImageRepository) DetachByProduct(ctx context.Context, productID uint) error {
	ctx, span := startSpan(ctx, "image.DetachByProduct", idAttr("product.id", productID))
	err := database.Conn(ctx, r.db).Model(&domain.ProductImage{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{"product_id": nil, "is_primary": false}).Error
	return endSpan(span, translate(err, "image", productID))
}

func (r *GormImageRepository) CountOrphaned(ctx context.Context) (int64, error) {
	ctx, span := startSpan(ctx, "image.CountOrphaned")
	var count int64
	err := database.Conn(ctx, r.db).Model(&domain.ProductImage{}).Where("product_id IS NULL").Count(&count).Error
	return count, endSpan(span, translate(err, "image", "*"))
}
