package repository

import (
	"gorm.io/gorm"

	"github.com/tair/catalog-admin/internal/catalog/domain"
)

// AutoMigrate creates or updates the catalog tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Category{},
		&domain.Brand{},
		&domain.Product{},
		&domain.ProductImage{},
	)
}
