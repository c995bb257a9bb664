package domain

import (
	"context"
	"time"
)

// Category is a flat product classification
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	IsActive  bool      `json:"is_active" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Category) TableName() string {
	return "categories"
}

// CategoryFilter narrows a category listing
type CategoryFilter struct {
	IsActive *bool
	Search   string
}

// CategoryRepository defines the contract for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*Category, error)
	FindByIDs(ctx context.Context, ids []uint) ([]Category, error)
	FindAll(ctx context.Context, filter CategoryFilter) ([]Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
}
