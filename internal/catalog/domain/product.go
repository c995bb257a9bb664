package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is the catalog aggregate root
type Product struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"size:255;not null"`
	CategoryID    uint            `json:"category_id" gorm:"not null;index"`
	BrandID       *uint           `json:"brand_id" gorm:"index"`
	Description   string          `json:"description"`
	EAN13         *string         `json:"ean13" gorm:"column:ean13;size:13;uniqueIndex:idx_products_ean13_live,where:deleted_at IS NULL"`
	PurchasePrice decimal.Decimal `json:"prix_achat" gorm:"column:prix_achat;type:decimal(10,2);not null"`
	SalePrice     decimal.Decimal `json:"prix_vente" gorm:"column:prix_vente;type:decimal(10,2);not null"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null"`
	MinStock      int             `json:"min_stock" gorm:"not null"`
	IsActive      bool            `json:"is_active" gorm:"not null"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"deleted_at" gorm:"index"` // Soft delete

	Category *Category      `json:"category,omitempty" gorm:"-"`
	Brand    *Brand         `json:"brand,omitempty" gorm:"-"`
	Images   []ProductImage `json:"-" gorm:"-"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// ProfitMargin is (sale - purchase) / purchase * 100, or 0 when the purchase price is 0
func (p *Product) ProfitMargin() float64 {
	if !p.PurchasePrice.IsPositive() {
		return 0
	}
	margin := p.SalePrice.Sub(p.PurchasePrice).
		Div(p.PurchasePrice).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	f, _ := margin.Float64()
	return f
}

// ProfitAmount is sale price minus purchase price
func (p *Product) ProfitAmount() decimal.Decimal {
	return p.SalePrice.Sub(p.PurchasePrice)
}

// IsLowStock reports stock at or below the minimum
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStock
}

// IsOutOfStock reports an empty stock
func (p *Product) IsOutOfStock() bool {
	return p.StockQuantity <= 0
}

// IsTrashed reports whether the product is soft-deleted
func (p *Product) IsTrashed() bool {
	return p.DeletedAt.Valid
}

// TrashedMode selects soft-deleted rows in a listing
type TrashedMode string

const (
	TrashedWithout TrashedMode = "without"
	TrashedWith    TrashedMode = "with"
	TrashedOnly    TrashedMode = "only"
)

// ProductFilter narrows a product listing
type ProductFilter struct {
	CategoryID *uint
	BrandID    *uint
	IsActive   *bool
	LowStock   bool
	Search     string
	Trashed    TrashedMode
}

// CountScope selects which products a count includes
type CountScope int

const (
	// CountLive counts products that are not soft-deleted
	CountLive CountScope = iota
	// CountActive counts live products with is_active set
	CountActive
	// CountIncludingTrashed counts every row, soft-deleted ones too
	CountIncludingTrashed
)

// ProductStats summarizes live products
type ProductStats struct {
	TotalProducts       int64           `json:"total_products"`
	ActiveProducts      int64           `json:"active_products"`
	LowStockProducts    int64           `json:"low_stock_products"`
	OutOfStockProducts  int64           `json:"out_of_stock_products"`
	TotalValue          decimal.Decimal `json:"total_value"`
	AverageProfitMargin *float64        `json:"average_profit_margin"`
}

// ProductRepository defines the contract for product data access.
// Finders skip soft-deleted rows unless their name says otherwise.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindByIDWithTrashed(ctx context.Context, id uint) (*Product, error)
	// FindByIDForUpdate row-locks the live product for the current transaction
	FindByIDForUpdate(ctx context.Context, id uint) (*Product, error)
	// FindByIDWithTrashedForUpdate row-locks the product even when it is soft-deleted
	FindByIDWithTrashedForUpdate(ctx context.Context, id uint) (*Product, error)
	FindByEAN13(ctx context.Context, ean13 string) (*Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error
	ForceDelete(ctx context.Context, id uint) error
	UpdateStock(ctx context.Context, id uint, quantity int) error
	CountByBrand(ctx context.Context, brandID uint, scope CountScope) (int64, error)
	CountByCategory(ctx context.Context, categoryID uint, scope CountScope) (int64, error)
	Stats(ctx context.Context) (*ProductStats, error)
}
