package domain

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/tair/catalog-admin/pkg/apperror"
)

// Brand is a node of the brand forest
type Brand struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	ParentID    *uint     `json:"parent_id" gorm:"index"`
	Description string    `json:"description"`
	Logo        string    `json:"logo"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Parent   *Brand  `json:"parent,omitempty" gorm:"-"`
	Children []Brand `json:"children,omitempty" gorm:"-"`
}

// TableName specifies the table name
func (Brand) TableName() string {
	return "brands"
}

// IsRoot reports whether the brand has no parent
func (b *Brand) IsRoot() bool {
	return b.ParentID == nil
}

// Summary returns a copy without loaded relations
func (b Brand) Summary() Brand {
	b.Parent = nil
	b.Children = nil
	return b
}

// OptionalID distinguishes "field absent" from "explicitly null" in partial updates
type OptionalID struct {
	Set   bool
	Value *uint
}

// SetID returns an OptionalID holding id
func SetID(id uint) OptionalID {
	return OptionalID{Set: true, Value: &id}
}

// SetNull returns an OptionalID that clears the value
func SetNull() OptionalID {
	return OptionalID{Set: true}
}

// BrandSortFields are the columns a brand listing may be ordered by
var BrandSortFields = []string{"name", "created_at", "updated_at", "id"}

// BrandFilter narrows a brand listing
type BrandFilter struct {
	IsActive  *bool
	RootsOnly bool
	Search    string
}

// Matches reports whether b passes every set criterion. Search looks at name
// and description, case-insensitively.
func (f BrandFilter) Matches(b *Brand) bool {
	if f.IsActive != nil && b.IsActive != *f.IsActive {
		return false
	}
	if f.RootsOnly && !b.IsRoot() {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		if !strings.Contains(strings.ToLower(b.Name), search) &&
			!strings.Contains(strings.ToLower(b.Description), search) {
			return false
		}
	}
	return true
}

// SortBrands orders brands in place by field and direction ("asc" or "desc").
// Empty values mean name ascending. Ties fall back to id.
func SortBrands(brands []Brand, field, direction string) error {
	if field == "" {
		field = "name"
	}
	if direction == "" {
		direction = "asc"
	}

	var compare func(a, b *Brand) int
	switch field {
	case "name":
		compare = func(a, b *Brand) int { return compareNames(a.Name, b.Name) }
	case "created_at":
		compare = func(a, b *Brand) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case "updated_at":
		compare = func(a, b *Brand) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case "id":
		compare = func(a, b *Brand) int { return 0 }
	default:
		return apperror.Validation("sort_by", "The selected sort by is invalid. Allowed: "+strings.Join(BrandSortFields, ", "))
	}

	var sign int
	switch direction {
	case "asc":
		sign = 1
	case "desc":
		sign = -1
	default:
		return apperror.Validation("sort_direction", "The selected sort direction is invalid. Allowed: asc, desc")
	}

	sort.SliceStable(brands, func(i, j int) bool {
		c := compare(&brands[i], &brands[j])
		if c == 0 {
			c = compareUint(brands[i].ID, brands[j].ID)
		}
		return c*sign < 0
	})
	return nil
}

// compareNames orders brand names case-insensitively
func compareNames(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareUint(a, b uint) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// BrandRepository defines the contract for brand data access
type BrandRepository interface {
	Create(ctx context.Context, brand *Brand) error
	Update(ctx context.Context, brand *Brand) error
	// UpdateParent writes only the parent link of a brand
	UpdateParent(ctx context.Context, id uint, parentID *uint) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*Brand, error)
	FindByIDs(ctx context.Context, ids []uint) ([]Brand, error)
	FindAll(ctx context.Context) ([]Brand, error)
	// FindAllForUpdate loads every brand and row-locks them for the current transaction
	FindAllForUpdate(ctx context.Context) ([]Brand, error)
	Exists(ctx context.Context, id uint) (bool, error)
	CountChildren(ctx context.Context, id uint) (int64, error)
	Count(ctx context.Context) (int64, error)
}
