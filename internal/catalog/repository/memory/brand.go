package memory

import (
	"context"
	"sort"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// BrandRepository implements domain.BrandRepository over a Store
type BrandRepository struct {
	s *Store
}

func cloneBrand(b domain.Brand) domain.Brand {
	b = b.Summary()
	b.ParentID = copyUint(b.ParentID)
	return b
}

func (r *BrandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	brand.ID = r.s.id("brands")
	now := r.s.now()
	brand.CreatedAt = now
	brand.UpdatedAt = now
	r.s.brands[brand.ID] = cloneBrand(*brand)
	return nil
}

func (r *BrandRepository) Update(ctx context.Context, brand *domain.Brand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.brands[brand.ID]; !ok {
		return apperror.NotFound("brand", brand.ID)
	}
	brand.UpdatedAt = r.s.now()
	r.s.brands[brand.ID] = cloneBrand(*brand)
	return nil
}

func (r *BrandRepository) UpdateParent(ctx context.Context, id uint, parentID *uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.brands[id]
	if !ok {
		return apperror.NotFound("brand", id)
	}
	b.ParentID = copyUint(parentID)
	b.UpdatedAt = r.s.now()
	r.s.brands[id] = b
	return nil
}

func (r *BrandRepository) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.brands, id)
	return nil
}

func (r *BrandRepository) FindByID(ctx context.Context, id uint) (*domain.Brand, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.brands[id]
	if !ok {
		return nil, apperror.NotFound("brand", id)
	}
	out := cloneBrand(b)
	return &out, nil
}

func (r *BrandRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Brand, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Brand, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if b, ok := r.s.brands[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, cloneBrand(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *BrandRepository) FindAll(ctx context.Context) ([]domain.Brand, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Brand, 0, len(r.s.brands))
	for _, b := range r.s.brands {
		out = append(out, cloneBrand(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FindAllForUpdate relies on the store's serialized transactions for locking
func (r *BrandRepository) FindAllForUpdate(ctx context.Context) ([]domain.Brand, error) {
	return r.FindAll(ctx)
}

func (r *BrandRepository) Exists(ctx context.Context, id uint) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.brands[id]
	return ok, nil
}

func (r *BrandRepository) CountChildren(ctx context.Context, id uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, b := range r.s.brands {
		if b.ParentID != nil && *b.ParentID == id {
			n++
		}
	}
	return n, nil
}

func (r *BrandRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.s.brands)), nil
}
