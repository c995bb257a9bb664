package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// CategoryRepository implements domain.CategoryRepository over a Store
type CategoryRepository struct {
	s *Store
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	category.ID = r.s.id("categories")
	now := r.s.now()
	category.CreatedAt = now
	category.UpdatedAt = now
	r.s.categories[category.ID] = *category
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[category.ID]; !ok {
		return apperror.NotFound("category", category.ID)
	}
	category.UpdatedAt = r.s.now()
	r.s.categories[category.ID] = *category
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.categories, id)
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, apperror.NotFound("category", id)
	}
	return &c, nil
}

func (r *CategoryRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Category, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if c, ok := r.s.categories[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CategoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.categories[id]
	return ok, nil
}
