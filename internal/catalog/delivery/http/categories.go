package http

import (
	"net/http"

	"github.com/tair/catalog-admin/internal/catalog/usecase/command"
	"github.com/tair/catalog-admin/internal/catalog/usecase/query"
	"github.com/tair/catalog-admin/pkg/events"
)

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	params := newQueryParams(r)
	q := query.ListCategoriesQuery{
		IsActive:      params.boolean("is_active"),
		Search:        params.str("search"),
		SortBy:        params.str("sort_by"),
		SortDirection: params.str("sort_direction"),
	}
	if err := params.err(); err != nil {
		respondError(w, r, err)
		return
	}

	categories, err := h.queries.ListCategories.Handle(r.Context(), q)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: categories})
}

// GetCategory handles GET /api/categories/{id}
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	detail, err := h.queries.GetCategory.Handle(r.Context(), query.GetCategoryQuery{ID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: detail})
}

// CreateCategory handles POST /api/categories
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		IsActive *bool  `json:"is_active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadBody(w)
		return
	}

	category, err := h.commands.CreateCategory.Handle(r.Context(), command.CreateCategoryCommand{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.afterMutation(r.Context(), "category", events.EventTypeCreated, category.ID, nil)
	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Category created successfully",
		Data:    category,
	})
}

// UpdateCategory handles PUT /api/categories/{id}
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"is_active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadBody(w)
		return
	}

	category, err := h.commands.UpdateCategory.Handle(r.Context(), command.UpdateCategoryCommand{
		ID:       id,
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.afterMutation(r.Context(), "category", events.EventTypeUpdated, category.ID, nil)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Category updated successfully",
		Data:    category,
	})
}

// DeleteCategory handles DELETE /api/categories/{id}
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if _, err := h.commands.DeleteCategory.Handle(r.Context(), command.DeleteCategoryCommand{ID: id}); err != nil {
		respondError(w, r, err)
		return
	}

	h.afterMutation(r.Context(), "category", events.EventTypeDeleted, id, nil)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Category deleted successfully",
	})
}
