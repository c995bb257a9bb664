package http

import (
	"net/http"

	"github.com/tair/catalog-admin/internal/catalog/usecase/command"
	"github.com/tair/catalog-admin/internal/catalog/usecase/query"
	"github.com/tair/catalog-admin/pkg/events"
	"github.com/tair/catalog-admin/pkg/logger"
)

// ListBrands handles GET /api/brands
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	params := newQueryParams(r)
	q := query.ListBrandsQuery{
		IsActive:      params.boolean("is_active"),
		RootsOnly:     params.flag("roots_only"),
		Search:        params.str("search"),
		SortBy:        params.str("sort_by"),
		SortDirection: params.str("sort_direction"),
		Hierarchical:  params.flag("hierarchical"),
	}
	if err := params.err(); err != nil {
		respondError(w, r, err)
		return
	}

	listing, err := h.queries.ListBrands.Handle(r.Context(), q)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var data interface{} = listing.Brands
	if listing.Hierarchical {
		data = listing.Tree
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// GetBrand handles GET /api/brands/{id}
func (h *CatalogHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	detail, err := h.queries.GetBrand.Handle(r.Context(), query.GetBrandQuery{ID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: detail})
}

// CreateBrand handles POST /api/brands
func (h *CatalogHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		ParentID    *uint  `json:"parent_id"`
		Description string `json:"description"`
		Logo        string `json:"logo"`
		IsActive    *bool  `json:"is_active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadBody(w)
		return
	}

	brand, err := h.commands.CreateBrand.Handle(r.Context(), command.CreateBrandCommand{
		Name:        req.Name,
		ParentID:    req.ParentID,
		Description: req.Description,
		Logo:        req.Logo,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	logger.Info(r.Context()).Uint("brand_id", brand.ID).Str("name", brand.Name).Msg("Brand created")
	h.afterMutation(r.Context(), "brand", events.EventTypeCreated, brand.ID, map[string]interface{}{"parent_id": brand.ParentID})

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Brand created successfully",
		Data:    h.brandWithRelations(r, brand.ID, brand),
	})
}

// UpdateBrand handles PUT /api/brands/{id}
func (h *CatalogHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req struct {
		Name        *string    `json:"name"`
		ParentID    nullableID `json:"parent_id"`
		Description *string    `json:"description"`
		Logo        *string    `json:"logo"`
		IsActive    *bool      `json:"is_active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadBody(w)
		return
	}

	brand, err := h.commands.UpdateBrand.Handle(r.Context(), command.UpdateBrandCommand{
		ID:          id,
		Name:        req.Name,
		ParentID:    req.ParentID.OptionalID,
		Description: req.Description,
		Logo:        req.Logo,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.afterMutation(r.Context(), "brand", events.EventTypeUpdated, brand.ID, map[string]interface{}{"parent_id": brand.ParentID})

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Brand updated successfully",
		Data:    h.brandWithRelations(r, brand.ID, brand),
	})
}

// RemoveBrandParent handles POST /api/brands/{id}/remove-parent
func (h *CatalogHandler) RemoveBrandParent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	brand, err := h.commands.RemoveBrandParent.Handle(r.Context(), command.RemoveBrandParentCommand{ID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.afterMutation(r.Context(), "brand", events.EventTypeUpdated, brand.ID, map[string]interface{}{"parent_id": nil})

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Parent brand removed successfully",
		Data:    h.brandWithRelations(r, brand.ID, brand),
	})
}

// DeleteBrand handles DELETE /api/brands/{id}
func (h *CatalogHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	brand, err := h.commands.DeleteBrand.Handle(r.Context(), command.DeleteBrandCommand{ID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}

	logger.Info(r.Context()).Uint("brand_id", brand.ID).Msg("Brand deleted")
	h.afterMutation(r.Context(), "brand", events.EventTypeDeleted, brand.ID, nil)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Brand deleted successfully",
	})
}

// brandWithRelations reloads the brand with its parent and children, falling
// back to the bare record if the read fails
func (h *CatalogHandler) brandWithRelations(r *http.Request, id uint, fallback interface{}) interface{} {
	detail, err := h.queries.GetBrand.Handle(r.Context(), query.GetBrandQuery{ID: id})
	if err != nil {
		logger.Warn(r.Context()).Err(err).Uint("brand_id", id).Msg("Failed to reload brand")
		return fallback
	}
	return detail.Brand
}
