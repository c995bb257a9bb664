package command

import (
	"context"
	"fmt"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// UpdateBrandCommand is a partial update. Nil fields are left untouched; a
// set ParentID with a nil Value promotes the brand to root.
type UpdateBrandCommand struct {
	ID          uint
	Name        *string
	ParentID    domain.OptionalID
	Description *string
	Logo        *string
	IsActive    *bool
}

// UpdateBrandHandler handles brand updates, including reparenting
type UpdateBrandHandler struct {
	brands domain.BrandRepository
	tx     domain.Transactor
}

// NewUpdateBrandHandler creates a new update brand handler
func NewUpdateBrandHandler(brands domain.BrandRepository, tx domain.Transactor) *UpdateBrandHandler {
	return &UpdateBrandHandler{brands: brands, tx: tx}
}

// Handle executes the update brand command. The cycle check runs against
// the locked brand set in the same transaction as the write.
func (h *UpdateBrandHandler) Handle(ctx context.Context, cmd UpdateBrandCommand) (*domain.Brand, error) {
	var updated domain.Brand

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		all, err := h.brands.FindAllForUpdate(ctx)
		if err != nil {
			return err
		}
		hierarchy := domain.NewHierarchy(all)

		current, ok := hierarchy.Get(cmd.ID)
		if !ok {
			return apperror.NotFound("brand", cmd.ID)
		}
		brand := current.Summary()

		fields := apperror.FieldSet{}
		if cmd.Name != nil {
			checkName(fields, "name", *cmd.Name)
			brand.Name = *cmd.Name
		}
		if err := fields.Err(); err != nil {
			return err
		}

		if cmd.ParentID.Set {
			if parentID := cmd.ParentID.Value; parentID != nil {
				switch {
				case *parentID == cmd.ID:
					return apperror.CircularReference("Brand cannot be its own parent")
				case !hierarchy.Has(*parentID):
					return apperror.Validation("parent_id", "The selected parent id is invalid")
				case hierarchy.WouldCycle(cmd.ID, *parentID):
					return apperror.CircularReference("Cannot set a descendant brand as parent")
				}
				id := *parentID
				brand.ParentID = &id
			} else {
				brand.ParentID = nil
			}
		}
		if cmd.Description != nil {
			brand.Description = *cmd.Description
		}
		if cmd.Logo != nil {
			brand.Logo = *cmd.Logo
		}
		if cmd.IsActive != nil {
			brand.IsActive = *cmd.IsActive
		}

		if err := h.brands.Update(ctx, &brand); err != nil {
			return err
		}
		updated = brand
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update brand: %w", err)
	}

	return &updated, nil
}
