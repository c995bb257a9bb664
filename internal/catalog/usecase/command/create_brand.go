package command

import (
	"context"
	"fmt"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// CreateBrandCommand represents the command to create a brand
type CreateBrandCommand struct {
	Name        string
	ParentID    *uint
	Description string
	Logo        string
	IsActive    *bool
}

// CreateBrandHandler handles brand creation
type CreateBrandHandler struct {
	brands domain.BrandRepository
	tx     domain.Transactor
}

// NewCreateBrandHandler creates a new create brand handler
func NewCreateBrandHandler(brands domain.BrandRepository, tx domain.Transactor) *CreateBrandHandler {
	return &CreateBrandHandler{brands: brands, tx: tx}
}

// Handle executes the create brand command
func (h *CreateBrandHandler) Handle(ctx context.Context, cmd CreateBrandCommand) (*domain.Brand, error) {
	fields := apperror.FieldSet{}
	checkName(fields, "name", cmd.Name)
	if err := fields.Err(); err != nil {
		return nil, err
	}

	brand := &domain.Brand{
		Name:        cmd.Name,
		ParentID:    cmd.ParentID,
		Description: cmd.Description,
		Logo:        cmd.Logo,
		IsActive:    boolOr(cmd.IsActive, true),
	}

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if cmd.ParentID != nil {
			ok, err := h.brands.Exists(ctx, *cmd.ParentID)
			if err != nil {
				return err
			}
			if !ok {
				return apperror.Validation("parent_id", "The selected parent id is invalid")
			}
		}
		return h.brands.Create(ctx, brand)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}

	return brand, nil
}
