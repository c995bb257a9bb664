package command

import (
	"context"
	"fmt"

	"github.com/tair/catalog-admin/internal/catalog/domain"
)

// RemoveBrandParentCommand promotes a brand to the root level
type RemoveBrandParentCommand struct {
	ID uint
}

// RemoveBrandParentHandler handles the remove-parent command
type RemoveBrandParentHandler struct {
	brands domain.BrandRepository
	tx     domain.Transactor
}

// NewRemoveBrandParentHandler creates a new remove parent handler
func NewRemoveBrandParentHandler(brands domain.BrandRepository, tx domain.Transactor) *RemoveBrandParentHandler {
	return &RemoveBrandParentHandler{brands: brands, tx: tx}
}

// Handle clears the parent. Detaching never creates a cycle, so no check is
// needed, and only parent_id is written so concurrent edits to other columns
// survive.
func (h *RemoveBrandParentHandler) Handle(ctx context.Context, cmd RemoveBrandParentCommand) (*domain.Brand, error) {
	var brand *domain.Brand
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := h.brands.UpdateParent(ctx, cmd.ID, nil); err != nil {
			return err
		}
		var err error
		brand, err = h.brands.FindByID(ctx, cmd.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove brand parent: %w", err)
	}

	return brand, nil
}
