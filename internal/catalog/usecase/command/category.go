package command

import (
	"context"
	"fmt"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
)

// CreateCategoryCommand represents the command to create a category
type CreateCategoryCommand struct {
	Name     string
	IsActive *bool
}

// CreateCategoryHandler handles category creation
type CreateCategoryHandler struct {
	categories domain.CategoryRepository
}

// NewCreateCategoryHandler creates a new create category handler
func NewCreateCategoryHandler(categories domain.CategoryRepository) *CreateCategoryHandler {
	return &CreateCategoryHandler{categories: categories}
}

// Handle executes the create category command
func (h *CreateCategoryHandler) Handle(ctx context.Context, cmd CreateCategoryCommand) (*domain.Category, error) {
	fields := apperror.FieldSet{}
	checkName(fields, "name", cmd.Name)
	if err := fields.Err(); err != nil {
		return nil, err
	}

	category := &domain.Category{
		Name:     cmd.Name,
		IsActive: boolOr(cmd.IsActive, true),
	}
	if err := h.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// UpdateCategoryCommand is a partial update; nil fields are left untouched
type UpdateCategoryCommand struct {
	ID       uint
	Name     *string
	IsActive *bool
}

// UpdateCategoryHandler handles category updates
type UpdateCategoryHandler struct {
	categories domain.CategoryRepository
}

// NewUpdateCategoryHandler creates a new update category handler
func NewUpdateCategoryHandler(categories domain.CategoryRepository) *UpdateCategoryHandler {
	return &UpdateCategoryHandler{categories: categories}
}

// Handle executes the update category command
func (h *UpdateCategoryHandler) Handle(ctx context.Context, cmd UpdateCategoryCommand) (*domain.Category, error) {
	category, err := h.categories.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	fields := apperror.FieldSet{}
	if cmd.Name != nil {
		checkName(fields, "name", *cmd.Name)
		category.Name = *cmd.Name
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}
	if cmd.IsActive != nil {
		category.IsActive = *cmd.IsActive
	}

	if err := h.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategoryCommand represents the command to delete a category
type DeleteCategoryCommand struct {
	ID uint
}

// DeleteCategoryHandler handles category deletion
type DeleteCategoryHandler struct {
	categories domain.CategoryRepository
	products   domain.ProductRepository
	tx         domain.Transactor
}

// NewDeleteCategoryHandler creates a new delete category handler
func NewDeleteCategoryHandler(categories domain.CategoryRepository, products domain.ProductRepository, tx domain.Transactor) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{categories: categories, products: products, tx: tx}
}

// Handle deletes the category unless any product, trashed or not, references it
func (h *DeleteCategoryHandler) Handle(ctx context.Context, cmd DeleteCategoryCommand) (*domain.Category, error) {
	var deleted *domain.Category

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		category, err := h.categories.FindByID(ctx, cmd.ID)
		if err != nil {
			return err
		}

		count, err := h.products.CountByCategory(ctx, cmd.ID, domain.CountIncludingTrashed)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperror.DeleteBlocked("Cannot delete category with existing products")
		}

		deleted = category
		return h.categories.Delete(ctx, cmd.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete category: %w", err)
	}

	return deleted, nil
}
