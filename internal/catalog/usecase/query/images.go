package query

import (
	"context"
	"fmt"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/internal/catalog/media"
)

// ListImagesQuery lists a product's images in display order, the orphans, or every image
type ListImagesQuery struct {
	ProductID  *uint
	Unattached bool
}

// ListImagesHandler handles the list images query
type ListImagesHandler struct {
	images    domain.ImageRepository
	presenter *media.Presenter
}

// NewListImagesHandler creates a new list images handler
func NewListImagesHandler(images domain.ImageRepository, presenter *media.Presenter) *ListImagesHandler {
	return &ListImagesHandler{images: images, presenter: presenter}
}

// Handle executes the list images query
func (h *ListImagesHandler) Handle(ctx context.Context, q ListImagesQuery) ([]media.ImageView, error) {
	images, err := h.images.FindAll(ctx, domain.ImageFilter{ProductID: q.ProductID, Unattached: q.Unattached})
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return h.presenter.Images(images), nil
}

// GetImageQuery represents the query to get one image
type GetImageQuery struct {
	ID uint
}

// GetImageHandler handles the get image query
type GetImageHandler struct {
	images    domain.ImageRepository
	presenter *media.Presenter
}

// NewGetImageHandler creates a new get image handler
func NewGetImageHandler(images domain.ImageRepository, presenter *media.Presenter) *GetImageHandler {
	return &GetImageHandler{images: images, presenter: presenter}
}

// Handle executes the get image query
func (h *GetImageHandler) Handle(ctx context.Context, q GetImageQuery) (*media.ImageView, error) {
	img, err := h.images.FindByID(ctx, q.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	view := h.presenter.Image(*img)
	return &view, nil
}
