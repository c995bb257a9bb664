package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/internal/catalog/media"
	"github.com/tair/catalog-admin/pkg/apperror"
	"github.com/tair/catalog-admin/pkg/blobstore"
	"github.com/tair/catalog-admin/pkg/logger"
)

// UploadFile is one file of a multipart upload
type UploadFile struct {
	Filename string
	Data     []byte
	AltText  *string
}

// UploadImagesCommand stores files and creates one image per file, attached
// to ProductID when set and orphaned otherwise
type UploadImagesCommand struct {
	ProductID *uint
	Files     []UploadFile
}

// UploadImagesHandler handles image uploads
type UploadImagesHandler struct {
	products domain.ProductRepository
	images   domain.ImageRepository
	store    blobstore.Store
	tx       domain.Transactor
}

// NewUploadImagesHandler creates a new upload images handler
func NewUploadImagesHandler(products domain.ProductRepository, images domain.ImageRepository, store blobstore.Store, tx domain.Transactor) *UploadImagesHandler {
	return &UploadImagesHandler{products: products, images: images, store: store, tx: tx}
}

type preparedFile struct {
	key         string
	contentType string
	data        []byte
	altText     *string
}

func (h *UploadImagesHandler) validate(cmd UploadImagesCommand) ([]preparedFile, error) {
	fields := apperror.FieldSet{}
	switch {
	case len(cmd.Files) == 0:
		fields.Add("images", "The images field is required")
	case len(cmd.Files) > media.MaxUploadFiles:
		fields.Add("images", fmt.Sprintf("The images may not have more than %d items", media.MaxUploadFiles))
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}

	prepared := make([]preparedFile, 0, len(cmd.Files))
	for i, f := range cmd.Files {
		field := fmt.Sprintf("images.%d", i)
		if len(f.Data) > media.MaxUploadBytes {
			fields.Add(field, fmt.Sprintf("The %s may not be greater than %d kilobytes", field, media.MaxUploadBytes>>10))
			continue
		}
		contentType, ext, ok := media.DetectImage(f.Data)
		if !ok {
			fields.Add(field, fmt.Sprintf("The %s must be a file of type: jpeg, png, jpg, gif", field))
			continue
		}

		var alt *string
		if f.AltText != nil && strings.TrimSpace(*f.AltText) != "" {
			text := *f.AltText
			alt = &text
		}
		checkOptionalText(fields, fmt.Sprintf("alt_texts.%d", i), alt)

		prepared = append(prepared, preparedFile{
			key:         media.BlobName(ext),
			contentType: contentType,
			data:        f.Data,
			altText:     alt,
		})
	}
	return prepared, fields.Err()
}

// Handle puts the blobs first and then records the images in one transaction.
// If the transaction fails the blobs already put are removed again.
func (h *UploadImagesHandler) Handle(ctx context.Context, cmd UploadImagesCommand) ([]domain.ProductImage, error) {
	files, err := h.validate(cmd)
	if err != nil {
		return nil, err
	}

	if cmd.ProductID != nil {
		if _, err := h.products.FindByID(ctx, *cmd.ProductID); err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return nil, apperror.Validation("product_id", "The selected product id is invalid")
			}
			return nil, fmt.Errorf("failed to upload images: %w", err)
		}
	}

	stored := make([]string, 0, len(files))
	for _, f := range files {
		if err := h.store.Put(ctx, f.key, f.data, f.contentType); err != nil {
			h.cleanup(ctx, stored)
			return nil, apperror.Storage("put", f.key, err)
		}
		stored = append(stored, f.key)
	}

	var created []domain.ProductImage
	err = h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		created = make([]domain.ProductImage, 0, len(files))

		start, hadNone := 0, false
		if cmd.ProductID != nil {
			if _, err := h.products.FindByIDForUpdate(ctx, *cmd.ProductID); err != nil {
				if errors.Is(err, apperror.ErrNotFound) {
					return apperror.Validation("product_id", "The selected product id is invalid")
				}
				return err
			}
			existing, err := h.images.FindByProduct(ctx, *cmd.ProductID)
			if err != nil {
				return err
			}
			start = domain.MaxSortOrder(existing)
			hadNone = len(existing) == 0
		}

		for i, f := range files {
			img := domain.ProductImage{
				ImagePath: f.key,
				AltText:   f.altText,
			}
			if cmd.ProductID != nil {
				pid := *cmd.ProductID
				img.ProductID = &pid
				img.SortOrder = start + i + 1
				img.IsPrimary = hadNone && i == 0
			}
			if err := h.images.Create(ctx, &img); err != nil {
				return err
			}
			created = append(created, img)
		}
		return nil
	})
	if err != nil {
		h.cleanup(ctx, stored)
		return nil, fmt.Errorf("failed to upload images: %w", err)
	}

	return created, nil
}

func (h *UploadImagesHandler) cleanup(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := h.store.Delete(ctx, key); err != nil {
			logger.Warn(ctx).Err(err).Str("path", key).Msg("Failed to remove uploaded blob")
		}
	}
}
