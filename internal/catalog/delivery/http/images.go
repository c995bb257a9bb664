package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/tair/catalog-admin/internal/catalog/media"
	"github.com/tair/catalog-admin/internal/catalog/usecase/command"
	"github.com/tair/catalog-admin/internal/catalog/usecase/query"
	"github.com/tair/catalog-admin/pkg/apperror"
	"github.com/tair/catalog-admin/pkg/events"
	"github.com/tair/catalog-admin/pkg/logger"
)

// multipart bodies above this are rejected before any file is read
const maxUploadRequest = media.MaxUploadFiles*media.MaxUploadBytes + 1<<20

// ListImages handles GET /api/product-images
func (h *CatalogHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	params := newQueryParams(r)
	q := query.ListImagesQuery{
		ProductID:  params.id("product_id"),
		Unattached: params.flag("unattached"),
	}
	if err := params.err(); err != nil {
		respondError(w, r, err)
		return
	}

	images, err := h.queries.ListImages.Handle(r.Context(), q)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: images})
}

// GetImage handles GET /api/product-images/{id}
func (h *CatalogHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	image, err := h.queries.GetImage.Handle(r.Context(), query.GetImageQuery{ID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: image})
}

// UploadImages handles multipart POST /api/product-images with fields
// product_id (optional), images[] and alt_texts[]
func (h *CatalogHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadRequest)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid multipart body"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	cmd, err := uploadCommand(r.MultipartForm)
	if err != nil {
		respondError(w, r, err)
		return
	}

	images, err := h.commands.UploadImages.Handle(r.Context(), cmd)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logger.Info(r.Context()).Int("count", len(images)).Msg("Product images uploaded")
	for _, img := range images {
		h.afterMutation(r.Context(), "product_image", events.EventTypeCreated, img.ID, map[string]interface{}{
			"product_id": img.ProductID,
		})
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: fmt.Sprintf("%d image(s) uploaded successfully", len(images)),
		Data:    h.presenter.Images(images),
	})
}

func formValues(form *multipart.Form, key string) []string {
	if v := form.Value[key+"[]"]; len(v) > 0 {
		return v
	}
	return form.Value[key]
}

func uploadCommand(form *multipart.Form) (command.UploadImagesCommand, error) {
	var cmd command.UploadImagesCommand

	if ids := formValues(form, "product_id"); len(ids) > 0 && strings.TrimSpace(ids[0]) != "" {
		v, err := strconv.ParseUint(strings.TrimSpace(ids[0]), 10, 32)
		if err != nil || v == 0 {
			return cmd, apperror.Validation("product_id", "The product id must be a positive integer")
		}
		id := uint(v)
		cmd.ProductID = &id
	}

	files := form.File["images[]"]
	if len(files) == 0 {
		files = form.File["images"]
	}
	altTexts := formValues(form, "alt_texts")

	for i, fh := range files {
		data, err := readPart(fh)
		if err != nil {
			return cmd, apperror.Validation(fmt.Sprintf("images.%d", i), "The file could not be read")
		}
		file := command.UploadFile{Filename: fh.Filename, Data: data}
		if i < len(altTexts) {
			alt := altTexts[i]
			file.AltText = &alt
		}
		cmd.Files = append(cmd.Files, file)
	}
	return cmd, nil
}

// readPart reads at most one byte past the size limit so oversize files are
// still reported as too large
func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, media.MaxUploadBytes+1))
}

// UpdateImage handles PUT /api/product-images/{id}
func (h *CatalogHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req struct {
		AltText   *string `json:"alt_text"`
		SortOrder *int    `json:"sort_order"`
		IsPrimary *bool   `json:"is_primary"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadBody(w)
		return
	}

	image, err := h.commands.UpdateImage.Handle(r.Context(), command.UpdateImageCommand{
		ID:        id,
		AltText:   req.AltText,
		SortOrder: req.SortOrder,
		IsPrimary: req.IsPrimary,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.afterMutation(r.Context(), "product_image", events.EventTypeUpdated, image.ID, map[string]interface{}{
		"product_id": image.ProductID,
		"is_primary": image.IsPrimary,
	})
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Image updated successfully",
		Data:    h.presenter.Image(*image),
	})
}

// DeleteImage handles DELETE /api/product-images/{id}
func (h *CatalogHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	image, err := h.commands.DeleteImage.Handle(r.Context(), command.DeleteImageCommand{ID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.afterMutation(r.Context(), "product_image", events.EventTypeDeleted, image.ID, map[string]interface{}{
		"product_id": image.ProductID,
	})
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Image deleted successfully",
	})
}

type imageBatchRequest struct {
	ProductID uint   `json:"product_id"`
	ImageIDs  []uint `json:"image_ids"`
}

func (req imageBatchRequest) validate() error {
	fields := apperror.FieldSet{}
	if req.ProductID == 0 {
		fields.Add("product_id", "The product id field is required")
	}
	if len(req.ImageIDs) == 0 {
		fields.Add("image_ids", "The image ids field is required")
	}
	return fields.Err()
}

// ReorderImages handles POST /api/product-images/reorder
func (h *CatalogHandler) ReorderImages(w http.ResponseWriter, r *http.Request) {
	var req imageBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadBody(w)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, r, err)
		return
	}

	images, err := h.commands.ReorderImages.Handle(r.Context(), command.ReorderImagesCommand{
		ProductID: req.ProductID,
		ImageIDs:  req.ImageIDs,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.afterMutation(r.Context(), "product", events.EventTypeUpdated, req.ProductID, map[string]interface{}{
		"image_order": req.ImageIDs,
	})
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Images reordered successfully",
		Data:    h.presenter.Images(images),
	})
}

// AttachImages handles POST /api/product-images/attach
func (h *CatalogHandler) AttachImages(w http.ResponseWriter, r *http.Request) {
	var req imageBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadBody(w)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, r, err)
		return
	}

	images, err := h.commands.AttachImages.Handle(r.Context(), command.AttachImagesCommand{
		ProductID: req.ProductID,
		ImageIDs:  req.ImageIDs,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.afterMutation(r.Context(), "product", events.EventTypeUpdated, req.ProductID, map[string]interface{}{
		"attached_images": req.ImageIDs,
	})
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Images attached successfully",
		Data:    h.presenter.Images(images),
	})
}
