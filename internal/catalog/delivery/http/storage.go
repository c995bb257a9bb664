package http

import (
	"bytes"
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/tair/catalog-admin/pkg/blobstore"
	"github.com/tair/catalog-admin/pkg/logger"
)

// ServeStorage handles GET /storage/{path}, streaming a stored blob
func (h *CatalogHandler) ServeStorage(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/storage/")
	if key == "" || strings.Contains(key, "..") || path.Clean("/"+key) != "/"+key {
		http.NotFound(w, r)
		return
	}

	data, err := h.blobs.Get(r.Context(), key)
	if errors.Is(err, blobstore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("key", key).Msg("Failed to read blob")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Storage operation failed"})
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	// ServeContent sniffs the type from the name or the first bytes
	http.ServeContent(w, r, path.Base(key), time.Time{}, bytes.NewReader(data))
}
