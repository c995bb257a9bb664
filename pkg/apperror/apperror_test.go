package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tair/catalog-admin/pkg/apperror"
)

func TestKindsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		status   int
	}{
		{"validation", apperror.Validation("name", "The name field is required"), apperror.ErrValidation, http.StatusUnprocessableEntity},
		{"circular", apperror.CircularReference("cycle"), apperror.ErrCircularReference, http.StatusUnprocessableEntity},
		{"conflict", apperror.Conflict("taken"), apperror.ErrConflict, http.StatusConflict},
		{"delete blocked", apperror.DeleteBlocked("has children"), apperror.ErrConflict, http.StatusUnprocessableEntity},
		{"not found", apperror.NotFound("brand", 7), apperror.ErrNotFound, http.StatusNotFound},
		{"storage", apperror.Storage("delete", "products/a.png", errors.New("disk")), apperror.ErrStorage, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("handler: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.status, apperror.HTTPStatus(wrapped))
		})
	}
}

func TestKindsDoNotCrossMatch(t *testing.T) {
	err := apperror.Conflict("taken")
	assert.NotErrorIs(t, err, apperror.ErrNotFound)
	assert.NotErrorIs(t, err, apperror.ErrValidation)
}

func TestUnknownErrorIsInternal(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, http.StatusInternalServerError, apperror.HTTPStatus(err))
	assert.Equal(t, "Internal server error", apperror.Public(err))
}

func TestStorageUnwrapsCause(t *testing.T) {
	cause := errors.New("bucket unavailable")
	err := apperror.Storage("put", "products/x.png", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Storage operation failed", apperror.Public(err))
}

func TestFieldSet(t *testing.T) {
	fields := apperror.FieldSet{}
	assert.NoError(t, fields.Err())

	fields.Add("name", "The name field is required")
	fields.Add("name", "ignored")
	fields.Add("prix_vente", "The prix_vente must be at least 0")

	err := fields.Err()
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, map[string]string{
		"name":       "The name field is required",
		"prix_vente": "The prix_vente must be at least 0",
	}, apperror.FieldErrors(err))
	assert.Equal(t, "The name field is required (and 1 more errors)", err.Error())
}
