package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager(Config{Secret: "secret", TTL: time.Hour, Issuer: "test"})

	token, expiresAt, err := m.GenerateToken(42, "admin@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	again, _, err := m.GenerateToken(42, "admin@example.com")
	require.NoError(t, err)
	reissued, err := m.ValidateToken(again)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, reissued.ID)
}

func TestValidateTokenRejects(t *testing.T) {
	m := NewTokenManager(Config{Secret: "secret", TTL: time.Hour})
	other := NewTokenManager(Config{Secret: "other", TTL: time.Hour})

	foreign, _, err := other.GenerateToken(1, "a@b.c")
	require.NoError(t, err)

	expired := NewTokenManager(Config{Secret: "secret", TTL: time.Minute})
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _, err := expired.GenerateToken(1, "a@b.c")
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      stale,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.ValidateToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestRequireToken(t *testing.T) {
	m := NewTokenManager(Config{Secret: "secret", TTL: time.Hour})
	token, _, err := m.GenerateToken(7, "ops@example.com")
	require.NoError(t, err)

	var seen uint
	h := m.RequireToken(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserID(r.Context())
		claims, ok := TokenClaims(r.Context())
		require.True(t, ok)
		assert.Equal(t, uint(7), claims.UserID)
		assert.Equal(t, "ops@example.com", Email(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/brands", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
	assert.Equal(t, uint(7), seen)
}
