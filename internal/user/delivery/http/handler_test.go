package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-admin/internal/user/repository"
	"github.com/tair/catalog-admin/internal/user/usecase/command"
	"github.com/tair/catalog-admin/internal/user/usecase/query"
	"github.com/tair/catalog-admin/pkg/auth"
	"github.com/tair/catalog-admin/pkg/metrics"
)

func newRouter() *mux.Router {
	repo := repository.NewMemoryUserRepository()
	tokens := auth.NewTokenManager(auth.Config{Secret: "test", TTL: time.Hour})
	h := NewUserHandler(
		command.NewRegisterUserHandler(repo, tokens),
		command.NewLoginUserHandler(repo, tokens),
		command.NewUpdateProfileHandler(repo),
		command.NewChangePasswordHandler(repo),
		command.NewRefreshTokenHandler(repo, tokens),
		query.NewGetUserHandler(repo),
		tokens,
		metrics.NewRegistry("user_test", prometheus.NewRegistry()),
	)
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func do(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginMe(t *testing.T) {
	router := newRouter()

	rec := do(router, http.MethodPost, "/api/register", `{"name":"Admin","email":"admin@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(router, http.MethodPost, "/api/login", `{"email":"admin@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.Token)

	rec = do(router, http.MethodGet, "/api/user", "", login.Data.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"admin@example.com"`)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = do(router, http.MethodGet, "/api/user", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(router, http.MethodPost, "/api/login", `{"email":"admin@example.com","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidationErrors(t *testing.T) {
	router := newRouter()

	rec := do(router, http.MethodPost, "/api/register", `{"name":"","email":"x","password":"1"}`, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Len(t, resp.Errors, 3)
}

func loginToken(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()
	rec := do(router, http.MethodPost, "/api/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res.Data.Token
}

func TestProfileAndPasswordRoutes(t *testing.T) {
	router := newRouter()
	rec := do(router, http.MethodPost, "/api/register", `{"name":"Admin","email":"admin@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	token := loginToken(t, router, "admin@example.com", "secret1")

	rec = do(router, http.MethodPut, "/api/profile", `{"name":"Root","email":"root@example.com"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"root@example.com"`)

	rec = do(router, http.MethodPut, "/api/change-password", `{"current_password":"secret1","password":"newpass1","password_confirmation":"other"}`, token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(router, http.MethodPut, "/api/change-password", `{"current_password":"nope","password":"newpass1","password_confirmation":"newpass1"}`, token)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "current_password")

	rec = do(router, http.MethodPut, "/api/change-password", `{"current_password":"secret1","password":"newpass1","password_confirmation":"newpass1"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	loginToken(t, router, "root@example.com", "newpass1")

	rec = do(router, http.MethodPut, "/api/profile", `{"name":"Root","email":"root@example.com"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshAndTokenInfo(t *testing.T) {
	router := newRouter()
	rec := do(router, http.MethodPost, "/api/register", `{"name":"Admin","email":"admin@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	token := loginToken(t, router, "admin@example.com", "secret1")

	var info struct {
		Data struct {
			TokenID   string `json:"token_id"`
			UserID    uint   `json:"user_id"`
			Email     string `json:"email"`
			ExpiresAt string `json:"expires_at"`
		} `json:"data"`
	}
	rec = do(router, http.MethodGet, "/api/token-info", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.NotEmpty(t, info.Data.TokenID)
	assert.Equal(t, "admin@example.com", info.Data.Email)
	assert.NotEmpty(t, info.Data.ExpiresAt)
	first := info.Data.TokenID

	rec = do(router, http.MethodPost, "/api/refresh", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var refreshed struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshed))
	require.NotEmpty(t, refreshed.Data.Token)

	rec = do(router, http.MethodGet, "/api/token-info", "", refreshed.Data.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.NotEqual(t, first, info.Data.TokenID)
}
