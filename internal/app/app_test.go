package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogHTTP "github.com/tair/catalog-admin/internal/catalog/delivery/http"
	"github.com/tair/catalog-admin/internal/catalog/media"
	userHTTP "github.com/tair/catalog-admin/internal/user/delivery/http"
	"github.com/tair/catalog-admin/internal/user/repository"
	userCommand "github.com/tair/catalog-admin/internal/user/usecase/command"
	userQuery "github.com/tair/catalog-admin/internal/user/usecase/query"
	"github.com/tair/catalog-admin/pkg/auth"
	"github.com/tair/catalog-admin/pkg/blobstore/fs"
	blobmemory "github.com/tair/catalog-admin/pkg/blobstore/memory"
	"github.com/tair/catalog-admin/pkg/cache"
	"github.com/tair/catalog-admin/pkg/events"
	"github.com/tair/catalog-admin/pkg/metrics"
)

func TestOpenBlobStore(t *testing.T) {
	ctx := context.Background()

	store, err := OpenBlobStore(ctx, "memory://")
	require.NoError(t, err)
	assert.IsType(t, &blobmemory.Backend{}, store)

	dir := t.TempDir()
	store, err = OpenBlobStore(ctx, "file://"+dir)
	require.NoError(t, err)
	assert.IsType(t, &fs.Backend{}, store)
	require.NoError(t, store.Put(ctx, "products/a.png", []byte("x"), "image/png"))
	assert.FileExists(t, filepath.Join(dir, "products", "a.png"))

	_, err = OpenBlobStore(ctx, "ftp://host/dir")
	assert.Error(t, err)

	_, err = OpenBlobStore(ctx, "s3://")
	assert.Error(t, err)
}

func TestFilePath(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"file:///var/lib/catalog", "/var/lib/catalog"},
		{"file://./storage/app/public", "storage/app/public"},
		{"./storage", "storage"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, filePath(u))
		})
	}
}

func TestS3Config(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	u, err := url.Parse("s3://catalog/public/?region=eu-west-1&endpoint=http://minio:9000&create=true")
	require.NoError(t, err)

	cfg, err := s3Config(u)
	require.NoError(t, err)
	assert.Equal(t, "catalog", cfg.Bucket)
	assert.Equal(t, "public", cfg.Prefix)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "http://minio:9000", cfg.Endpoint)
	assert.True(t, cfg.UsePathStyle)
	assert.True(t, cfg.CreateBucketIfNotExist)
	assert.Equal(t, "key", cfg.AccessKeyID)

	u, err = url.Parse("s3://catalog?path_style=false")
	require.NoError(t, err)
	cfg, err = s3Config(u)
	require.NoError(t, err)
	assert.False(t, cfg.UsePathStyle)
	assert.False(t, cfg.CreateBucketIfNotExist)

	u, err = url.Parse("s3://catalog?create=maybe")
	require.NoError(t, err)
	_, err = s3Config(u)
	assert.Error(t, err)
}

func TestHTTPHandlerMountsEverything(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewRegistry("app_test", reg)
	tokens := auth.NewTokenManager(auth.Config{Secret: "test", TTL: time.Hour})

	blobs := blobmemory.New()
	urls := media.NewURLResolver("http://localhost/storage")
	presenter := media.NewPresenter(urls, media.NewPlaceholder(blobs, urls))
	catalog := catalogHTTP.NewCatalogHandler(&catalogHTTP.Commands{}, &catalogHTTP.Queries{}, presenter,
		nil, nil, nil, blobs, cache.Noop{}, events.Noop{}, tokens, nil, m)

	users := repository.NewMemoryUserRepository()
	userHandler := userHTTP.NewUserHandler(
		userCommand.NewRegisterUserHandler(users, tokens),
		userCommand.NewLoginUserHandler(users, tokens),
		userCommand.NewUpdateProfileHandler(users),
		userCommand.NewChangePasswordHandler(users),
		userCommand.NewRefreshTokenHandler(users, tokens),
		userQuery.NewGetUserHandler(users),
		tokens,
		m,
	)

	handler := NewHTTPHandler(catalog, userHandler, reg, catalogHTTP.DefaultMiddlewareConfig())

	tests := []struct {
		path string
		code int
	}{
		{"/health", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/swagger/doc.json", http.StatusOK},
		{"/api/user", http.StatusUnauthorized},
		{"/storage/products/missing.png", http.StatusNotFound},
		{"/storage/products/../../health", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.code, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
