package app

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tair/catalog-admin/pkg/blobstore"
	"github.com/tair/catalog-admin/pkg/blobstore/fs"
	blobmemory "github.com/tair/catalog-admin/pkg/blobstore/memory"
	"github.com/tair/catalog-admin/pkg/blobstore/s3"
	"github.com/tair/catalog-admin/pkg/logger"
)

// OpenBlobStore opens the backend named by a storage URL:
//
//	memory://
//	file:///var/lib/catalog or file://./relative/dir
//	s3://bucket/prefix?region=eu-west-1&endpoint=http://minio:9000&create=true
//
// S3 credentials come from AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY when
// set, otherwise from the default AWS chain.
func OpenBlobStore(ctx context.Context, rawURL string) (blobstore.Store, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid storage url %q: %w", rawURL, err)
	}

	switch u.Scheme {
	case "memory":
		logger.Logger.Warn().Msg("Using in-memory blob store, uploads are lost on restart")
		return blobmemory.New(), nil

	case "file", "":
		dir := filePath(u)
		if dir == "" {
			return nil, fmt.Errorf("storage url %q has no directory", rawURL)
		}
		backend, err := fs.New(fs.Config{BaseDir: dir})
		if err != nil {
			return nil, fmt.Errorf("failed to open filesystem storage: %w", err)
		}
		logger.Logger.Info().Str("dir", dir).Msg("Filesystem blob store ready")
		return backend, nil

	case "s3":
		cfg, err := s3Config(u)
		if err != nil {
			return nil, err
		}
		backend, err := s3.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open s3 storage: %w", err)
		}
		logger.Logger.Info().
			Str("bucket", cfg.Bucket).
			Str("region", cfg.Region).
			Str("endpoint", cfg.Endpoint).
			Msg("S3 blob store ready")
		return backend, nil
	}

	return nil, fmt.Errorf("unsupported storage scheme %q", u.Scheme)
}

// filePath accepts file:///abs, file://./rel and bare paths
func filePath(u *url.URL) string {
	if u.Host != "" && u.Host != "localhost" {
		return filepath.Clean(u.Host + u.Path)
	}
	if u.Path == "" {
		return u.Opaque
	}
	return filepath.Clean(u.Path)
}

func s3Config(u *url.URL) (s3.Config, error) {
	if u.Host == "" {
		return s3.Config{}, fmt.Errorf("s3 storage url needs a bucket")
	}
	q := u.Query()
	cfg := s3.Config{
		Bucket:          u.Host,
		Prefix:          strings.Trim(u.Path, "/"),
		Region:          q.Get("region"),
		Endpoint:        q.Get("endpoint"),
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
	// custom endpoints are MinIO-style unless told otherwise
	cfg.UsePathStyle = cfg.Endpoint != ""
	if v := q.Get("path_style"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return s3.Config{}, fmt.Errorf("invalid path_style %q: %w", v, err)
		}
		cfg.UsePathStyle = b
	}
	if v := q.Get("create"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return s3.Config{}, fmt.Errorf("invalid create %q: %w", v, err)
		}
		cfg.CreateBucketIfNotExist = b
	}
	return cfg, nil
}
