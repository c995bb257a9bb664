package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/tair/catalog-admin/pkg/auth"
	"github.com/tair/catalog-admin/pkg/cache"
	"github.com/tair/catalog-admin/pkg/database"
	"github.com/tair/catalog-admin/pkg/events"
	"github.com/tair/catalog-admin/pkg/tracing"
)

// Config is the complete service configuration, read from the environment
type Config struct {
	ServiceName string `env:"OTEL_SERVICE_NAME" env-default:"catalog-admin"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`
	HTTPPort    string `env:"HTTP_PORT" env-default:"8080"`
	GRPCPort    string `env:"GRPC_PORT" env-default:"9090"`

	// memory://, file:///var/lib/catalog or s3://bucket?region=eu-west-1&endpoint=http://minio:9000
	StorageURL string `env:"STORAGE_URL" env-default:"file://./storage/app/public"`
	// Base URL under which stored blobs are publicly reachable
	PublicStorageURL string `env:"PUBLIC_STORAGE_URL" env-default:"http://localhost:8080/storage"`

	Database database.Config
	Auth     auth.Config
	Cache    cache.Config
	Events   events.Config
	Tracing  tracing.Config
}

// IsDevelopment reports whether console logging should be used
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads an optional .env file and then the process environment
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	return &cfg, nil
}
