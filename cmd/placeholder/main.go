// Command placeholder provisions the default product image. With -out it
// writes the PNG to a local file; otherwise it stores it in the configured
// blob store, replacing any existing copy when -force is set.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/tair/catalog-admin/internal/app"
	"github.com/tair/catalog-admin/internal/catalog/media"
	"github.com/tair/catalog-admin/pkg/config"
	"github.com/tair/catalog-admin/pkg/logger"
)

func main() {
	out := flag.String("out", "", "write the PNG to this file instead of the blob store")
	force := flag.Bool("force", false, "replace an existing placeholder in the blob store")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("catalog-placeholder", true)
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	if *out != "" {
		data, err := media.Render()
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to render placeholder")
		}
		if err := os.WriteFile(*out, data, 0644); err != nil {
			logger.Logger.Fatal().Err(err).Str("file", *out).Msg("Failed to write placeholder")
		}
		logger.Logger.Info().Str("file", *out).Int("bytes", len(data)).Msg("Placeholder written")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := app.OpenBlobStore(ctx, cfg.StorageURL)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open blob store")
	}

	if *force {
		if err := store.Delete(ctx, media.PlaceholderPath); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to remove existing placeholder")
		}
	}

	urls := media.NewURLResolver(cfg.PublicStorageURL)
	if err := media.NewPlaceholder(store, urls).Ensure(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to provision placeholder")
	}

	logger.Logger.Info().
		Str("path", media.PlaceholderPath).
		Str("url", urls.URL(media.PlaceholderPath)).
		Msg("Placeholder ready")
}
