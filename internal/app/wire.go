//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/tair/catalog-admin/pkg/config"
)

// InitializeApp assembles the service from configuration
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		InfrastructureSet,
		RepositorySet,
		CommandHandlerSet,
		QueryHandlerSet,
		UserSet,
		DeliverySet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
