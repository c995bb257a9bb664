package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"gorm.io/gorm"

	catalogGRPC "github.com/tair/catalog-admin/internal/catalog/delivery/grpc"
	catalogHTTP "github.com/tair/catalog-admin/internal/catalog/delivery/http"
	"github.com/tair/catalog-admin/internal/catalog/domain"
	"github.com/tair/catalog-admin/internal/catalog/media"
	"github.com/tair/catalog-admin/internal/catalog/repository"
	"github.com/tair/catalog-admin/internal/catalog/usecase/command"
	"github.com/tair/catalog-admin/internal/catalog/usecase/query"
	userHTTP "github.com/tair/catalog-admin/internal/user/delivery/http"
	userDomain "github.com/tair/catalog-admin/internal/user/domain"
	userRepository "github.com/tair/catalog-admin/internal/user/repository"
	userCommand "github.com/tair/catalog-admin/internal/user/usecase/command"
	userQuery "github.com/tair/catalog-admin/internal/user/usecase/query"
	"github.com/tair/catalog-admin/pkg/auth"
	"github.com/tair/catalog-admin/pkg/blobstore"
	"github.com/tair/catalog-admin/pkg/cache"
	"github.com/tair/catalog-admin/pkg/config"
	"github.com/tair/catalog-admin/pkg/database"
	"github.com/tair/catalog-admin/pkg/events"
	"github.com/tair/catalog-admin/pkg/logger"
	"github.com/tair/catalog-admin/pkg/metrics"
)

// App is the assembled service
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	Catalog     *catalogHTTP.CatalogHandler
	Users       *userHTTP.UserHandler
	GRPC        *grpc.Server
	Health      *catalogGRPC.HealthChecker
	Placeholder *media.Placeholder
}

// Migrate creates or updates every table the service owns
func (a *App) Migrate() error {
	if err := repository.AutoMigrate(a.DB); err != nil {
		return fmt.Errorf("failed to migrate catalog tables: %w", err)
	}
	if err := userRepository.NewGormUserRepository(a.DB).AutoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate user tables: %w", err)
	}
	return nil
}

// ProvideDatabase opens gorm and closes the pool on cleanup
func ProvideDatabase(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// ProvideSQLDB exposes the pool under gorm for health pings
func ProvideSQLDB(db *gorm.DB) (*sql.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB, nil
}

// ProvideCache connects Redis, falling back to no caching
func ProvideCache(ctx context.Context, cfg *config.Config) cache.Cache {
	return cache.Connect(ctx, cfg.Cache)
}

// ProvidePublisher returns a Kafka publisher when brokers are configured
func ProvidePublisher(cfg *config.Config) (events.Publisher, func(), error) {
	if len(cfg.Events.Brokers) == 0 {
		logger.Logger.Info().Msg("Kafka not configured, catalog events disabled")
		return events.Noop{}, func() {}, nil
	}
	publisher, err := events.NewKafkaPublisher(cfg.Events)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := publisher.Close(); err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to close Kafka publisher")
		}
	}
	return publisher, cleanup, nil
}

// ProvideTokenManager creates the bearer token manager
func ProvideTokenManager(cfg *config.Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.Auth)
}

// ProvideMetrics registers the collectors with the default registry
func ProvideMetrics(cfg *config.Config) *metrics.Registry {
	namespace := strings.NewReplacer("-", "_", ".", "_").Replace(cfg.ServiceName)
	return metrics.NewRegistry(namespace, prometheus.DefaultRegisterer)
}

// ProvideBlobStore opens the configured blob backend
func ProvideBlobStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	return OpenBlobStore(ctx, cfg.StorageURL)
}

// ProvideURLResolver roots image URLs at the public storage base
func ProvideURLResolver(cfg *config.Config) *media.URLResolver {
	return media.NewURLResolver(cfg.PublicStorageURL)
}

// ProvideListBrandsHandler uses the cache TTL from config
func ProvideListBrandsHandler(brands domain.BrandRepository, c cache.Cache, cfg *config.Config) *query.ListBrandsHandler {
	return query.NewListBrandsHandler(brands, c, cfg.Cache.TTL)
}

// ProvideHealthChecker follows the database pool
func ProvideHealthChecker(db *sql.DB) *catalogGRPC.HealthChecker {
	return catalogGRPC.NewHealthChecker(db, 15*time.Second)
}

// RepositorySet binds the gorm repositories and the transactor
var RepositorySet = wire.NewSet(
	repository.NewGormBrandRepository,
	repository.NewGormCategoryRepository,
	repository.NewGormProductRepository,
	repository.NewGormImageRepository,
	database.NewTransactor,
	userRepository.NewGormUserRepository,
	wire.Bind(new(domain.BrandRepository), new(*repository.GormBrandRepository)),
	wire.Bind(new(domain.CategoryRepository), new(*repository.GormCategoryRepository)),
	wire.Bind(new(domain.ProductRepository), new(*repository.GormProductRepository)),
	wire.Bind(new(domain.ImageRepository), new(*repository.GormImageRepository)),
	wire.Bind(new(domain.Transactor), new(*database.Transactor)),
	wire.Bind(new(userDomain.UserRepository), new(*userRepository.GormUserRepository)),
)

// InfrastructureSet provides storage, cache, events, auth and metrics
var InfrastructureSet = wire.NewSet(
	ProvideDatabase,
	ProvideSQLDB,
	ProvideCache,
	ProvidePublisher,
	ProvideTokenManager,
	ProvideMetrics,
	ProvideBlobStore,
	ProvideURLResolver,
	media.NewPlaceholder,
	media.NewPresenter,
)

// CommandHandlerSet provides the catalog write side
var CommandHandlerSet = wire.NewSet(
	command.NewCreateBrandHandler,
	command.NewUpdateBrandHandler,
	command.NewRemoveBrandParentHandler,
	command.NewDeleteBrandHandler,
	command.NewCreateCategoryHandler,
	command.NewUpdateCategoryHandler,
	command.NewDeleteCategoryHandler,
	command.NewCreateProductHandler,
	command.NewUpdateProductHandler,
	command.NewDeleteProductHandler,
	command.NewRestoreProductHandler,
	command.NewForceDeleteProductHandler,
	command.NewUpdateStockHandler,
	command.NewUpdateStockByCodeHandler,
	command.NewUploadImagesHandler,
	command.NewUpdateImageHandler,
	command.NewDeleteImageHandler,
	command.NewReorderImagesHandler,
	command.NewAttachImagesHandler,
	wire.Struct(new(catalogHTTP.Commands), "*"),
)

// QueryHandlerSet provides the catalog read side
var QueryHandlerSet = wire.NewSet(
	ProvideListBrandsHandler,
	query.NewGetBrandHandler,
	query.NewListCategoriesHandler,
	query.NewGetCategoryHandler,
	query.NewListProductsHandler,
	query.NewGetProductHandler,
	query.NewGetStatsHandler,
	query.NewListImagesHandler,
	query.NewGetImageHandler,
	wire.Struct(new(catalogHTTP.Queries), "*"),
)

// UserSet provides account registration, login and profile management
var UserSet = wire.NewSet(
	userCommand.NewRegisterUserHandler,
	userCommand.NewLoginUserHandler,
	userCommand.NewUpdateProfileHandler,
	userCommand.NewChangePasswordHandler,
	userCommand.NewRefreshTokenHandler,
	userQuery.NewGetUserHandler,
	userHTTP.NewUserHandler,
)

// DeliverySet provides the HTTP handlers and the gRPC server
var DeliverySet = wire.NewSet(
	catalogHTTP.NewCatalogHandler,
	ProvideHealthChecker,
	catalogGRPC.NewServer,
	wire.Bind(new(catalogHTTP.Pinger), new(*sql.DB)),
)
