package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	catalogHTTP "github.com/tair/catalog-admin/internal/catalog/delivery/http"
	userHTTP "github.com/tair/catalog-admin/internal/user/delivery/http"

	// registers the generated OpenAPI document
	_ "github.com/tair/catalog-admin/docs"
)

// NewHTTPHandler mounts every route behind the middleware chain and CORS
func NewHTTPHandler(catalog *catalogHTTP.CatalogHandler, users *userHTTP.UserHandler, gatherer prometheus.Gatherer, config *catalogHTTP.MiddlewareConfig) http.Handler {
	router := catalogHTTP.NewRouter()

	catalogHTTP.RegisterMiddlewares(router, config)

	catalog.RegisterHealthCheck(router)
	users.RegisterRoutes(router)
	catalog.RegisterRoutes(router)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	catalogHTTP.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return catalogHTTP.SetupCORS(config)(router)
}

// HTTPHandler is NewHTTPHandler with the default registry and middlewares
func (a *App) HTTPHandler() http.Handler {
	return NewHTTPHandler(a.Catalog, a.Users, prometheus.DefaultGatherer, catalogHTTP.DefaultMiddlewareConfig())
}
