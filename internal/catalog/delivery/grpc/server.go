package grpc

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/tair/catalog-admin/pkg/logger"
	"github.com/tair/catalog-admin/pkg/metrics"
)

// ServiceName is the health service name reported for the catalog
const ServiceName = "catalog.v1.CatalogService"

// Pinger reports database reachability
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewServer builds the gRPC server with tracing, logging, metrics and
// recovery interceptors plus the health and reflection services
func NewServer(m *metrics.Registry, checker *HealthChecker) *grpc.Server {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor,
			RequestIDInterceptor,
			LoggingInterceptor,
			MetricsInterceptor(m.GRPC),
		),
	)

	healthpb.RegisterHealthServer(server, checker.server)

	// Register reflection service (for grpcurl and grpc tools)
	reflection.Register(server)

	return server
}

// HealthChecker keeps the gRPC health status in line with the database
type HealthChecker struct {
	server   *health.Server
	db       Pinger
	interval time.Duration

	mu      sync.Mutex
	serving bool
}

// NewHealthChecker creates a checker. A nil db always reports SERVING.
func NewHealthChecker(db Pinger, interval time.Duration) *HealthChecker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	h := &HealthChecker{
		server:   health.NewServer(),
		db:       db,
		interval: interval,
	}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Check pings the database once and publishes the result
func (h *HealthChecker) Check(ctx context.Context) bool {
	ok := true
	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(pingCtx); err != nil {
			logger.Warn(ctx).Err(err).Msg("Database ping failed")
			ok = false
		}
	}

	h.mu.Lock()
	changed := ok != h.serving
	h.serving = ok
	h.mu.Unlock()

	if ok {
		h.set(healthpb.HealthCheckResponse_SERVING)
	} else {
		h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	}
	if changed {
		logger.Info(ctx).Bool("serving", ok).Msg("gRPC health status changed")
	}
	return ok
}

// Run checks immediately and then on every interval until ctx is done,
// leaving the service NOT_SERVING on exit
func (h *HealthChecker) Run(ctx context.Context) {
	h.Check(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

func (h *HealthChecker) set(status healthpb.HealthCheckResponse_ServingStatus) {
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
}
