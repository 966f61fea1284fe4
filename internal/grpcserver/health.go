// Package grpcserver exposes the standard gRPC health service for the
// portfolio database, for load balancers and orchestrators.
package grpcserver

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ContentService is the health service name reported alongside the
// overall ("") status.
const ContentService = "portfolio.Content"

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Health struct {
	srv      *health.Server
	db       Pinger
	interval time.Duration
	timeout  time.Duration
	log      *zap.Logger
}

func NewHealth(db Pinger, interval time.Duration, log *zap.Logger) *Health {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	srv := health.NewServer()
	srv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	srv.SetServingStatus(ContentService, healthpb.HealthCheckResponse_NOT_SERVING)
	return &Health{srv: srv, db: db, interval: interval, timeout: 2 * time.Second, log: log}
}

func (h *Health) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.srv)
}

// Check pings the database once and publishes the result.
func (h *Health) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.db.PingContext(ctx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		h.log.Warn("database ping failed", zap.Error(err))
	}
	h.srv.SetServingStatus("", status)
	h.srv.SetServingStatus(ContentService, status)
	return status
}

// Run checks on every tick until ctx is done, then marks all services
// NOT_SERVING so watchers are notified.
func (h *Health) Run(ctx context.Context) {
	h.Check(ctx)

	t := time.NewTicker(h.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			h.srv.Shutdown()
			return
		case <-t.C:
			h.Check(ctx)
		}
	}
}
