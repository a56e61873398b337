package grpc

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"rentdesk-backend/internal/logger"
)

// ServiceName is the health service name reported for the API.
const ServiceName = "rentdesk.v1.Api"

// HealthChecker mirrors database reachability into the standard gRPC health
// service.
type HealthChecker struct {
	server   *health.Server
	ping     func(ctx context.Context) error
	interval time.Duration

	mu      sync.Mutex
	serving bool
}

func NewHealthChecker(ping func(ctx context.Context) error, interval time.Duration) *HealthChecker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &HealthChecker{
		server:   health.NewServer(),
		ping:     ping,
		interval: interval,
	}
}

// NewServer returns a gRPC server exposing grpc.health.v1.Health.
func (h *HealthChecker) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	s := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(s, h.server)
	reflection.Register(s)
	return s
}

// Check pings the database once and updates the served status.
func (h *HealthChecker) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, h.interval)
	defer cancel()

	err := h.ping(ctx)
	status := healthpb.HealthCheckResponse_SERVING
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)

	h.mu.Lock()
	changed := h.serving != (err == nil)
	h.serving = err == nil
	h.mu.Unlock()
	if changed {
		if err != nil {
			logger.Warn("Database health check failed", "error", err)
		} else {
			logger.Info("Database health check passing")
		}
	}
	return err == nil
}

// Run checks health every interval until ctx is cancelled, then marks the
// service as shutting down.
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
