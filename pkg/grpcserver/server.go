// Package grpcserver runs the gRPC endpoint: the standard health service,
// whose status follows the database, plus reflection for grpcurl.
package grpcserver

import (
	"context"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/tair/restaurant-backend/pkg/logger"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server wraps a grpc.Server with a database-driven health service
type Server struct {
	grpc    *grpc.Server
	health  *health.Server
	service string
	pinger  Pinger
}

// New builds the server. service is the name reported next to the overall "" entry.
func New(service string, pinger Pinger, metrics *Metrics) *Server {
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor,
			LoggingInterceptor,
			metrics.UnaryInterceptor,
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	s := &Server{grpc: srv, health: hs, service: service, pinger: pinger}
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

func (s *Server) setStatus(st healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(s.service, st)
}

// CheckHealth pings the database once and publishes the result
func (s *Server) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := s.pinger.PingContext(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Database ping failed, gRPC health set to NOT_SERVING")
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return false
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
	return true
}

// WatchHealth re-checks every interval until ctx is done
func (s *Server) WatchHealth(ctx context.Context, interval time.Duration) {
	s.CheckHealth(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CheckHealth(ctx)
		}
	}
}

// Serve blocks until the listener fails or the server stops
func (s *Server) Serve(lis net.Listener) error {
	logger.Logger.Info().
		Str("addr", lis.Addr().String()).
		Msg("gRPC server started, reflection enabled")
	return s.grpc.Serve(lis)
}

// Shutdown drains in-flight calls, forcing a stop when ctx expires
func (s *Server) Shutdown(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.grpc.Stop()
	}
}
