// Package grpc exposes the standard gRPC health service for orchestrators.
package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/proganas/extendable-order-payment-api/pkg/logger"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	service    string
	addr       string
	db         Pinger
	interval   time.Duration
	logger     *zap.Logger
	listener   net.Listener
}

type ServerOption func(*Server)

func WithAddress(addr string) ServerOption {
	return func(s *Server) {
		s.addr = addr
	}
}

func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDatabase makes the reported status follow the result of periodic pings.
func WithDatabase(db Pinger, interval time.Duration) ServerOption {
	return func(s *Server) {
		s.db = db
		s.interval = interval
	}
}

// NewServer creates a server reporting service (and the overall "" entry) as SERVING.
func NewServer(service string, opts ...ServerOption) *Server {
	s := &Server{
		service:  service,
		addr:     ":9090",
		interval: 10 * time.Second,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.grpcServer = grpc.NewServer(logger.GrpcServerOptions(s.logger)...)
	s.health = health.NewServer()
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	reflection.Register(s.grpcServer)

	s.setStatus(healthpb.HealthCheckResponse_SERVING)
	return s
}

func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = lis

	s.logger.Info("Starting gRPC server", zap.String("address", s.addr))
	return s.grpcServer.Serve(lis)
}

// Watch pings the database until ctx is done. Without a database it returns immediately.
func (s *Server) Watch(ctx context.Context) {
	if s.db == nil {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.check(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	if err := s.db.PingContext(pingCtx); err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("Database ping failed", zap.Error(err))
		}
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.service, status)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		s.logger.Warn("Forcing gRPC server stop")
		s.grpcServer.Stop()
		return ctx.Err()
	case <-stopped:
		return nil
	}
}
