package rpc

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/config"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/db"
)

const (
	ServiceName = "bookmarker"

	checkInterval = 5 * time.Second
	checkTimeout  = 2 * time.Second
)

var Module = fx.Provide(NewGRPCServer)

type (
	Pinger interface {
		Ping(ctx context.Context) error
	}

	// Server exposes the standard gRPC health service. The bookmarker service reports
	// SERVING while the store answers pings.
	Server struct {
		grpc   *grpc.Server
		health *health.Server
		pinger Pinger
		logger *zap.SugaredLogger

		mu      sync.Mutex
		serving bool
	}
)

func NewGRPCServer(lc fx.Lifecycle, cfg *config.Config, store *db.Store, logger *zap.SugaredLogger) *Server {
	instance := New(store, logger)

	watchCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			listen := net.JoinHostPort(cfg.Host, cfg.GRPCPort)
			lis, err := net.Listen("tcp", listen)
			if err != nil {
				return errors.Wrap(err, "failed to listen")
			}

			instance.Refresh(ctx)
			go instance.watch(watchCtx)

			go func() {
				if err := instance.Serve(lis); err != nil {
					instance.logger.Errorw("failed to serve", "error", err)
				}
			}()
			instance.logger.Infow("GRPC server started", "addr", listen)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			instance.logger.Info("Stopping GRPC server.")
			cancel()
			instance.Stop()
			return nil
		},
	})

	return instance
}

// New builds the server with every status NOT_SERVING until the first Refresh.
func New(pinger Pinger, logger *zap.SugaredLogger) *Server {
	hs := health.NewServer()
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	gs := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(gs, hs)

	return &Server{
		grpc:   gs,
		health: hs,
		pinger: pinger,
		logger: logger.Named("grpc"),
	}
}

func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// Refresh pings the store and publishes the result.
func (s *Server) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	err := s.pinger.Ping(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	serving := err == nil
	if serving == s.serving {
		return
	}
	s.serving = serving

	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	} else {
		s.logger.Warnw("store ping failed", "error", err)
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

func (s *Server) watch(ctx context.Context) {
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}
