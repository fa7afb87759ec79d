package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	grpchandler "github.com/ogurasousui/employee-records/internal/adapters/grpc/handler"
	httphandler "github.com/ogurasousui/employee-records/internal/adapters/http/handler"
	"github.com/ogurasousui/employee-records/internal/core/employee"
	"github.com/ogurasousui/employee-records/internal/platform/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const defaultShutdownTimeout = 10 * time.Second

// Server は HTTP と gRPC のサーバーのライフサイクルを管理します。
type Server struct {
	cfg        config.ServerConfig
	logger     *zap.Logger
	app        *fiber.App
	grpcServer *grpc.Server
	health     *health.Server
}

// New は社員 API を公開する HTTP / gRPC サーバーを構築します。
func New(cfg config.ServerConfig, svc employee.UseCase, logger *zap.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	app := fiber.New(fiber.Config{
		AppName:               "employee-records",
		DisableStartupMessage: true,
		ErrorHandler:          httphandler.ErrorHandler(logger),
	})
	app.Use(httphandler.RequestLogger(logger))
	app.Get("/healthz", httphandler.Health)
	httphandler.NewEmployeeHTTPHandler(svc, logger).Register(app)

	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryLogger(logger))}, opts...)
	grpcServer := grpc.NewServer(opts...)
	grpchandler.RegisterEmployeeServiceServer(grpcServer, grpchandler.NewEmployeeGrpcHandler(svc))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(grpchandler.EmployeeServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		cfg:        cfg,
		logger:     logger,
		app:        app,
		grpcServer: grpcServer,
		health:     healthServer,
	}
}

// App は HTTP ハンドラーを返します。
func (s *Server) App() *fiber.App {
	return s.app
}

// Run は設定されたアドレスで待ち受け、コンテキストがキャンセルされるまでサービスを提供します。
func (s *Server) Run(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", s.cfg.HTTPListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.HTTPListenAddr, err)
	}

	grpcLis, err := net.Listen("tcp", s.cfg.GRPCListenAddr)
	if err != nil {
		_ = httpLis.Close()
		return fmt.Errorf("listen on %s: %w", s.cfg.GRPCListenAddr, err)
	}

	return s.Serve(ctx, httpLis, grpcLis)
}

// Serve は渡されたリスナーで HTTP と gRPC を提供します。
// どちらかが異常終了するかコンテキストがキャンセルされると、両方を停止します。
// 開始時点でキャンセル済みの場合はリスナーを閉じて何も提供しません。
func (s *Server) Serve(ctx context.Context, httpLis, grpcLis net.Listener) error {
	if err := ctx.Err(); err != nil {
		s.logger.Info("context cancelled before serving", zap.Error(err))
		_ = httpLis.Close()
		_ = grpcLis.Close()
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("http server listening", zap.String("addr", httpLis.Addr().String()))
		if err := s.app.Listener(httpLis); err != nil {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.logger.Info("grpc server listening", zap.String("addr", grpcLis.Addr().String()))
		if err := s.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown(httpLis)
	})

	return g.Wait()
}

func (s *Server) shutdown(httpLis net.Listener) error {
	s.logger.Info("shutting down servers", zap.Duration("timeout", s.cfg.ShutdownTimeout))
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	httpErr := s.app.ShutdownWithTimeout(s.cfg.ShutdownTimeout)
	// Listener の登録前に停止した場合でも Accept を解除する。
	if err := httpLis.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.logger.Warn("close http listener", zap.Error(err))
	}

	select {
	case <-stopped:
	case <-time.After(s.cfg.ShutdownTimeout):
		s.logger.Warn("grpc graceful stop timed out, forcing stop")
		s.grpcServer.Stop()
		<-stopped
	}

	if httpErr != nil {
		return fmt.Errorf("shutdown HTTP: %w", httpErr)
	}
	return nil
}
