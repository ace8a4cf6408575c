// Package app собирает сервис ресторана: HTTP API, метрики, gRPC health,
// воркер уведомлений и трассировку.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/vladislavdragonenkov/restaurant/internal/health"
	"github.com/vladislavdragonenkov/restaurant/internal/service/catalog"
	httpsvc "github.com/vladislavdragonenkov/restaurant/internal/service/http"
	"github.com/vladislavdragonenkov/restaurant/internal/service/notification"
	"github.com/vladislavdragonenkov/restaurant/internal/version"
)

// Run запускает сервис и блокируется до отмены ctx или ошибки одного из серверов.
// При отмене ctx возвращает ctx.Err() после graceful shutdown.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	shutdownTracing, err := setupTracing(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.WithError(err).Warn("tracer provider shutdown failed")
		}
	}()

	deps := NewDependencies(cfg, logger)
	if cfg.SeedMenu {
		added, err := deps.Catalog.Seed(ctx, catalog.SampleMenu)
		if err != nil {
			return fmt.Errorf("seed menu: %w", err)
		}
		logger.WithField("products", added).Info("menu seeded")
	}

	producer, err := initKafkaProducer(cfg.KafkaBrokers, cfg.KafkaClientID, logger)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, notifications go to log")
	}
	defer closeKafka(producer, logger)

	sender, deadLetter := notificationSink(producer, cfg, logger)
	worker := notification.NewWorker(deps.Notifications, sender, notification.WorkerConfig{
		PollInterval:  cfg.NotifyPollInterval,
		BatchSize:     cfg.NotifyBatchSize,
		MaxAttempts:   cfg.NotifyMaxAttempts,
		RetryDelay:    cfg.NotifyRetryDelay,
		MaxRetryDelay: cfg.NotifyMaxRetryDelay,
		DeadLetter:    deadLetter,
		Logger:        logger.WithField("component", "notification-worker"),
	})

	healthHandler := health.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("notifications", health.NewBacklogChecker(worker, cfg.NotifyMaxPending, cfg.NotifyMaxAge))
	if producer != nil {
		healthHandler.RegisterChecker("kafka", health.NewKafkaChecker(producer))
	}

	httpLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen http: %w", err)
	}
	metricsLis, err := net.Listen("tcp", cfg.MetricsAddr)
	if err != nil {
		_ = httpLis.Close()
		return fmt.Errorf("listen metrics: %w", err)
	}
	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		_ = httpLis.Close()
		_ = metricsLis.Close()
		return fmt.Errorf("listen grpc: %w", err)
	}

	apiSrv := &http.Server{
		Handler: httpsvc.NewRouter(httpsvc.Config{
			Catalog:     deps.Catalog,
			Customers:   deps.Directory,
			Orders:      deps.Ordering,
			Stock:       deps.Stock,
			CORSOrigins: cfg.CORSOrigins,
			Logger:      logger.WithField("component", "http"),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	metricsSrv := &http.Server{Handler: metricsMux(healthHandler), ReadHeaderTimeout: 5 * time.Second}
	grpcServer, healthServer := newGRPCServer(logger)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		worker.Run(groupCtx)
		return nil
	})
	group.Go(func() error {
		logger.Infof("HTTP API слушает %s", httpLis.Addr())
		return serveHTTP(apiSrv, httpLis)
	})
	group.Go(func() error {
		logger.Infof("метрики доступны по адресу %s/metrics", metricsLis.Addr())
		return serveHTTP(metricsSrv, metricsLis)
	})
	group.Go(func() error {
		logger.Infof("gRPC health слушает %s", grpcLis.Addr())
		if err := grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("получен сигнал остановки, останавливаем серверы")
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

		shutdownHTTP(apiSrv, cfg.ShutdownTimeout, logger)
		stopGRPC(grpcServer, cfg.ShutdownTimeout, logger)
		shutdownHTTP(metricsSrv, cfg.ShutdownTimeout, logger)
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// metricsMux отдаёт /metrics и health-проверки на отдельном листенере.
func metricsMux(healthHandler *health.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", health.LivenessHandler)
	return mux
}

// newGRPCServer поднимает grpc.health.v1 и reflection с prometheus-интерсепторами.
func newGRPCServer(logger *log.Entry) (*grpc.Server, *grpchealth.Server) {
	grpcMetrics := promgrpc.NewServerMetrics()
	if err := prometheus.Register(grpcMetrics); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*promgrpc.ServerMetrics); ok {
				grpcMetrics = existing
			}
		} else {
			logger.WithError(err).Warn("failed to register grpc metrics")
		}
	}

	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(grpcMetrics.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(grpcMetrics.StreamServerInterceptor()),
	)
	healthServer := grpchealth.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	reflection.Register(server)
	grpcMetrics.InitializeMetrics(server)

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return server, healthServer
}

func serveHTTP(srv *http.Server, lis net.Listener) error {
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, timeout time.Duration, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}

// stopGRPC ждёт GracefulStop не дольше timeout, затем останавливает принудительно.
func stopGRPC(server *grpc.Server, timeout time.Duration, logger *log.Entry) {
	stopped := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(timeout):
		logger.Warn("graceful stop превысил таймаут, принудительно останавливаем")
		server.Stop()
	}
}
