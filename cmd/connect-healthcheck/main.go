// Command connect-healthcheck serves readiness and liveness probes for a
// Kafka Connect worker.
//
// Configuration is read from environment variables (see Config).
// Routes: /health/ready (and /health), /health/live, /metrics; optionally
// the gRPC health service on GRPC_PORT.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/BigKAA/connecthealth/connecthealth"
	"github.com/BigKAA/connecthealth/connecthealth/brokercheck"
)

func newAggregator(cfg Config, reg prometheus.Registerer, logger *slog.Logger) (*connecthealth.Aggregator, error) {
	opts := cfg.aggregatorOptions()
	opts = append(opts,
		connecthealth.WithRegisterer(reg),
		connecthealth.WithLogger(logger),
	)

	if len(cfg.KafkaBrokers) > 0 {
		bc, err := brokercheck.New(cfg.KafkaBrokers)
		if err != nil {
			return nil, err
		}
		opts = append(opts, connecthealth.WithCheck(bc))
	}

	agg, err := connecthealth.New(cfg.ConnectURL, cfg.WorkerID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create aggregator: %w", err)
	}
	return agg, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		"connect_url", cfg.ConnectURL,
		"worker_id", cfg.WorkerID,
		"request_timeout", cfg.RequestTimeout,
		"concurrency", cfg.Concurrency,
		"skip_failed_connectors", cfg.SkipFailedConnectors,
		"kafka_brokers", cfg.KafkaBrokers,
	)

	agg, err := newAggregator(cfg, prometheus.DefaultRegisterer, logger)
	if err != nil {
		logger.Error("failed to initialize readiness check", "error", err)
		os.Exit(1)
	}

	tl := &transitionLogger{logger: logger}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newMux(agg, tl, promhttp.Handler()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * connecthealth.MaxTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	var grpcServer *grpc.Server
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			logger.Error("failed to listen for gRPC", "port", cfg.GRPCPort, "error", err)
			os.Exit(1)
		}
		grpcServer = grpc.NewServer()
		healthpb.RegisterHealthServer(grpcServer, &healthServer{eval: agg, tl: tl})
		go func() {
			logger.Info("gRPC health server started", "addr", lis.Addr().String())
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC server failed", "error", err)
				os.Exit(1)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigCh
	logger.Info("shutdown signal received", "signal", sig.String())

	if grpcServer != nil {
		grpcServer.GracefulStop()
		logger.Info("gRPC health server stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped, exiting")
}
