package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/finance-ratios/internal/analysis"
	"github.com/iwvelando/finance-ratios/internal/benchmark"
	"github.com/iwvelando/finance-ratios/internal/logging"
	"github.com/iwvelando/finance-ratios/internal/ratio"
	"github.com/iwvelando/finance-ratios/internal/server"
	"github.com/iwvelando/finance-ratios/internal/store"
	"github.com/iwvelando/finance-ratios/pkg/constants"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	readTimeout     = 30 * time.Second
	writeTimeout    = 60 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override, e.g. :8080")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		logging.Fatal(fmt.Sprintf("failed to load server configuration at %s", *configLocation), err)
		os.Exit(1)
	}
	if *address != "" {
		cfg.Address = *address
	}

	logger, err := logging.New(cfg.Logging, *logLevel)
	if err != nil {
		logging.Fatal("failed to initialize logger", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	var benchmarks ratio.BenchmarkTable
	if cfg.BenchmarksPath != "" {
		benchmarks, err = benchmark.Load(cfg.BenchmarksPath)
		if err != nil {
			logger.Fatal("failed to load benchmarks",
				zap.String("op", "main"),
				zap.String("path", cfg.BenchmarksPath),
				zap.Error(err),
			)
		}
		for _, warning := range benchmark.Check(benchmarks) {
			logger.Warn("Benchmark warning: "+warning, zap.String("op", "main"))
		}
	}

	var cache analysis.Cache
	if cfg.StorePath != "" {
		db, err := store.Open(logger, cfg.StorePath)
		if err != nil {
			logger.Fatal("failed to open analysis store",
				zap.String("op", "main"),
				zap.String("path", cfg.StorePath),
				zap.Error(err),
			)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close analysis store", zap.String("op", "main"), zap.Error(err))
			}
		}()
		cache = db
	}

	srv := &http.Server{
		Addr: cfg.Address,
		Handler: server.NewHandler(logger, server.Options{
			MaxUploadSize: cfg.UploadSizeBytes(),
			Version:       version,
			Benchmarks:    benchmarks,
			Cache:         cache,
			Engine:        cfg.EngineOptions(),
		}),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.String("version", version),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.String("op", "main"), zap.Error(err))
		}
		return
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.String("op", "main"), zap.Error(err))
		return
	}
	logger.Info("server stopped", zap.String("op", "main"))
}
