package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/finance-ratios/internal/analysis"
	"github.com/iwvelando/finance-ratios/internal/config"
	"github.com/iwvelando/finance-ratios/internal/logging"
	"github.com/iwvelando/finance-ratios/internal/notify"
	"github.com/iwvelando/finance-ratios/internal/scheduler"
	"github.com/iwvelando/finance-ratios/internal/store"
	"github.com/iwvelando/finance-ratios/pkg/constants"
	"github.com/iwvelando/finance-ratios/pkg/validation"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json, markdown, html, pdf, xlsx")
	outputDirFlag := flag.String("output-dir", "", "write reports to this directory instead of stdout")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	scheduleFlag := flag.String("schedule", "", "cron expression to keep re-running the analysis")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		logging.Fatal(fmt.Sprintf("failed to load configuration at %s", *configLocation), err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		logging.Fatal("failed to initialize logger", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(), zap.String("op", "main"))
	}

	if *outputDirFlag != "" {
		conf.Output.Directory = *outputDirFlag
	}
	if *scheduleFlag != "" {
		conf.Schedule.Cron = *scheduleFlag
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning, zap.String("op", "main"))
	}

	var cache analysis.Cache
	if conf.Store.Path != "" {
		db, err := store.Open(logger, conf.Store.Path)
		if err != nil {
			logger.Fatal("failed to open analysis store",
				zap.String("op", "main"),
				zap.String("path", conf.Store.Path),
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

	r := &runner{
		conf:         conf,
		logger:       logger,
		cache:        cache,
		outputFormat: outputFormat,
		outputDir:    conf.Output.Directory,
		stdout:       os.Stdout,
	}
	if conf.Email.Enabled && len(conf.Email.To) > 0 {
		r.mailer = notify.NewMailer(logger, conf.Email)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if conf.Schedule.Cron == "" {
		if _, err := r.run(ctx); err != nil {
			logger.Error("analysis failed", zap.String("op", "main"), zap.Error(err))
			stop()
			os.Exit(1)
		}
		return
	}

	if err := runScheduled(ctx, logger, conf.Schedule.Cron, r); err != nil {
		logger.Error("scheduled analysis failed", zap.String("op", "main"), zap.Error(err))
	}
}

// runScheduled runs once immediately and then on every tick of spec until
// ctx is cancelled.
func runScheduled(ctx context.Context, logger *zap.Logger, spec string, r *runner) error {
	s, err := scheduler.New(logger, spec, 0, func(ctx context.Context) error {
		_, err := r.run(ctx)
		return err
	})
	if err != nil {
		return err
	}

	if err := s.RunNow(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("initial run failed, waiting for the next scheduled run",
			zap.String("op", "main.runScheduled"),
			zap.Error(err),
		)
	}

	s.Start(ctx)
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}
