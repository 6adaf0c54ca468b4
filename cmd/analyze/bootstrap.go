package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"copytrade-analyzer/internal/logger"
	"copytrade-analyzer/internal/pipeline"
	"copytrade-analyzer/internal/pipeline/pipelineobs"
	"copytrade-analyzer/internal/store"
	"copytrade-analyzer/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem loads .env and sets up an environment-configured logger
// so config errors are reported.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context, path string, overrides ...func(*store.Config)) (*store.Config, error) {
	cfg, err := store.LoadConfig(path, overrides...)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// initializeObservability re-initializes logging and tracing with config
// values layered over the environment.
func initializeObservability(ctx context.Context, cfg *store.Config) {
	logCfg := logger.LoadConfigFromEnv()
	if cfg.Logging.Level != "" {
		logCfg.Level = cfg.Logging.Level
	}
	if cfg.Logging.Format != "" {
		logCfg.Format = cfg.Logging.Format
	}
	logCfg.DetailedLogging = logCfg.DetailedLogging || cfg.Logging.Detailed
	if err := logger.InitWithConfig(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
	}

	traceCfg := trace.Config{
		Enabled: cfg.Tracing.Enabled || os.Getenv("LOG_TRACING_ENABLED") == "true",
		Output:  cfg.Tracing.Output,
	}
	if traceCfg.Output == "" {
		traceCfg.Output = os.Getenv("LOG_TRACING_OUTPUT")
	}
	if err := trace.InitWithConfig(traceCfg); err != nil {
		logger.Warn(ctx, "Failed to initialize tracer, tracing disabled", "error", err)
	}
}

func shutdownObservability(ctx context.Context) {
	if err := trace.Shutdown(ctx); err != nil {
		logger.Warn(ctx, "Failed to shut down tracer", "error", err)
	}
}

// runAnalysis builds the observable pipeline and runs it once
func runAnalysis(ctx context.Context, cfg *store.Config, out io.Writer) error {
	analyzer, err := pipeline.New(cfg, out)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to build pipeline", err)
		return err
	}

	logger.Info(ctx, "Running account metrics analysis",
		"input", cfg.Input.Path,
		"output_dir", cfg.Output.Dir,
		"top_n", cfg.Output.TopN,
		"rank_method", cfg.Rank.Method,
	)

	_, err = pipelineobs.Wrap(analyzer).Run(ctx)
	return err
}
