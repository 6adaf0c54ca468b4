package main

import (
	"context"
	"flag"
	"os"

	"copytrade-analyzer/internal/logger"
	"copytrade-analyzer/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (optional)")
	input := flag.String("input", "", "input CSV export, overrides input.path")
	outDir := flag.String("out-dir", "", "directory for the result files, overrides output.dir")
	top := flag.Int("top", 0, "number of top accounts to keep, overrides output.top_n")
	flag.Parse()

	ctx := context.Background()

	if err := initializeSystem(); err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(ctx, *configPath, func(c *store.Config) {
		if *input != "" {
			c.Input.Path = *input
		}
		if *outDir != "" {
			c.Output.Dir = *outDir
		}
		if *top > 0 {
			c.Output.TopN = *top
		}
	})
	if err != nil {
		os.Exit(1)
	}

	initializeObservability(ctx, cfg)
	defer shutdownObservability(ctx)

	if err := runAnalysis(ctx, cfg, os.Stdout); err != nil {
		shutdownObservability(ctx)
		os.Exit(1)
	}
}
