package pipelineobs

import (
	"context"

	"copytrade-analyzer/internal/interfaces"
	"copytrade-analyzer/internal/logger"
	"copytrade-analyzer/internal/trace"
	"copytrade-analyzer/internal/types"
)

type observableAnalyzer struct {
	analyzer interfaces.Analyzer
}

var _ interfaces.Analyzer = (*observableAnalyzer)(nil)

func Wrap(analyzer interfaces.Analyzer) interfaces.Analyzer {
	return &observableAnalyzer{
		analyzer: analyzer,
	}
}

func (oa *observableAnalyzer) Run(ctx context.Context) (*types.RunReport, error) {
	ctx, span := trace.StartSpan(ctx, "pipeline.Run")
	if trace.Enabled() {
		defer span.End()
	}

	logger.InfoSkip(ctx, 1, "Starting account metrics run")

	rep, err := oa.analyzer.Run(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Account metrics run failed", err)
		return nil, err
	}

	if rep.Empty {
		logger.WarnSkip(ctx, 1, "Account metrics run produced no output",
			"input_rows", rep.InputRows,
			"failed_rows", rep.FailedRows,
			"absent_rows", rep.AbsentRows,
		)
		return rep, nil
	}

	logger.InfoSkip(ctx, 1, "Account metrics run completed",
		"input_rows", rep.InputRows,
		"failed_rows", rep.FailedRows,
		"absent_rows", rep.AbsentRows,
		"trades", rep.Trades,
		"accounts", rep.Accounts,
		"metrics_path", rep.MetricsPath,
		"top_path", rep.TopPath,
	)
	return rep, nil
}
