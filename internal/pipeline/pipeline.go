// Package pipeline runs the account metrics batch: load the export, repair and
// decode every Trade_History value, flatten the trades, aggregate and rank
// accounts, and write the two result files.
//
// Human-facing diagnostics are written to the out writer given to New;
// structured logs go through the logger package.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"copytrade-analyzer/internal/history"
	"copytrade-analyzer/internal/interfaces"
	"copytrade-analyzer/internal/logger"
	"copytrade-analyzer/internal/metrics"
	"copytrade-analyzer/internal/rejectlog"
	"copytrade-analyzer/internal/report"
	"copytrade-analyzer/internal/store"
	"copytrade-analyzer/internal/table"
	"copytrade-analyzer/internal/types"
)

// EmptyTableMessage is printed when no trade survives parsing.
const EmptyTableMessage = "Parsed trade history table is empty. Please check the data cleaning and parsing steps."

const absentText = "<absent>"

type pipeline struct {
	cfg      *store.Config
	out      io.Writer
	repairer history.Repairer
	rank     metrics.RankMethod
	rejects  *rejectlog.Log
	writer   *report.Writer
}

var _ interfaces.Analyzer = (*pipeline)(nil)

// New builds an Analyzer from cfg that prints its diagnostics to out.
func New(cfg *store.Config, out io.Writer) (interfaces.Analyzer, error) {
	method, err := metrics.ParseRankMethod(cfg.Rank.Method)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = io.Discard
	}
	return &pipeline{
		cfg: cfg,
		out: out,
		repairer: history.Repairer{
			Quotes:         cfg.RepairQuotes(),
			TrailingCommas: cfg.RepairTrailingCommas(),
		},
		rank:    method,
		rejects: rejectlog.New(cfg.Output.RejectsPath),
		writer:  report.NewWriter(cfg.Output.Dir),
	}, nil
}

func (p *pipeline) Run(ctx context.Context) (*types.RunReport, error) {
	rep := &types.RunReport{}

	ids, raw, err := p.load(ctx, rep)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parsed := p.decode(ctx, ids, raw, rep)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trades := history.Flatten(parsed)
	rep.Trades = trades.Len()
	if trades.Len() == 0 {
		rep.Empty = true
		fmt.Fprintln(p.out, EmptyTableMessage)
		logger.Warn(ctx, "No trades parsed; skipping aggregation and output",
			"input_rows", rep.InputRows,
			"failed_rows", rep.FailedRows,
			"absent_rows", rep.AbsentRows,
		)
		return rep, nil
	}
	logger.Debug(ctx, "Flattened trade table", "trades", trades.Len(), "columns", strings.Join(trades.Columns(), ","))

	op := logger.StartOperation(ctx, "pipeline.aggregate", "trades", trades.Len())
	accounts, summary, err := metrics.Aggregate(trades)
	if err != nil {
		op.EndWithError(err)
		return nil, fmt.Errorf("aggregate metrics: %w", err)
	}
	op.End("accounts", summary.Accounts)
	rep.Accounts = summary.Accounts
	rep.Ungrouped = summary.Ungrouped
	if summary.Ungrouped > 0 {
		logger.Warn(ctx, "Trades without an account identifier were not grouped", "count", summary.Ungrouped)
	}
	if summary.NonNumeric > 0 {
		logger.Warn(ctx, "Non-numeric profit or quantity values were left out of the sums", "count", summary.NonNumeric)
	}
	if summary.QuantityField != history.FieldQuantity {
		logger.Info(ctx, "Using fallback quantity column for ROI", "column", summary.QuantityField)
	}

	metrics.Rank(accounts, p.rank)
	top := metrics.Top(accounts, p.cfg.Output.TopN)
	rep.Top = top

	fmt.Fprintf(p.out, "Top %d accounts based on ROI:\n", p.cfg.Output.TopN)
	if err := report.PrintTable(p.out, top); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rep.MetricsPath, err = p.writer.Write(p.cfg.Output.MetricsFile, accounts); err != nil {
		return nil, err
	}
	if rep.TopPath, err = p.writer.Write(p.cfg.Output.TopFile, top); err != nil {
		return nil, err
	}

	fmt.Fprintln(p.out, "Analysis completed and results saved to CSV files.")
	return rep, nil
}

// load reads the input and returns the identifier and raw history columns.
func (p *pipeline) load(ctx context.Context, rep *types.RunReport) ([]types.Cell, []types.Cell, error) {
	op := logger.StartOperation(ctx, "pipeline.load", "path", p.cfg.Input.Path)

	comma, _ := utf8.DecodeRuneInString(p.cfg.Input.Delimiter)
	t, err := table.Load(p.cfg.Input.Path, table.Options{
		Comma:      comma,
		LazyQuotes: p.cfg.Input.LazyQuotes,
	})
	if err != nil {
		op.EndWithError(err)
		return nil, nil, err
	}
	rep.InputRows = t.Len()
	fmt.Fprintf(p.out, "Initial columns: [%s]\n", strings.Join(t.Columns(), ", "))

	ids, err := t.Column(p.cfg.Input.IDColumn)
	if err != nil {
		op.EndWithError(err)
		return nil, nil, err
	}
	raw, err := t.Column(p.cfg.Input.HistoryColumn)
	if err != nil {
		op.EndWithError(err)
		return nil, nil, err
	}
	op.End("rows", t.Len())
	return ids, raw, nil
}

// decode repairs and parses every raw value. Failures are reported and
// become rows without trades.
func (p *pipeline) decode(ctx context.Context, ids, raw []types.Cell, rep *types.RunReport) []history.Parsed {
	op := logger.StartOperation(ctx, "pipeline.decode", "rows", len(raw))

	n := p.cfg.Diagnostics.SampleSize
	fmt.Fprintf(p.out, "Sample raw %s entries:\n", p.cfg.Input.HistoryColumn)
	p.printSample(raw, n)

	cleaned := make([]types.Cell, len(raw))
	for i, c := range raw {
		cleaned[i] = p.repairer.Repair(c)
	}
	fmt.Fprintf(p.out, "Sample cleaned %s entries:\n", p.cfg.Input.HistoryColumn)
	p.printSample(cleaned, n)

	parsed := make([]history.Parsed, len(cleaned))
	for i, c := range cleaned {
		res := history.Parse(c)
		parsed[i] = history.Parsed{Row: i + 1, PortID: ids[i], Result: res}
		switch {
		case res.OK():
		case res.Absent():
			rep.AbsentRows++
		default:
			rep.FailedRows++
			p.reject(op.GetContext(), i+1, ids[i], c, res.Err)
		}
	}
	op.End("failed", rep.FailedRows, "absent", rep.AbsentRows)
	return parsed
}

func (p *pipeline) reject(ctx context.Context, row int, id, text types.Cell, err error) {
	fmt.Fprintln(p.out, err.Error())
	logger.Rejected(ctx, row, id.Text, err.Error())

	reason := err.Error()
	var de *history.DecodeError
	if errors.As(err, &de) {
		reason = de.Err.Error()
	}
	entry := rejectlog.Entry{Row: row, PortID: id.Text, Reason: reason, Text: text.Text}
	if werr := p.rejects.Append(entry); werr != nil {
		logger.Warn(ctx, "Failed to append to reject log", "path", p.rejects.Path(), "error", werr)
	}
}

func (p *pipeline) printSample(cells []types.Cell, n int) {
	if n > len(cells) {
		n = len(cells)
	}
	for _, c := range cells[:n] {
		if c.Valid {
			fmt.Fprintln(p.out, c.Text)
		} else {
			fmt.Fprintln(p.out, absentText)
		}
	}
}
