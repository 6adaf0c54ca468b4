package types

import "github.com/shopspring/decimal"

// Cell is a single value read from the input table. Valid is false when the
// value is missing, the way sql.NullString marks NULL.
type Cell struct {
	Text  string
	Valid bool
}

// Absent returns the missing-value marker.
func Absent() Cell { return Cell{} }

// Text wraps a present value.
func Text(s string) Cell { return Cell{Text: s, Valid: true} }

// AccountMetrics is the per-account aggregate written to the output files.
type AccountMetrics struct {
	PortID         string
	ROI            float64
	PnL            decimal.Decimal
	TotalPositions int
	WinPositions   int
	WinRate        float64
	Rank           float64
}

// RunReport summarizes one run of the analysis.
type RunReport struct {
	InputRows   int              `json:"input_rows"`
	AbsentRows  int              `json:"absent_rows"`
	FailedRows  int              `json:"failed_rows"`
	Trades      int              `json:"trades"`
	Ungrouped   int              `json:"ungrouped_trades"`
	Accounts    int              `json:"accounts"`
	Empty       bool             `json:"empty"`
	MetricsPath string           `json:"metrics_path,omitempty"`
	TopPath     string           `json:"top_path,omitempty"`
	Top         []AccountMetrics `json:"-"`
}
