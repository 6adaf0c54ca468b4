// Package report writes account metrics as CSV files and console tables.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"copytrade-analyzer/internal/types"
)

// Header is the column order of every metrics file.
var Header = []string{"Port_IDs", "ROI", "PnL", "Total Positions", "Win Positions", "Win Rate", "Rank"}

// Writer writes metrics files under a directory.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Path returns where name is written.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Write writes rows to name with a header row and no index column and
// returns the full path.
func (w *Writer) Write(name string, rows []types.AccountMetrics) (string, error) {
	outPath := w.Path(name)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	if err := WriteCSV(out, rows); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("write %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return outPath, nil
}

// WriteCSV encodes rows to out.
func WriteCSV(out io.Writer, rows []types.AccountMetrics) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(Record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Record renders one row in Header order.
func Record(m types.AccountMetrics) []string {
	return []string{
		m.PortID,
		FormatFloat(m.ROI),
		m.PnL.String(),
		strconv.Itoa(m.TotalPositions),
		strconv.Itoa(m.WinPositions),
		FormatFloat(m.WinRate),
		FormatRank(m.Rank),
	}
}

// FormatFloat prints the shortest representation of f that always carries
// a fractional part: 10 -> "10.0", 12.5 -> "12.5".
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatRank prints integral ranks without a fractional part.
func FormatRank(r float64) string {
	if r == math.Trunc(r) && !math.IsInf(r, 0) {
		return strconv.FormatInt(int64(r), 10)
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// PrintTable writes rows as an aligned, human-readable table.
func PrintTable(out io.Writer, rows []types.AccountMetrics) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(Header, "\t")+"\t")
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(Record(r), "\t")+"\t")
	}
	return tw.Flush()
}
