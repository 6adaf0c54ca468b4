package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copytrade-analyzer/internal/types"
)

func sample() []types.AccountMetrics {
	return []types.AccountMetrics{
		{PortID: "A", ROI: 10, PnL: decimal.NewFromInt(10), TotalPositions: 1, WinPositions: 1, WinRate: 100, Rank: 1},
		{PortID: "B", ROI: -10, PnL: decimal.NewFromInt(-5), TotalPositions: 1, WinPositions: 0, WinRate: 0, Rank: 2},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()))

	want := "Port_IDs,ROI,PnL,Total Positions,Win Positions,Win Rate,Rank\n" +
		"A,10.0,10,1,1,100.0,1\n" +
		"B,-10.0,-5,1,0,0.0,2\n"
	assert.Equal(t, want, buf.String())
}

func TestWriterWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewWriter(dir)

	path, err := w.Write("account_metrics.csv", sample())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "account_metrics.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, "A", records[1][0])
}

func TestWriteHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, strings.Join(Header, ",")+"\n", buf.String())
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "10.0", FormatFloat(10))
	assert.Equal(t, "-10.0", FormatFloat(-10))
	assert.Equal(t, "0.0", FormatFloat(0))
	assert.Equal(t, "12.5", FormatFloat(12.5))
	third := 1.0 / 3
	assert.Equal(t, "33.33333333333333", FormatFloat(third*100))
}

func TestFormatRank(t *testing.T) {
	assert.Equal(t, "1", FormatRank(1))
	assert.Equal(t, "2.5", FormatRank(2.5))
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, sample()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Port_IDs")
	assert.Contains(t, lines[0], "Win Rate")
	assert.Contains(t, lines[1], "100.0")
	assert.Contains(t, lines[2], "-10.0")
}
