// Package table loads a delimited export into a row-oriented, in-memory table.
// Cells that are empty or hold a conventional missing-value token are read as
// absent, and ragged rows are padded with absent cells.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"copytrade-analyzer/internal/types"
)

// ErrMissingColumn is returned when a requested column is not in the header.
var ErrMissingColumn = errors.New("missing column")

const utf8BOM = "\uFEFF"

// DefaultNAValues are the cell contents read as missing values.
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a",
	"nan", "null",
}

// Options configures Read. The zero value reads comma separated input with
// DefaultNAValues.
type Options struct {
	Comma      rune
	LazyQuotes bool
	// NAValues replaces DefaultNAValues when non-nil.
	NAValues []string
}

// Table is a header plus rows of raw cells.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]types.Cell
}

// Load reads the file at path.
func Load(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f, opt)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// Read parses delimited input whose first record is the header.
func Read(r io.Reader, opt Options) (*Table, error) {
	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.LazyQuotes = opt.LazyQuotes
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty input: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	header = dedupe(stripHeaderBOM(header))

	na := opt.NAValues
	if na == nil {
		na = DefaultNAValues
	}
	missing := make(map[string]struct{}, len(na))
	for _, v := range na {
		missing[v] = struct{}{}
	}

	t := &Table{header: header, index: make(map[string]int, len(header))}
	for i, h := range header {
		t.index[h] = i
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make([]types.Cell, len(header))
		for i := range row {
			if i >= len(rec) {
				continue
			}
			if _, ok := missing[rec[i]]; ok {
				continue
			}
			row[i] = types.Text(rec[i])
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// Columns returns the header in file order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.header...)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the header contains name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns every cell of the named column.
func (t *Table) Column(name string) ([]types.Cell, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %s)", ErrMissingColumn, name, strings.Join(t.header, ", "))
	}
	out := make([]types.Cell, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out, nil
}

// Head returns up to n cells of the named column.
func (t *Table) Head(name string, n int) ([]types.Cell, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if n < len(col) {
		col = col[:n]
	}
	return col, nil
}

// stripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func stripHeaderBOM(headers []string) []string {
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}
	return headers
}

// dedupe renames repeated header names to name.1, name.2, ...
func dedupe(headers []string) []string {
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		n, dup := seen[h]
		seen[h] = n + 1
		if !dup {
			continue
		}
		name := h + "." + strconv.Itoa(n)
		for {
			if _, taken := seen[name]; !taken {
				break
			}
			n++
			name = h + "." + strconv.Itoa(n)
		}
		seen[name] = 1
		headers[i] = name
	}
	return headers
}
