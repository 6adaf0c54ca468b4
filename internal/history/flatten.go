package history

import (
	"copytrade-analyzer/internal/types"
)

// Field names kept by Flatten.
const (
	FieldPortID         = "Port_IDs"
	FieldSide           = "side"
	FieldPositionSide   = "positionSide"
	FieldPrice          = "price"
	FieldQuantity       = "quantity"
	FieldQty            = "qty"
	FieldRealizedProfit = "realizedProfit"
	FieldTimestamp      = "timestamp"
)

// RecognizedFields is the set, in output order, that survives flattening.
var RecognizedFields = []string{
	FieldPortID,
	FieldSide,
	FieldPositionSide,
	FieldPrice,
	FieldQuantity,
	FieldQty,
	FieldRealizedProfit,
	FieldTimestamp,
}

// Parsed pairs one source row's account identifier with its parse result.
type Parsed struct {
	Row    int
	PortID types.Cell
	Result Result
}

// TradeRow is one flattened trade restricted to RecognizedFields.
type TradeRow map[string]any

// PortID returns the owning account identifier.
func (r TradeRow) PortID() (string, bool) {
	v, ok := r[FieldPortID]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if ok {
		return s, s != ""
	}
	if n, ok := v.(interface{ String() string }); ok {
		return n.String(), true
	}
	return "", false
}

// TradeTable is the flat, one-row-per-trade table. It shares nothing with the
// source table.
type TradeTable struct {
	columns []string
	rows    []TradeRow
}

// Flatten expands parsed rows into a TradeTable. Failed results add no rows.
// The parent row's identifier is stamped on each trade and wins over any
// Port_IDs key inside the trade object. Only recognized fields that occur in
// at least one trade become columns.
func Flatten(parsed []Parsed) *TradeTable {
	present := make(map[string]bool, len(RecognizedFields))
	t := &TradeTable{}

	for _, p := range parsed {
		if !p.Result.OK() {
			continue
		}
		for _, trade := range p.Result.Trades {
			row := make(TradeRow, len(RecognizedFields))
			for _, f := range RecognizedFields {
				if v, ok := trade[f]; ok {
					row[f] = v
					present[f] = true
				}
			}
			if p.PortID.Valid {
				row[FieldPortID] = p.PortID.Text
				present[FieldPortID] = true
			}
			t.rows = append(t.rows, row)
		}
	}

	for _, f := range RecognizedFields {
		if present[f] {
			t.columns = append(t.columns, f)
		}
	}
	return t
}

// Columns returns the recognized fields present in the data, in
// RecognizedFields order.
func (t *TradeTable) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Has reports whether field is a column of the table.
func (t *TradeTable) Has(field string) bool {
	for _, c := range t.columns {
		if c == field {
			return true
		}
	}
	return false
}

// Len returns the number of trades.
func (t *TradeTable) Len() int { return len(t.rows) }

// Rows returns the trades in source order.
func (t *TradeTable) Rows() []TradeRow { return t.rows }
