// Package metrics aggregates flattened trades into per-account profitability
// figures and ranks the accounts by ROI.
package metrics

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"copytrade-analyzer/internal/history"
	"copytrade-analyzer/internal/types"
)

// ErrMissingColumn is returned when the trade table lacks a column the
// metrics need.
var ErrMissingColumn = errors.New("trade table is missing a required column")

var hundred = decimal.NewFromInt(100)

// Summary describes what Aggregate did with the rows it was given.
type Summary struct {
	Accounts int
	// Ungrouped counts trades without an account identifier.
	Ungrouped int
	// NonNumeric counts profit or quantity values that could not be read as
	// numbers and were left out of the sums.
	NonNumeric int
	// QuantityField is the column used for the ROI denominator.
	QuantityField string
}

// Aggregate groups t by account and computes one AccountMetrics per account,
// ordered by account identifier. Rank is left at zero.
func Aggregate(t *history.TradeTable) ([]types.AccountMetrics, Summary, error) {
	var sum Summary

	if !t.Has(history.FieldRealizedProfit) {
		return nil, sum, fmt.Errorf("%w: %s", ErrMissingColumn, history.FieldRealizedProfit)
	}
	switch {
	case t.Has(history.FieldQuantity):
		sum.QuantityField = history.FieldQuantity
	case t.Has(history.FieldQty):
		sum.QuantityField = history.FieldQty
	default:
		return nil, sum, fmt.Errorf("%w: %s or %s", ErrMissingColumn, history.FieldQuantity, history.FieldQty)
	}

	groups := make(map[string][]history.TradeRow)
	var keys []string
	for _, row := range t.Rows() {
		id, ok := row.PortID()
		if !ok {
			sum.Ungrouped++
			continue
		}
		if _, seen := groups[id]; !seen {
			keys = append(keys, id)
		}
		groups[id] = append(groups[id], row)
	}
	slices.SortFunc(keys, CompareIDs)

	out := make([]types.AccountMetrics, 0, len(keys))
	for _, id := range keys {
		m, skipped := compute(id, groups[id], sum.QuantityField)
		sum.NonNumeric += skipped
		out = append(out, m)
	}
	sum.Accounts = len(out)
	return out, sum, nil
}

// Compute returns the metrics of one account's trades.
func Compute(portID string, rows []history.TradeRow, quantityField string) types.AccountMetrics {
	m, _ := compute(portID, rows, quantityField)
	return m
}

func compute(portID string, rows []history.TradeRow, quantityField string) (types.AccountMetrics, int) {
	var (
		pnl, qty decimal.Decimal
		wins     int
		skipped  int
	)
	for _, row := range rows {
		if v, present := row[history.FieldRealizedProfit]; present {
			if p, ok := toDecimal(v); ok {
				pnl = pnl.Add(p)
				if p.IsPositive() {
					wins++
				}
			} else {
				skipped++
			}
		}
		if v, present := row[quantityField]; present {
			if q, ok := toDecimal(v); ok {
				qty = qty.Add(q)
			} else {
				skipped++
			}
		}
	}

	m := types.AccountMetrics{
		PortID:         portID,
		PnL:            pnl,
		TotalPositions: len(rows),
		WinPositions:   wins,
		ROI:            ROI(pnl, qty),
		WinRate:        WinRate(wins, len(rows)),
	}
	return m, skipped
}

// ROI is pnl / quantity * 100, or 0 when quantity is exactly zero.
func ROI(pnl, quantity decimal.Decimal) float64 {
	if quantity.IsZero() {
		return 0
	}
	return pnl.Div(quantity).Mul(hundred).InexactFloat64()
}

// WinRate is wins / total * 100, or 0 when total is zero.
func WinRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}

// toDecimal reads JSON numbers, numeric strings and Go numbers. null and
// anything else report false.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		return d, err == nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(x), true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case decimal.Decimal:
		return x, true
	default:
		return decimal.Decimal{}, false
	}
}

// CompareIDs orders account identifiers numerically when both are integers
// and lexically otherwise.
func CompareIDs(a, b string) int {
	x, okA := new(big.Int).SetString(a, 10)
	y, okB := new(big.Int).SetString(b, 10)
	if okA && okB {
		if c := x.Cmp(y); c != 0 {
			return c
		}
	}
	return cmp.Compare(a, b)
}
