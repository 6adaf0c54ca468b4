// Package history turns the serialized Trade_History column into trades.
//
// Each step is separate so a bad record can be attributed: Repair rewrites
// the text, Parse decodes it into a Result, and Flatten expands results into
// a TradeTable keyed by account.
package history

import (
	"regexp"
	"strings"

	"copytrade-analyzer/internal/types"
)

// trailingCommas matches one or more commas, with any whitespace, that sit
// right before a closing brace or bracket.
var trailingCommas = regexp.MustCompile(`(?:,\s*)+([}\]])`)

// Repairer rewrites Python-literal-like text into JSON. It is a textual
// fix-up only; anything it cannot fix is left for Parse to reject.
type Repairer struct {
	Quotes         bool // ' -> "
	TrailingCommas bool // ",}" -> "}", ",]" -> "]"
}

// DefaultRepairer has every rule enabled.
func DefaultRepairer() Repairer {
	return Repairer{Quotes: true, TrailingCommas: true}
}

// Repair normalizes c. Absent input stays absent.
func (r Repairer) Repair(c types.Cell) types.Cell {
	if !c.Valid {
		return types.Absent()
	}
	text := c.Text
	if r.Quotes {
		text = strings.ReplaceAll(text, "'", `"`)
	}
	if r.TrailingCommas {
		text = trailingCommas.ReplaceAllString(text, "$1")
	}
	return types.Text(text)
}

// Repair applies DefaultRepairer.
func Repair(c types.Cell) types.Cell {
	return DefaultRepairer().Repair(c)
}
