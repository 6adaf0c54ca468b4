package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"copytrade-analyzer/internal/types"
)

// ErrAbsent is the failure reason of a missing Trade_History value.
var ErrAbsent = errors.New("trade history is absent")

// Trade is one decoded trade object. Numbers are json.Number.
type Trade map[string]any

// Result is the outcome of Parse: Trades on success, Err otherwise.
type Result struct {
	Trades []Trade
	Err    error
}

// OK reports whether the record decoded.
func (r Result) OK() bool { return r.Err == nil }

// Absent reports whether the record failed only because it was missing.
func (r Result) Absent() bool { return errors.Is(r.Err, ErrAbsent) }

// DecodeError carries the text that failed to decode.
type DecodeError struct {
	Text string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("JSON decode error: %v for text: %s", e.Err, e.Text)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Parse decodes repaired text into trades. A top-level object is read as a
// one-trade list. It never panics: every failure is returned in Result.Err.
func Parse(c types.Cell) Result {
	if !c.Valid {
		return Result{Err: ErrAbsent}
	}

	dec := json.NewDecoder(strings.NewReader(c.Text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("expecting value: empty input")
		}
		return fail(c.Text, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fail(c.Text, fmt.Errorf("extra data after offset %d", dec.InputOffset()))
	}

	switch x := v.(type) {
	case []any:
		trades := make([]Trade, 0, len(x))
		for i, elem := range x {
			obj, ok := elem.(map[string]any)
			if !ok {
				return fail(c.Text, fmt.Errorf("trade %d is %s, not an object", i, kind(elem)))
			}
			trades = append(trades, Trade(obj))
		}
		return Result{Trades: trades}
	case map[string]any:
		return Result{Trades: []Trade{Trade(x)}}
	default:
		return fail(c.Text, fmt.Errorf("top-level value is %s, not a list of trades", kind(v)))
	}
}

func fail(text string, err error) Result {
	return Result{Err: &DecodeError{Text: text, Err: err}}
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case json.Number:
		return "a number"
	case string:
		return "a string"
	case []any:
		return "a list"
	case map[string]any:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
