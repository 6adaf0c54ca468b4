package history

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copytrade-analyzer/internal/types"
)

func TestParseList(t *testing.T) {
	res := Parse(types.Text(`[{"side": "BUY", "realizedProfit": 10.5, "quantity": 100}, {"side": "SELL"}]`))

	require.True(t, res.OK(), "%v", res.Err)
	require.Len(t, res.Trades, 2)
	assert.Equal(t, "BUY", res.Trades[0]["side"])
	assert.Equal(t, json.Number("10.5"), res.Trades[0]["realizedProfit"])
	assert.Equal(t, json.Number("100"), res.Trades[0]["quantity"])
	assert.Equal(t, "SELL", res.Trades[1]["side"])
}

func TestParseEmptyList(t *testing.T) {
	res := Parse(types.Text(`[]`))
	assert.True(t, res.OK())
	assert.Empty(t, res.Trades)
}

func TestParseSingleObject(t *testing.T) {
	res := Parse(types.Text(`{"realizedProfit": 1}`))
	require.True(t, res.OK())
	assert.Len(t, res.Trades, 1)
}

func TestParseAbsent(t *testing.T) {
	res := Parse(types.Absent())
	assert.False(t, res.OK())
	assert.True(t, res.Absent())
	assert.ErrorIs(t, res.Err, ErrAbsent)
	assert.Nil(t, res.Trades)
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", `[{side: BUY}]`},
		{"truncated", `[{"side": "BUY"`},
		{"empty text", ``},
		{"extra data", `[] []`},
		{"stray closer", `[]]`},
		{"scalar", `42`},
		{"null", `null`},
		{"list of scalars", `[1, 2]`},
		{"python literal", `[{"open": True}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res Result
			require.NotPanics(t, func() { res = Parse(types.Text(tt.in)) })
			assert.False(t, res.OK())
			assert.False(t, res.Absent())

			var de *DecodeError
			require.ErrorAs(t, res.Err, &de)
			assert.Equal(t, tt.in, de.Text)
			assert.Contains(t, res.Err.Error(), "JSON decode error: ")
			assert.Contains(t, res.Err.Error(), "for text: "+tt.in)
		})
	}
}

func TestRepairThenParse(t *testing.T) {
	raw := types.Text(`[{'side': 'BUY', 'positionSide': 'LONG', 'realizedProfit': 2, 'qty': 3,},]`)

	res := Parse(Repair(raw))

	require.True(t, res.OK(), "%v", res.Err)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, "LONG", res.Trades[0]["positionSide"])
}
