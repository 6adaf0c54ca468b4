package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, cfg LogConfig) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	cfg.Output = &buf
	require.NoError(t, InitWithConfig(cfg))
	t.Cleanup(func() { _ = InitWithConfig(LogConfig{Level: "INFO"}) })
	return &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m), l)
		out = append(out, m)
	}
	return out
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, LogConfig{Level: "WARN", Format: "json"})
	ctx := context.Background()

	Info(ctx, "hidden")
	Debug(ctx, "hidden too")
	Warn(ctx, "shown", "count", 3)

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "shown", got[0]["msg"])
	assert.Equal(t, "WARN", got[0]["level"])
	assert.EqualValues(t, 3, got[0]["count"])
}

func TestDebugNeedsDetailedLogging(t *testing.T) {
	buf := capture(t, LogConfig{Level: "INFO", Format: "json"})
	Debug(context.Background(), "hidden")
	assert.Empty(t, buf.String())
	assert.False(t, IsDebugEnabled())

	buf = capture(t, LogConfig{Level: "DEBUG", Format: "json"})
	Debug(context.Background(), "shown")
	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "source")
}

func TestErrorWithErr(t *testing.T) {
	buf := capture(t, LogConfig{Level: "INFO", Format: "json"})
	ErrorWithErr(context.Background(), "failed", errors.New("boom"), "path", "x.csv")

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "boom", got[0]["error"])
	assert.Equal(t, "x.csv", got[0]["path"])
}

func TestRejected(t *testing.T) {
	buf := capture(t, LogConfig{Level: "DEBUG", Format: "json"})
	Rejected(context.Background(), 7, "42", "unexpected EOF")

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "REJECT", got[0]["type"])
	assert.EqualValues(t, 7, got[0]["row"])
	assert.Equal(t, "42", got[0]["port_id"])
}

func TestOperationTimer(t *testing.T) {
	buf := capture(t, LogConfig{Level: "INFO", Format: "text"})
	op := StartOperation(context.Background(), "pipeline.load", "path", "in.csv")
	op.End("rows", 2)
	assert.Empty(t, buf.String(), "completion is debug only")

	op = StartOperation(context.Background(), "pipeline.load")
	op.EndWithError(errors.New("no such file"))
	assert.Contains(t, buf.String(), "Operation failed")
	assert.Contains(t, buf.String(), "operation=pipeline.load")
	assert.NotNil(t, op.GetContext())
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "ERROR", parseLogLevel("ERROR").String())
	assert.Equal(t, "INFO", parseLogLevel("loud").String())
}

func TestToAttributes(t *testing.T) {
	attrs := toAttributes([]any{"a", 1, "b", "x", 3, "ignored", "c", true, "dangling"})
	require.Len(t, attrs, 3)
	assert.Equal(t, "a", string(attrs[0].Key))
	assert.Equal(t, "c", string(attrs[2].Key))
}
