package pipelineobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copytrade-analyzer/internal/types"
)

type stubAnalyzer struct {
	rep   *types.RunReport
	err   error
	calls int
}

func (s *stubAnalyzer) Run(context.Context) (*types.RunReport, error) {
	s.calls++
	return s.rep, s.err
}

func TestWrapPassesThrough(t *testing.T) {
	want := &types.RunReport{InputRows: 3, Trades: 5, Accounts: 2}
	stub := &stubAnalyzer{rep: want}

	got, err := Wrap(stub).Run(context.Background())
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Equal(t, 1, stub.calls)
}

func TestWrapEmpty(t *testing.T) {
	stub := &stubAnalyzer{rep: &types.RunReport{InputRows: 1, Empty: true}}

	got, err := Wrap(stub).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Empty)
}

func TestWrapError(t *testing.T) {
	boom := errors.New("boom")
	stub := &stubAnalyzer{err: boom, rep: &types.RunReport{}}

	got, err := Wrap(stub).Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}
