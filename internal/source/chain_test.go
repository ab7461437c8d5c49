package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/dqc/internal/testutil"
)

type stubProvider struct {
	name  string
	snap  *Snapshot
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Sample(_ context.Context, _ TableSpec) (*Snapshot, error) {
	s.calls++
	return s.snap, s.err
}

func TestChain_FallsThroughOnNotFound(t *testing.T) {
	first := &stubProvider{name: "warehouse", err: ErrTableNotFound}
	second := &stubProvider{name: "synthetic", snap: &Snapshot{Table: "t"}}
	logger, logs := testutil.NewRecordingLogger(t)
	chain := NewChain(logger, first, second)

	snap, err := chain.Sample(context.Background(), TableSpec{Name: "t"})
	require.NoError(t, err)
	assert.Same(t, second.snap, snap)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)

	miss, ok := logs.Find("sample provider has no data")
	require.True(t, ok)
	assert.Equal(t, "warehouse", miss.Attrs["provider"])
	loaded, ok := logs.Find("sample loaded")
	require.True(t, ok)
	assert.Equal(t, "synthetic", loaded.Attrs["provider"])
	assert.Equal(t, "0", loaded.Attrs["rows"])
}

func TestChain_StopsOnOtherErrors(t *testing.T) {
	boom := errors.New("connection refused")
	first := &stubProvider{name: "warehouse", err: boom}
	second := &stubProvider{name: "synthetic", snap: &Snapshot{}}
	chain := NewChain(testutil.NewTestLogger(t), first, second)

	_, err := chain.Sample(context.Background(), TableSpec{Name: "t"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, second.calls)
}

func TestChain_Exhausted(t *testing.T) {
	chain := NewChain(nil, &stubProvider{name: "cdc", err: ErrTableNotFound})
	_, err := chain.Sample(context.Background(), TableSpec{Name: "t"})
	require.ErrorIs(t, err, ErrNoSamples)
}
