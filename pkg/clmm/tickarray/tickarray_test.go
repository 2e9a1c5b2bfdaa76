package tickarray

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/tickstate"
)

func TestFixedGetUpdateTickRoundTrip(t *testing.T) {
	f := NewFixed(0, 2)
	tick := tickstate.Tick{Initialized: true}
	require.NoError(t, f.UpdateTick(4, tick))

	got, err := f.GetTick(4)
	require.NoError(t, err)
	require.True(t, got.Initialized)
}

func TestFixedGetTickRejectsUnalignedIndex(t *testing.T) {
	f := NewFixed(0, 2)
	_, err := f.GetTick(3)
	require.ErrorAs(t, err, &clmmerr.TickNotFound{})
}

func TestFixedGetTickRejectsOutOfRange(t *testing.T) {
	f := NewFixed(0, 2)
	_, err := f.GetTick(1000)
	require.ErrorAs(t, err, &clmmerr.TickNotFound{})
}

func TestFixedNextInitializedTickBothDirections(t *testing.T) {
	f := NewFixed(0, 1)
	require.NoError(t, f.UpdateTick(10, tickstate.Tick{Initialized: true}))
	require.NoError(t, f.UpdateTick(20, tickstate.Tick{Initialized: true}))

	idx, _, ok := f.NextInitializedTick(15, false)
	require.True(t, ok)
	require.Equal(t, int32(20), idx)

	idx, _, ok = f.NextInitializedTick(15, true)
	require.True(t, ok)
	require.Equal(t, int32(10), idx)
}

func TestDynamicTracksBitmapAndPopCount(t *testing.T) {
	d := NewDynamic(0, 1)
	require.Equal(t, 0, d.PopCount())

	require.NoError(t, d.UpdateTick(5, tickstate.Tick{Initialized: true}))
	require.Equal(t, 1, d.PopCount())

	got, err := d.GetTick(5)
	require.NoError(t, err)
	require.True(t, got.Initialized)

	// Uninitialized ticks read back as zero without ever being stored.
	zero, err := d.GetTick(6)
	require.NoError(t, err)
	require.False(t, zero.Initialized)

	require.NoError(t, d.UpdateTick(5, tickstate.Tick{Initialized: false}))
	require.Equal(t, 0, d.PopCount())
}

func TestDynamicNextInitializedTick(t *testing.T) {
	d := NewDynamic(0, 1)
	require.NoError(t, d.UpdateTick(30, tickstate.Tick{Initialized: true}))

	idx, _, ok := d.NextInitializedTick(0, false)
	require.True(t, ok)
	require.Equal(t, int32(30), idx)

	_, _, ok = d.NextInitializedTick(31, false)
	require.False(t, ok)
}

func TestVirtualReportsZeroAndRejectsWrites(t *testing.T) {
	v := NewVirtual(0, 1)
	tick, err := v.GetTick(5)
	require.NoError(t, err)
	require.False(t, tick.Initialized)

	err = v.UpdateTick(5, tickstate.Tick{Initialized: true})
	require.ErrorAs(t, err, &clmmerr.InvalidTickArraySequence{})

	_, _, ok := v.NextInitializedTick(0, false)
	require.False(t, ok)
}

func TestBuildSequenceOrdersByDirectionAndFillsVirtualGaps(t *testing.T) {
	const spacing = 1
	step := int32(spacing) * TickArraySize

	present := NewFixed(0, spacing)
	lookup := func(start int32) (TickArray, bool) {
		if start == 0 {
			return present, true
		}
		return nil, false
	}

	seq, err := BuildSequence(10, spacing, false, lookup)
	require.NoError(t, err)
	require.Len(t, seq, 3)
	require.Equal(t, int32(0), seq[0].StartTickIndex())
	require.Equal(t, step, seq[1].StartTickIndex())
	require.Equal(t, 2*step, seq[2].StartTickIndex())
	require.False(t, seq[1].IsMutable()) // unresolved start indices become read-only Virtual placeholders

	seqAToB, err := BuildSequence(10, spacing, true, lookup)
	require.NoError(t, err)
	require.Equal(t, int32(0), seqAToB[0].StartTickIndex())
	require.Equal(t, -step, seqAToB[1].StartTickIndex())
}

func TestBuildSequenceRejectsOutOfBoundsTick(t *testing.T) {
	_, err := BuildSequence(1<<30, 1, false, func(int32) (TickArray, bool) { return nil, false })
	require.ErrorAs(t, err, &clmmerr.InvalidTickIndex{})
}
