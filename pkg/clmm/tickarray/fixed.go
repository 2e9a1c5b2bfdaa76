package tickarray

import (
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/tickstate"
)

// Fixed is the constant-space tick array representation: 88 full tick
// records regardless of initialization (§3.3).
type Fixed struct {
	startTickIndex int32
	tickSpacing    uint16
	Ticks          [TickArraySize]tickstate.Tick
}

// NewFixed constructs an empty fixed tick array for the given aligned start
// index and spacing.
func NewFixed(startTickIndex int32, tickSpacing uint16) *Fixed {
	f := &Fixed{startTickIndex: startTickIndex, tickSpacing: tickSpacing}
	for i := range f.Ticks {
		f.Ticks[i] = tickstate.Zero()
	}
	return f
}

func (f *Fixed) StartTickIndex() int32 { return f.startTickIndex }
func (f *Fixed) TickSpacing() uint16   { return f.tickSpacing }
func (f *Fixed) IsVariableSize() bool  { return false }
func (f *Fixed) IsMutable() bool       { return true }

func (f *Fixed) GetTick(worldIndex int32) (tickstate.Tick, error) {
	offset, err := boundsCheck(worldIndex, f.startTickIndex, f.tickSpacing)
	if err != nil {
		return tickstate.Tick{}, err
	}
	return f.Ticks[offset], nil
}

func (f *Fixed) UpdateTick(worldIndex int32, tick tickstate.Tick) error {
	offset, err := boundsCheck(worldIndex, f.startTickIndex, f.tickSpacing)
	if err != nil {
		return err
	}
	f.Ticks[offset] = tick
	return nil
}

func (f *Fixed) NextInitializedTick(worldIndex int32, aToB bool) (int32, tickstate.Tick, bool) {
	offset := tickIndexInArray(worldIndex, f.startTickIndex, f.tickSpacing)
	step := int32(f.tickSpacing)

	if aToB {
		for o := offset; o >= 0; o-- {
			if o >= TickArraySize {
				continue
			}
			if f.Ticks[o].Initialized {
				return f.startTickIndex + o*step, f.Ticks[o], true
			}
		}
		return 0, tickstate.Tick{}, false
	}

	for o := offset + 1; o < TickArraySize; o++ {
		if o < 0 {
			continue
		}
		if f.Ticks[o].Initialized {
			return f.startTickIndex + o*step, f.Ticks[o], true
		}
	}
	return 0, tickstate.Tick{}, false
}
