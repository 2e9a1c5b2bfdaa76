package tickarray

import (
	"lukechampine.com/uint128"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/tickstate"
)

// Dynamic is the O(initialized)-space tick array representation: a 128-bit
// tick-presence bitmap plus a packed map of only the initialized tick
// records (§3.3, §4.B). The account's storage footprint grows/shrinks by
// exactly one tick-sized block whenever a tick (de)initializes; Dynamic
// models that as inserting/deleting a map entry and flipping the bitmap bit.
type Dynamic struct {
	startTickIndex int32
	tickSpacing    uint16
	bitmap         uint128.Uint128
	ticks          map[int32]tickstate.Tick // offset (0..TickArraySize-1) -> tick
}

// NewDynamic constructs an empty dynamic tick array for the given aligned
// start index and spacing.
func NewDynamic(startTickIndex int32, tickSpacing uint16) *Dynamic {
	return &Dynamic{
		startTickIndex: startTickIndex,
		tickSpacing:    tickSpacing,
		ticks:          make(map[int32]tickstate.Tick),
	}
}

func (d *Dynamic) StartTickIndex() int32 { return d.startTickIndex }
func (d *Dynamic) TickSpacing() uint16   { return d.tickSpacing }
func (d *Dynamic) IsVariableSize() bool  { return true }
func (d *Dynamic) IsMutable() bool       { return true }

// Bitmap returns the current tick-presence bitmap.
func (d *Dynamic) Bitmap() uint128.Uint128 { return d.bitmap }

// PopCount reports the number of initialized ticks currently packed.
func (d *Dynamic) PopCount() int { return len(d.ticks) }

func (d *Dynamic) bitSet(offset int32) bool {
	return d.bitmap.And(uint128.From64(1).Lsh(uint(offset))).Cmp(uint128.Zero) != 0
}

func (d *Dynamic) GetTick(worldIndex int32) (tickstate.Tick, error) {
	offset, err := boundsCheck(worldIndex, d.startTickIndex, d.tickSpacing)
	if err != nil {
		return tickstate.Tick{}, err
	}
	if !d.bitSet(offset) {
		return tickstate.Zero(), nil
	}
	return d.ticks[offset], nil
}

func (d *Dynamic) UpdateTick(worldIndex int32, tick tickstate.Tick) error {
	offset, err := boundsCheck(worldIndex, d.startTickIndex, d.tickSpacing)
	if err != nil {
		return err
	}
	wasSet := d.bitSet(offset)
	bit := uint128.From64(1).Lsh(uint(offset))

	switch {
	case tick.Initialized && !wasSet:
		d.bitmap = d.bitmap.Or(bit)
		d.ticks[offset] = tick
	case tick.Initialized && wasSet:
		d.ticks[offset] = tick
	case !tick.Initialized && wasSet:
		d.bitmap = d.bitmap.Xor(bit)
		delete(d.ticks, offset)
	default:
		// stays uninitialized, nothing to do
	}
	return nil
}

func (d *Dynamic) NextInitializedTick(worldIndex int32, aToB bool) (int32, tickstate.Tick, bool) {
	offset := tickIndexInArray(worldIndex, d.startTickIndex, d.tickSpacing)
	step := int32(d.tickSpacing)

	if aToB {
		for o := offset; o >= 0; o-- {
			if o >= TickArraySize {
				continue
			}
			if d.bitSet(o) {
				return d.startTickIndex + o*step, d.ticks[o], true
			}
		}
		return 0, tickstate.Tick{}, false
	}

	for o := offset + 1; o < TickArraySize; o++ {
		if o < 0 {
			continue
		}
		if d.bitSet(o) {
			return d.startTickIndex + o*step, d.ticks[o], true
		}
	}
	return 0, tickstate.Tick{}, false
}
