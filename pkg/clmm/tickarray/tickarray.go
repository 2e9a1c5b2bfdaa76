// Package tickarray implements the sparse tick-array index (§3.3, §4.B):
// fixed and dynamic 88-tick chunks, virtual zero arrays for uninitialized
// but expected accounts, and the ordered tick-sequence builder a swap
// consumes. Discriminator-dispatching polymorphism is expressed as the
// TickArray interface with three implementations, following the teacher's
// approach of tagging wire-format variants by an 8-byte discriminator.
package tickarray

import (
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/fixedmath"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/tickstate"
)

// TickArray is the capability interface both representations implement.
type TickArray interface {
	StartTickIndex() int32
	TickSpacing() uint16
	IsVariableSize() bool
	IsMutable() bool
	GetTick(worldIndex int32) (tickstate.Tick, error)
	UpdateTick(worldIndex int32, tick tickstate.Tick) error
	// NextInitializedTick scans toward decreasing index when aToB is true
	// (inclusive of worldIndex), toward increasing index otherwise
	// (exclusive of worldIndex). ok is false if no initialized tick is
	// found within this array.
	NextInitializedTick(worldIndex int32, aToB bool) (idx int32, tick tickstate.Tick, ok bool)
}

func tickIndexInArray(tickIndex, startTickIndex int32, tickSpacing uint16) int32 {
	return fixedmath.FloorDivision(tickIndex-startTickIndex, int32(tickSpacing))
}

func boundsCheck(worldIndex, startTickIndex int32, tickSpacing uint16) (int32, error) {
	if worldIndex%int32(tickSpacing) != 0 {
		return 0, clmmerr.TickNotFound{TickIndex: worldIndex}
	}
	offset := tickIndexInArray(worldIndex, startTickIndex, tickSpacing)
	if offset < 0 || offset >= TickArraySize {
		return 0, clmmerr.TickNotFound{TickIndex: worldIndex}
	}
	return offset, nil
}

// TickArraySize is the number of ticks in one array; it equals
// fixedmath.TickArraySize.
const TickArraySize = 88
