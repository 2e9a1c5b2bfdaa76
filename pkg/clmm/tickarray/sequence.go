package tickarray

import (
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/fixedmath"
)

// Lookup resolves the tick array (if any) whose StartTickIndex equals
// startTickIndex. The swap sequence builder calls it once per candidate
// start index in direction order.
type Lookup func(startTickIndex int32) (TickArray, bool)

// maxSwapArrays bounds how many contiguous tick arrays a single swap call
// consumes (§4.B.1): at most three, including the one the pool's current
// tick sits in.
const maxSwapArrays = 3

// BuildSequence returns the up-to-three contiguous tick arrays a swap should
// walk starting from the array containing currentTickIndex, ordered in the
// swap's direction of travel (decreasing start index when aToB, increasing
// otherwise). A start index with no backing account becomes a Virtual
// placeholder so the swap loop can still walk past it; an array is deduped
// by identity so a Lookup that returns the same account for two adjacent
// start indices (e.g. a long-lived zero array) is only consumed once.
func BuildSequence(currentTickIndex int32, tickSpacing uint16, aToB bool, lookup Lookup) ([]TickArray, error) {
	if !fixedmath.IsTickIndexInBounds(currentTickIndex) {
		return nil, clmmerr.InvalidTickIndex{TickIndex: currentTickIndex, Reason: "out of global bounds"}
	}

	start := fixedmath.GetTickArrayStartTickIndex(currentTickIndex, tickSpacing)
	step := int32(tickSpacing) * fixedmath.TickArraySize

	seen := make(map[TickArray]bool, maxSwapArrays)
	var out []TickArray

	for i := 0; i < maxSwapArrays; i++ {
		startIndex := start
		if aToB {
			startIndex = start - int32(i)*step
		} else {
			startIndex = start + int32(i)*step
		}

		arr, ok := lookup(startIndex)
		if !ok {
			arr = NewVirtual(startIndex, tickSpacing)
		}
		if seen[arr] {
			continue
		}
		seen[arr] = true
		out = append(out, arr)
	}

	if len(out) == 0 {
		return nil, clmmerr.InvalidTickArraySequence{TickIndex: currentTickIndex}
	}
	return out, nil
}
