package tickarray

import (
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/tickstate"
)

// Virtual stands in for a tick-array account that does not exist on chain
// yet but whose start index the swap sequence still needs to cover (§4.B.1,
// §9). It reports every tick as uninitialized and refuses any write: a swap
// may cross through the price range it covers, but it can never be the
// array a liquidity-modifying instruction targets.
type Virtual struct {
	startTickIndex int32
	tickSpacing    uint16
}

// NewVirtual constructs a read-only placeholder array for the given aligned
// start index and spacing.
func NewVirtual(startTickIndex int32, tickSpacing uint16) *Virtual {
	return &Virtual{startTickIndex: startTickIndex, tickSpacing: tickSpacing}
}

func (v *Virtual) StartTickIndex() int32 { return v.startTickIndex }
func (v *Virtual) TickSpacing() uint16   { return v.tickSpacing }
func (v *Virtual) IsVariableSize() bool  { return false }
func (v *Virtual) IsMutable() bool       { return false }

func (v *Virtual) GetTick(worldIndex int32) (tickstate.Tick, error) {
	if _, err := boundsCheck(worldIndex, v.startTickIndex, v.tickSpacing); err != nil {
		return tickstate.Tick{}, err
	}
	return tickstate.Zero(), nil
}

func (v *Virtual) UpdateTick(worldIndex int32, tick tickstate.Tick) error {
	return clmmerr.InvalidTickArraySequence{TickIndex: worldIndex}
}

// NextInitializedTick always reports none: a virtual array has no
// initialized ticks by construction.
func (v *Virtual) NextInitializedTick(worldIndex int32, aToB bool) (int32, tickstate.Tick, bool) {
	return 0, tickstate.Tick{}, false
}
