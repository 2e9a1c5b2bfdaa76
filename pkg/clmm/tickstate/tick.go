// Package tickstate implements the per-tick liquidity and growth-outside
// accounting (§3.2, §4.C): the state transition a tick undergoes whenever a
// position's liquidity crosses or touches it.
package tickstate

import (
	cosmath "cosmossdk.io/math"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/fixedmath"
)

// Tick is a potential initializable tick at a specific signed index.
type Tick struct {
	Initialized           bool
	LiquidityNet          cosmath.Int // signed
	LiquidityGross        cosmath.Int // unsigned
	FeeGrowthOutsideA     cosmath.Int // Q64.64, wrapping
	FeeGrowthOutsideB     cosmath.Int // Q64.64, wrapping
	RewardGrowthsOutside  [3]cosmath.Int
}

// Zero returns an uninitialized tick with every field reset.
func Zero() Tick {
	return Tick{
		LiquidityNet:         cosmath.ZeroInt(),
		LiquidityGross:       cosmath.ZeroInt(),
		FeeGrowthOutsideA:    cosmath.ZeroInt(),
		FeeGrowthOutsideB:    cosmath.ZeroInt(),
		RewardGrowthsOutside: [3]cosmath.Int{cosmath.ZeroInt(), cosmath.ZeroInt(), cosmath.ZeroInt()},
	}
}

// Update is the set of fields NextTickModifyLiquidity proposes; callers
// write it back to storage on success.
type Update struct {
	Tick Tick
}

// NextTickModifyLiquidity computes the tick's next state when a position's
// liquidity delta touches this tick as either bound (§4.C). If
// liquidityDelta is zero, the tick is returned unchanged.
func NextTickModifyLiquidity(
	tick Tick,
	index int32,
	currentTick int32,
	feeGrowthGlobalA, feeGrowthGlobalB cosmath.Int,
	rewardGrowthsGlobal [3]cosmath.Int,
	liquidityDelta cosmath.Int,
	isUpper bool,
) (Update, error) {
	if liquidityDelta.IsZero() {
		return Update{Tick: tick}, nil
	}

	wasInitialized := tick.Initialized

	liquidityGross := tick.LiquidityGross.Add(liquidityDelta)
	if liquidityGross.IsNegative() {
		return Update{}, clmmerr.LiquidityUnderflow{}
	}

	if liquidityGross.IsZero() {
		return Update{Tick: Zero()}, nil
	}

	next := tick
	next.LiquidityGross = liquidityGross

	if !wasInitialized {
		if currentTick >= index {
			next.FeeGrowthOutsideA = feeGrowthGlobalA
			next.FeeGrowthOutsideB = feeGrowthGlobalB
			next.RewardGrowthsOutside = rewardGrowthsGlobal
		} else {
			next.FeeGrowthOutsideA = cosmath.ZeroInt()
			next.FeeGrowthOutsideB = cosmath.ZeroInt()
			next.RewardGrowthsOutside = [3]cosmath.Int{cosmath.ZeroInt(), cosmath.ZeroInt(), cosmath.ZeroInt()}
		}
	}

	netDelta := liquidityDelta
	if isUpper {
		netDelta = liquidityDelta.Neg()
	}
	nextNet := tick.LiquidityNet.Add(netDelta)
	if nextNet.Abs().GT(liquidityGross) {
		return Update{}, clmmerr.LiquidityNetError{}
	}
	next.LiquidityNet = nextNet
	next.Initialized = true

	return Update{Tick: next}, nil
}

// CrossUpdate recomputes a tick's outside accumulators when the swap loop
// crosses it (§4.G step f): outside' = global - outside, for each growth
// accumulator, using wrapping subtraction.
func CrossUpdate(tick Tick, feeGrowthGlobalA, feeGrowthGlobalB cosmath.Int, rewardGrowthsGlobal [3]cosmath.Int) Tick {
	next := tick
	next.FeeGrowthOutsideA = fixedmath.WrappingSubU128(feeGrowthGlobalA, tick.FeeGrowthOutsideA)
	next.FeeGrowthOutsideB = fixedmath.WrappingSubU128(feeGrowthGlobalB, tick.FeeGrowthOutsideB)
	for i := range next.RewardGrowthsOutside {
		next.RewardGrowthsOutside[i] = fixedmath.WrappingSubU128(rewardGrowthsGlobal[i], tick.RewardGrowthsOutside[i])
	}
	return next
}

// LiquidityNetSigned returns the liquidity_net contribution applied to the
// pool's active liquidity when crossing this tick in the direction of
// increasing price (a_to_b == false) or decreasing price (a_to_b == true).
func LiquidityNetSigned(tick Tick, aToB bool) cosmath.Int {
	net := tick.LiquidityNet
	if aToB {
		return net.Neg()
	}
	return net
}

// GrowthBelow implements §4.D.1's growth-below(L) rule.
func GrowthBelow(lowerInitialized bool, lowerIndex, currentTick int32, global, outside cosmath.Int) cosmath.Int {
	if !lowerInitialized {
		return global
	}
	if currentTick < lowerIndex {
		return fixedmath.WrappingSubU128(global, outside)
	}
	return outside
}

// GrowthAbove implements §4.D.1's growth-above(U) rule.
func GrowthAbove(upperInitialized bool, upperIndex, currentTick int32, global, outside cosmath.Int) cosmath.Int {
	if !upperInitialized {
		return cosmath.ZeroInt()
	}
	if currentTick < upperIndex {
		return outside
	}
	return fixedmath.WrappingSubU128(global, outside)
}

// GrowthInside implements growth_inside = global - growth_below - growth_above (wrapping).
func GrowthInside(global, growthBelow, growthAbove cosmath.Int) cosmath.Int {
	return fixedmath.WrappingSubU128(fixedmath.WrappingSubU128(global, growthBelow), growthAbove)
}
