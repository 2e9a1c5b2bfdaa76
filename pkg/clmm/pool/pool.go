// Package pool implements pool state transitions (§3.1, §4.E): the
// reward-growth clock and the coordinated liquidity-change sequence that
// ties tick, position, and pool updates into one atomic write.
package pool

import (
	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/fixedmath"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/position"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/tickarray"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/tickstate"
)

// RewardInfo is a pool-level reward slot (§3.1); external identity
// references live at the account layer.
type RewardInfo struct {
	EmissionsPerSecondX64 cosmath.Int // Q64.64
	GrowthGlobalX64       cosmath.Int // Q64.64, wrapping
}

// Pool mirrors the fields named in §3.1.
type Pool struct {
	TickSpacing                uint16
	FeeTierIndex               uint16
	FeeRate                    uint16
	ProtocolFeeRate            uint16
	Liquidity                  uint128.Uint128
	SqrtPrice                  uint128.Uint128
	TickCurrentIndex           int32
	ProtocolFeeOwedA           cosmath.Int // u64, saturating
	ProtocolFeeOwedB           cosmath.Int
	FeeGrowthGlobalA           cosmath.Int // Q64.64, wrapping
	FeeGrowthGlobalB           cosmath.Int
	RewardLastUpdatedTimestamp uint64
	RewardInfos                [3]RewardInfo
}

// AddProtocolFeeSaturating adds a fee amount to a protocol_fee_owed_* field,
// clamping at u64::MAX rather than wrapping (§3.1: "saturating up to u64::MAX").
func AddProtocolFeeSaturating(owed cosmath.Int, delta cosmath.Int) cosmath.Int {
	sum := owed.Add(delta)
	if sum.GT(fixedmath.MaxU64) {
		return fixedmath.MaxU64
	}
	return sum
}

// UpdateRewardGrowths implements §4.E.2 for all three reward slots, given
// the pool's liquidity and the elapsed time to nextTimestamp. It returns only
// the updated reward infos (an unset growth_global reads as zero); callers
// advance RewardLastUpdatedTimestamp themselves. A nextTimestamp strictly
// before the pool's current one fails InvalidTimestamp.
func UpdateRewardGrowths(p Pool, nextTimestamp uint64) ([3]RewardInfo, error) {
	next := p.RewardInfos
	for i := range next {
		if next[i].GrowthGlobalX64.IsNil() {
			next[i].GrowthGlobalX64 = cosmath.ZeroInt()
		}
	}
	if nextTimestamp == p.RewardLastUpdatedTimestamp {
		return next, nil
	}
	if nextTimestamp < p.RewardLastUpdatedTimestamp {
		return next, clmmerr.InvalidTimestamp{Now: nextTimestamp, Last: p.RewardLastUpdatedTimestamp}
	}

	liquidity := fixedmath.U128ToInt(p.Liquidity)
	if liquidity.IsZero() {
		return next, nil
	}

	timeDelta := cosmath.NewIntFromUint64(nextTimestamp - p.RewardLastUpdatedTimestamp)

	for i := range next {
		if next[i].EmissionsPerSecondX64.IsNil() || next[i].EmissionsPerSecondX64.IsZero() {
			continue
		}
		delta, err := fixedmath.MulDivFloor(timeDelta, next[i].EmissionsPerSecondX64, liquidity)
		if err != nil {
			// liquidity == 0 already handled above; any other failure is
			// treated as overflow and the delta collapses to zero.
			delta = cosmath.ZeroInt()
		}
		if delta.BigInt().BitLen() > 128 {
			delta = cosmath.ZeroInt()
		}
		next[i].GrowthGlobalX64 = fixedmath.WrappingAddU128(next[i].GrowthGlobalX64, delta)
	}

	return next, nil
}

// LiquidityChange is the result of the §4.E.1 coordinated sequence: the
// caller writes Pool, LowerTick, UpperTick, and Position back atomically,
// then settles AmountA/AmountB through the external transfer collaborator.
type LiquidityChange struct {
	Pool       Pool
	LowerTick  tickstate.Tick
	UpperTick  tickstate.Tick
	Position   position.Position
	AmountA    uint64
	AmountB    uint64
}

// ApplyLiquidityChange implements §4.E.1: the coordinated sequence run by
// every Liquidity Manager entry point. lowerArray/upperArray are the tick
// arrays owning the position's bounds (possibly the same array).
func ApplyLiquidityChange(
	p Pool,
	pos position.Position,
	lowerArray, upperArray tickarray.TickArray,
	liquidityDelta cosmath.Int,
	timestamp uint64,
	roundUp bool,
) (LiquidityChange, error) {
	nextRewardInfos, err := UpdateRewardGrowths(p, timestamp)
	if err != nil {
		return LiquidityChange{}, err
	}
	rewardGrowthsGlobal := [3]cosmath.Int{
		nextRewardInfos[0].GrowthGlobalX64,
		nextRewardInfos[1].GrowthGlobalX64,
		nextRewardInfos[2].GrowthGlobalX64,
	}

	lowerTick, err := lowerArray.GetTick(pos.TickLowerIndex)
	if err != nil {
		return LiquidityChange{}, err
	}
	upperTick, err := upperArray.GetTick(pos.TickUpperIndex)
	if err != nil {
		return LiquidityChange{}, err
	}

	lowerUpdate, err := tickstate.NextTickModifyLiquidity(
		lowerTick, pos.TickLowerIndex, p.TickCurrentIndex,
		p.FeeGrowthGlobalA, p.FeeGrowthGlobalB, rewardGrowthsGlobal,
		liquidityDelta, false,
	)
	if err != nil {
		return LiquidityChange{}, err
	}
	upperUpdate, err := tickstate.NextTickModifyLiquidity(
		upperTick, pos.TickUpperIndex, p.TickCurrentIndex,
		p.FeeGrowthGlobalA, p.FeeGrowthGlobalB, rewardGrowthsGlobal,
		liquidityDelta, true,
	)
	if err != nil {
		return LiquidityChange{}, err
	}

	growthBelowA := tickstate.GrowthBelow(lowerTick.Initialized, pos.TickLowerIndex, p.TickCurrentIndex, p.FeeGrowthGlobalA, lowerTick.FeeGrowthOutsideA)
	growthAboveA := tickstate.GrowthAbove(upperTick.Initialized, pos.TickUpperIndex, p.TickCurrentIndex, p.FeeGrowthGlobalA, upperTick.FeeGrowthOutsideA)
	feeGrowthInsideA := tickstate.GrowthInside(p.FeeGrowthGlobalA, growthBelowA, growthAboveA)

	growthBelowB := tickstate.GrowthBelow(lowerTick.Initialized, pos.TickLowerIndex, p.TickCurrentIndex, p.FeeGrowthGlobalB, lowerTick.FeeGrowthOutsideB)
	growthAboveB := tickstate.GrowthAbove(upperTick.Initialized, pos.TickUpperIndex, p.TickCurrentIndex, p.FeeGrowthGlobalB, upperTick.FeeGrowthOutsideB)
	feeGrowthInsideB := tickstate.GrowthInside(p.FeeGrowthGlobalB, growthBelowB, growthAboveB)

	var rewardGrowthsInside [3]cosmath.Int
	for i := 0; i < 3; i++ {
		below := tickstate.GrowthBelow(lowerTick.Initialized, pos.TickLowerIndex, p.TickCurrentIndex, rewardGrowthsGlobal[i], lowerTick.RewardGrowthsOutside[i])
		above := tickstate.GrowthAbove(upperTick.Initialized, pos.TickUpperIndex, p.TickCurrentIndex, rewardGrowthsGlobal[i], upperTick.RewardGrowthsOutside[i])
		rewardGrowthsInside[i] = tickstate.GrowthInside(rewardGrowthsGlobal[i], below, above)
	}

	posUpdate, err := position.NextModifyLiquidity(pos, liquidityDelta, feeGrowthInsideA, feeGrowthInsideB, rewardGrowthsInside)
	if err != nil {
		return LiquidityChange{}, err
	}

	amountA, amountB, err := position.TokenDeltas(
		p.TickCurrentIndex, p.SqrtPrice,
		pos.TickLowerIndex, pos.TickUpperIndex,
		fixedmath.IntToU128(liquidityDelta.Abs()),
		roundUp,
	)
	if err != nil {
		return LiquidityChange{}, err
	}

	next := p
	next.RewardInfos = nextRewardInfos
	next.RewardLastUpdatedTimestamp = timestamp
	if pos.TickLowerIndex <= p.TickCurrentIndex && p.TickCurrentIndex < pos.TickUpperIndex {
		nextLiquidity := fixedmath.U128ToInt(p.Liquidity).Add(liquidityDelta)
		if nextLiquidity.IsNegative() {
			return LiquidityChange{}, clmmerr.LiquidityUnderflow{}
		}
		next.Liquidity = fixedmath.IntToU128(nextLiquidity)
	}

	return LiquidityChange{
		Pool:      next,
		LowerTick: lowerUpdate.Tick,
		UpperTick: upperUpdate.Tick,
		Position:  posUpdate.Position,
		AmountA:   amountA,
		AmountB:   amountB,
	}, nil
}

// ApplyAccrualRefresh implements the collect_fees/collect_reward read path
// (§4.F): it recomputes fee-growth-inside and reward-growth-inside exactly
// as ApplyLiquidityChange does, but at a zero liquidity delta, so it never
// touches tick liquidity_net/liquidity_gross or the pool's active liquidity
// and works even when the position's liquidity is already zero.
func ApplyAccrualRefresh(
	p Pool,
	pos position.Position,
	lowerArray, upperArray tickarray.TickArray,
	timestamp uint64,
) (LiquidityChange, error) {
	nextRewardInfos, err := UpdateRewardGrowths(p, timestamp)
	if err != nil {
		return LiquidityChange{}, err
	}
	rewardGrowthsGlobal := [3]cosmath.Int{
		nextRewardInfos[0].GrowthGlobalX64,
		nextRewardInfos[1].GrowthGlobalX64,
		nextRewardInfos[2].GrowthGlobalX64,
	}

	lowerTick, err := lowerArray.GetTick(pos.TickLowerIndex)
	if err != nil {
		return LiquidityChange{}, err
	}
	upperTick, err := upperArray.GetTick(pos.TickUpperIndex)
	if err != nil {
		return LiquidityChange{}, err
	}

	growthBelowA := tickstate.GrowthBelow(lowerTick.Initialized, pos.TickLowerIndex, p.TickCurrentIndex, p.FeeGrowthGlobalA, lowerTick.FeeGrowthOutsideA)
	growthAboveA := tickstate.GrowthAbove(upperTick.Initialized, pos.TickUpperIndex, p.TickCurrentIndex, p.FeeGrowthGlobalA, upperTick.FeeGrowthOutsideA)
	feeGrowthInsideA := tickstate.GrowthInside(p.FeeGrowthGlobalA, growthBelowA, growthAboveA)

	growthBelowB := tickstate.GrowthBelow(lowerTick.Initialized, pos.TickLowerIndex, p.TickCurrentIndex, p.FeeGrowthGlobalB, lowerTick.FeeGrowthOutsideB)
	growthAboveB := tickstate.GrowthAbove(upperTick.Initialized, pos.TickUpperIndex, p.TickCurrentIndex, p.FeeGrowthGlobalB, upperTick.FeeGrowthOutsideB)
	feeGrowthInsideB := tickstate.GrowthInside(p.FeeGrowthGlobalB, growthBelowB, growthAboveB)

	var rewardGrowthsInside [3]cosmath.Int
	for i := 0; i < 3; i++ {
		below := tickstate.GrowthBelow(lowerTick.Initialized, pos.TickLowerIndex, p.TickCurrentIndex, rewardGrowthsGlobal[i], lowerTick.RewardGrowthsOutside[i])
		above := tickstate.GrowthAbove(upperTick.Initialized, pos.TickUpperIndex, p.TickCurrentIndex, rewardGrowthsGlobal[i], upperTick.RewardGrowthsOutside[i])
		rewardGrowthsInside[i] = tickstate.GrowthInside(rewardGrowthsGlobal[i], below, above)
	}

	posUpdate := position.RefreshAccrual(pos, feeGrowthInsideA, feeGrowthInsideB, rewardGrowthsInside)

	next := p
	next.RewardInfos = nextRewardInfos
	next.RewardLastUpdatedTimestamp = timestamp

	return LiquidityChange{
		Pool:      next,
		LowerTick: lowerTick,
		UpperTick: upperTick,
		Position:  posUpdate.Position,
	}, nil
}
