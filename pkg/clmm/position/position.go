// Package position implements position state (§3.4, §4.D): liquidity,
// fee/reward checkpoints, and the token deltas a liquidity change produces.
package position

import (
	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/fixedmath"
)

// RewardInfo tracks one of a position's up to three reward accumulators.
type RewardInfo struct {
	GrowthInsideCheckpoint cosmath.Int // Q64.64, wrapping
	AmountOwed             cosmath.Int // u64, wrapping
}

// Position mirrors the account fields named in §3.4; external identity
// references (whirlpool, position_mint) are left to the account layer.
type Position struct {
	Liquidity            cosmath.Int
	TickLowerIndex       int32
	TickUpperIndex       int32
	FeeGrowthCheckpointA cosmath.Int
	FeeGrowthCheckpointB cosmath.Int
	FeeOwedA             cosmath.Int
	FeeOwedB             cosmath.Int
	RewardInfos          [3]RewardInfo
}

// Zero returns a newly opened position at the given (already validated)
// bounds, with all accounting fields at zero.
func Zero(tickLowerIndex, tickUpperIndex int32) Position {
	zero := cosmath.ZeroInt()
	return Position{
		Liquidity:            zero,
		TickLowerIndex:       tickLowerIndex,
		TickUpperIndex:       tickUpperIndex,
		FeeGrowthCheckpointA: zero,
		FeeGrowthCheckpointB: zero,
		FeeOwedA:             zero,
		FeeOwedB:             zero,
		RewardInfos: [3]RewardInfo{
			{GrowthInsideCheckpoint: zero, AmountOwed: zero},
			{GrowthInsideCheckpoint: zero, AmountOwed: zero},
			{GrowthInsideCheckpoint: zero, AmountOwed: zero},
		},
	}
}

// Update is the proposed next state NextModifyLiquidity produces.
type Update struct {
	Position Position
}

// feeDelta computes (liquidity * (growthInside wrapping_sub checkpoint)) >> 64,
// defaulting to zero on multiplication overflow (§4.D: positions that skip a
// collect across the overflow point forfeit the fees accrued past it).
func feeDelta(liquidity, growthInside, checkpoint cosmath.Int) cosmath.Int {
	diff := fixedmath.WrappingSubU128(growthInside, checkpoint)
	shifted := fixedmath.MulShiftRight(liquidity, diff, 64)
	if shifted.BigInt().BitLen() > 64 {
		return cosmath.ZeroInt()
	}
	return shifted
}

// RefreshAccrual recomputes fee_owed/amount_owed from fresh growth-inside
// snapshots without touching liquidity. It is the collect_fees/collect_reward
// read path (§4.F): those entry points bypass NextModifyLiquidity's
// LiquidityZero guard since a closed-but-not-yet-collected position (liquidity
// == 0) must still be able to drain its owed balances.
func RefreshAccrual(
	pos Position,
	feeGrowthInsideA, feeGrowthInsideB cosmath.Int,
	rewardGrowthsInside [3]cosmath.Int,
) Update {
	next := pos

	feeDeltaA := feeDelta(pos.Liquidity, feeGrowthInsideA, pos.FeeGrowthCheckpointA)
	feeDeltaB := feeDelta(pos.Liquidity, feeGrowthInsideB, pos.FeeGrowthCheckpointB)
	next.FeeOwedA = fixedmath.WrappingAddU64(pos.FeeOwedA, feeDeltaA)
	next.FeeOwedB = fixedmath.WrappingAddU64(pos.FeeOwedB, feeDeltaB)
	next.FeeGrowthCheckpointA = feeGrowthInsideA
	next.FeeGrowthCheckpointB = feeGrowthInsideB

	for i := range next.RewardInfos {
		rd := feeDelta(pos.Liquidity, rewardGrowthsInside[i], pos.RewardInfos[i].GrowthInsideCheckpoint)
		next.RewardInfos[i].AmountOwed = fixedmath.WrappingAddU64(pos.RewardInfos[i].AmountOwed, rd)
		next.RewardInfos[i].GrowthInsideCheckpoint = rewardGrowthsInside[i]
	}

	return Update{Position: next}
}

// NextModifyLiquidity implements next_position_modify_liquidity (§4.D).
func NextModifyLiquidity(
	pos Position,
	liquidityDelta cosmath.Int,
	feeGrowthInsideA, feeGrowthInsideB cosmath.Int,
	rewardGrowthsInside [3]cosmath.Int,
) (Update, error) {
	if liquidityDelta.IsZero() && pos.Liquidity.IsZero() {
		return Update{}, clmmerr.LiquidityZero{}
	}

	upd := RefreshAccrual(pos, feeGrowthInsideA, feeGrowthInsideB, rewardGrowthsInside)
	next := upd.Position

	nextLiquidity := pos.Liquidity.Add(liquidityDelta)
	if nextLiquidity.IsNegative() {
		return Update{}, clmmerr.LiquidityUnderflow{}
	}
	if nextLiquidity.BigInt().BitLen() > 128 {
		return Update{}, clmmerr.LiquidityOverflow{}
	}
	next.Liquidity = nextLiquidity

	return Update{Position: next}, nil
}

// TokenDeltas implements §4.D.2: the (possibly one-sided) token amounts a
// liquidity_delta at the position's bounds requires, given the pool's
// current tick and sqrt price. roundUp selects the add-liquidity rounding
// (true) or the remove-liquidity rounding (false).
func TokenDeltas(
	currentTick int32,
	currentSqrtPrice uint128.Uint128,
	tickLowerIndex, tickUpperIndex int32,
	liquidity uint128.Uint128,
	roundUp bool,
) (amountA, amountB uint64, err error) {
	sqrtLower := fixedmath.SqrtPriceFromTick(tickLowerIndex)
	sqrtUpper := fixedmath.SqrtPriceFromTick(tickUpperIndex)

	switch {
	case currentTick < tickLowerIndex:
		amountA, err = fixedmath.GetAmountDeltaA(sqrtLower, sqrtUpper, liquidity, roundUp)
		return amountA, 0, err
	case currentTick < tickUpperIndex:
		amountA, err = fixedmath.GetAmountDeltaA(currentSqrtPrice, sqrtUpper, liquidity, roundUp)
		if err != nil {
			return 0, 0, err
		}
		amountB, err = fixedmath.GetAmountDeltaB(sqrtLower, currentSqrtPrice, liquidity, roundUp)
		return amountA, amountB, err
	default:
		amountB, err = fixedmath.GetAmountDeltaB(sqrtLower, sqrtUpper, liquidity, roundUp)
		return 0, amountB, err
	}
}
