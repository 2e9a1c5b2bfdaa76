// Package swap implements the swap manager (§4.G): the per-step loop that
// walks the sparse tick-array sequence, applying the adaptive-fee oracle
// (§4.H) and tick-crossing (§4.C) along the way.
package swap

import (
	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/fixedmath"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/oracle"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/pool"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/tickarray"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/tickstate"
)

// Params bundles a swap call's inputs (§4.G's public contract).
type Params struct {
	Pool                   pool.Pool
	Sequence               []tickarray.TickArray
	Amount                 uint64
	SqrtPriceLimit         uint128.Uint128
	AmountSpecifiedIsInput bool
	AToB                   bool
	Timestamp              uint64
	FeeManager             *oracle.Manager // nil is treated as a static-fee no-op
}

// Result is PostSwapUpdate (§4.G): everything the caller writes back to the
// pool, the crossed ticks, and (if adaptive) the oracle.
type Result struct {
	AmountA                 uint64
	AmountB                 uint64
	NextLiquidity           uint128.Uint128
	NextTickIndex           int32
	NextSqrtPrice           uint128.Uint128
	NextFeeGrowthGlobalA    cosmath.Int
	NextFeeGrowthGlobalB    cosmath.Int
	NextRewardGrowthsGlobal [3]cosmath.Int
	NextProtocolFeeOwedA    cosmath.Int
	NextProtocolFeeOwedB    cosmath.Int
	LPFee                   uint64
	TickUpdates             map[int32]tickstate.Tick
	NextOracleVariables     oracle.Variables
}

type stepResult struct {
	amountIn  uint64
	amountOut uint64
	nextSqrt  uint128.Uint128
	feeAmount uint64
}

// Swap implements the §4.G algorithm end to end.
func Swap(p Params) (Result, error) {
	if p.Amount == 0 {
		return Result{}, clmmerr.ZeroTradableAmount{}
	}

	pl := p.Pool
	if err := fixedmath.ValidateSqrtPriceBounds(pl.SqrtPrice); err != nil {
		return Result{}, err
	}

	sqrtPriceLimit, err := resolveSqrtPriceLimit(p)
	if err != nil {
		return Result{}, err
	}

	nextRewardInfos, err := pool.UpdateRewardGrowths(pl, p.Timestamp)
	if err != nil {
		return Result{}, err
	}
	rewardGrowthsGlobal := [3]cosmath.Int{
		nextRewardInfos[0].GrowthGlobalX64,
		nextRewardInfos[1].GrowthGlobalX64,
		nextRewardInfos[2].GrowthGlobalX64,
	}

	feeManager := p.FeeManager
	if feeManager == nil {
		feeManager = oracle.NewStatic(pl.FeeRate)
	}

	remaining := cosmath.NewIntFromUint64(p.Amount)
	calculated := cosmath.ZeroInt()
	currentSqrt := pl.SqrtPrice
	currentTick := pl.TickCurrentIndex
	currentLiquidity := pl.Liquidity
	feeGrowthGlobalA := pl.FeeGrowthGlobalA
	feeGrowthGlobalB := pl.FeeGrowthGlobalB
	protocolFeeOwedA := pl.ProtocolFeeOwedA
	protocolFeeOwedB := pl.ProtocolFeeOwedB
	totalLPFee := cosmath.ZeroInt()

	tickUpdates := make(map[int32]tickstate.Tick)

	for remaining.GT(cosmath.ZeroInt()) && currentSqrt.Cmp(sqrtPriceLimit) != 0 {
		nextTickIndex, nextTick, nextTickSqrt, hasNext := findNextInitializedTick(p.Sequence, currentTick, p.AToB)
		if !hasNext {
			return Result{}, clmmerr.InvalidTickArraySequence{TickIndex: currentTick}
		}

		targetSqrt := clampToLimit(nextTickSqrt, sqrtPriceLimit, p.AToB)
		targetSqrt, skip := feeManager.GetBoundedSqrtPriceTarget(targetSqrt, currentLiquidity)

		feeRate := feeManager.TotalFeeRate()

		step, err := computeSwapStep(currentSqrt, targetSqrt, currentLiquidity, remaining, feeRate, p.AmountSpecifiedIsInput, p.AToB)
		if err != nil {
			return Result{}, err
		}

		if p.AmountSpecifiedIsInput {
			remaining = remaining.Sub(cosmath.NewIntFromUint64(step.amountIn + step.feeAmount))
			calculated = calculated.Add(cosmath.NewIntFromUint64(step.amountOut))
		} else {
			remaining = remaining.Sub(cosmath.NewIntFromUint64(step.amountOut))
			calculated = calculated.Add(cosmath.NewIntFromUint64(step.amountIn + step.feeAmount))
		}

		protocolFeeRate := cosmath.NewIntFromUint64(step.feeAmount).MulRaw(int64(pl.ProtocolFeeRate)).QuoRaw(fixedmath.ProtocolFeeRateDenominator)
		lpFeeAmount := cosmath.NewIntFromUint64(step.feeAmount).Sub(protocolFeeRate)
		totalLPFee = totalLPFee.Add(lpFeeAmount)

		if p.AToB {
			protocolFeeOwedA = pool.AddProtocolFeeSaturating(protocolFeeOwedA, protocolFeeRate)
		} else {
			protocolFeeOwedB = pool.AddProtocolFeeSaturating(protocolFeeOwedB, protocolFeeRate)
		}

		if !currentLiquidity.IsZero() {
			feeGrowthDelta, _ := fixedmath.MulDivFloor(lpFeeAmount, fixedmath.Q64, fixedmath.U128ToInt(currentLiquidity))
			if p.AToB {
				feeGrowthGlobalA = fixedmath.WrappingAddU128(feeGrowthGlobalA, feeGrowthDelta)
			} else {
				feeGrowthGlobalB = fixedmath.WrappingAddU128(feeGrowthGlobalB, feeGrowthDelta)
			}
		}

		crossed := step.nextSqrt.Cmp(nextTickSqrt) == 0
		if crossed {
			updated := tickUpdates[nextTickIndex]
			if _, ok := tickUpdates[nextTickIndex]; !ok {
				updated = nextTick
			}
			updated = tickstate.CrossUpdate(updated, feeGrowthGlobalA, feeGrowthGlobalB, rewardGrowthsGlobal)
			tickUpdates[nextTickIndex] = updated

			netDelta := tickstate.LiquidityNetSigned(updated, p.AToB)
			nextLiq := fixedmath.U128ToInt(currentLiquidity).Add(netDelta)
			if nextLiq.IsNegative() {
				nextLiq = cosmath.ZeroInt()
			}
			currentLiquidity = fixedmath.IntToU128(nextLiq)

			if p.AToB {
				currentTick = nextTickIndex - 1
			} else {
				currentTick = nextTickIndex
			}
			if skip {
				feeManager.AdvanceTickGroupAfterSkip(step.nextSqrt)
			} else {
				feeManager.AdvanceTickGroup()
			}
		} else if step.nextSqrt.Cmp(currentSqrt) != 0 {
			currentTick = fixedmath.TickFromSqrtPrice(step.nextSqrt)
			if skip {
				feeManager.AdvanceTickGroupAfterSkip(step.nextSqrt)
			} else {
				feeManager.AdvanceTickGroup()
			}
		}

		currentSqrt = step.nextSqrt
	}

	preSqrt := pl.SqrtPrice
	postSqrt := currentSqrt
	oracleVars := feeManager.Variables()
	if feeManager.Active() {
		oracleVars = oracle.UpdateMajorSwapTimestamp(feeManager.Constants(), oracleVars, preSqrt, postSqrt, p.Timestamp)
	}

	amountIn := cosmath.NewIntFromUint64(p.Amount).Sub(remaining)
	var amountA, amountB cosmath.Int
	if p.AToB {
		amountA, amountB = amountIn, calculated
	} else {
		amountA, amountB = calculated, amountIn
	}
	if !p.AmountSpecifiedIsInput {
		if p.AToB {
			amountA, amountB = calculated, amountIn
		} else {
			amountA, amountB = amountIn, calculated
		}
	}

	return Result{
		AmountA:                 amountA.Uint64(),
		AmountB:                 amountB.Uint64(),
		NextLiquidity:           currentLiquidity,
		NextTickIndex:           currentTick,
		NextSqrtPrice:           currentSqrt,
		NextFeeGrowthGlobalA:    feeGrowthGlobalA,
		NextFeeGrowthGlobalB:    feeGrowthGlobalB,
		NextRewardGrowthsGlobal: rewardGrowthsGlobal,
		NextProtocolFeeOwedA:    protocolFeeOwedA,
		NextProtocolFeeOwedB:    protocolFeeOwedB,
		LPFee:                   totalLPFee.Uint64(),
		TickUpdates:             tickUpdates,
		NextOracleVariables:     oracleVars,
	}, nil
}

func resolveSqrtPriceLimit(p Params) (uint128.Uint128, error) {
	limit := p.SqrtPriceLimit
	if limit.IsZero() {
		if p.AToB {
			return fixedmath.MinSqrtPrice, nil
		}
		return fixedmath.MaxSqrtPrice, nil
	}
	if limit.Cmp(fixedmath.MinSqrtPrice) < 0 || limit.Cmp(fixedmath.MaxSqrtPrice) > 0 {
		return uint128.Uint128{}, clmmerr.SqrtPriceOutOfBounds{SqrtPrice: fixedmath.U128ToInt(limit)}
	}
	if p.AToB && limit.Cmp(p.Pool.SqrtPrice) >= 0 {
		return uint128.Uint128{}, clmmerr.InvalidSqrtPriceLimitDirection{AToB: p.AToB}
	}
	if !p.AToB && limit.Cmp(p.Pool.SqrtPrice) <= 0 {
		return uint128.Uint128{}, clmmerr.InvalidSqrtPriceLimitDirection{AToB: p.AToB}
	}
	return limit, nil
}

func clampToLimit(nextTickSqrt, limit uint128.Uint128, aToB bool) uint128.Uint128 {
	if aToB {
		if limit.Cmp(nextTickSqrt) > 0 {
			return limit
		}
		return nextTickSqrt
	}
	if limit.Cmp(nextTickSqrt) < 0 {
		return limit
	}
	return nextTickSqrt
}

func findNextInitializedTick(sequence []tickarray.TickArray, currentTick int32, aToB bool) (int32, tickstate.Tick, uint128.Uint128, bool) {
	for _, arr := range sequence {
		idx, tick, ok := arr.NextInitializedTick(currentTick, aToB)
		if ok {
			return idx, tick, fixedmath.SqrtPriceFromTick(idx), true
		}
	}
	return 0, tickstate.Tick{}, uint128.Uint128{}, false
}

// computeSwapStep implements §4.G step d: compute_swap_step from the
// original source, specialized to the fixed-point types this package uses.
func computeSwapStep(
	currentSqrt, targetSqrt uint128.Uint128,
	liquidity uint128.Uint128,
	remaining cosmath.Int,
	feeRate uint32,
	specifiedInput, aToB bool,
) (stepResult, error) {
	fixedDelta, err := amountFixedDelta(currentSqrt, targetSqrt, liquidity, aToB, specifiedInput)
	if err != nil {
		return stepResult{}, err
	}

	var amountCalc cosmath.Int
	if specifiedInput {
		amountCalc = fixedmath.AdjustAmount(remaining, fixedmath.Adjustment{Kind: fixedmath.AdjustmentSwapFee, Numerator: uint64(feeRate)}, false)
	} else {
		amountCalc = remaining
	}

	reachesTarget := amountCalc.GTE(cosmath.NewIntFromUint64(fixedDelta))

	var nextSqrt uint128.Uint128
	var amountFixed uint64
	if reachesTarget {
		nextSqrt = targetSqrt
		amountFixed = fixedDelta
	} else {
		amt := amountCalc
		next, err := nextSqrtPriceFromAmount(currentSqrt, liquidity, amt, aToB, specifiedInput)
		if err != nil {
			return stepResult{}, err
		}
		nextSqrt = next
		amountFixed, err = amountFixedDelta(currentSqrt, nextSqrt, liquidity, aToB, specifiedInput)
		if err != nil {
			return stepResult{}, err
		}
	}

	unfixed, err := amountUnfixedDelta(currentSqrt, nextSqrt, liquidity, aToB, specifiedInput)
	if err != nil {
		return stepResult{}, err
	}

	var amountIn, amountOut uint64
	if specifiedInput {
		amountIn, amountOut = amountFixed, unfixed
	} else {
		amountIn, amountOut = unfixed, amountFixed
		remainingU64 := remaining.Uint64()
		if amountOut > remainingU64 {
			amountOut = remainingU64
		}
	}

	var feeAmount uint64
	if specifiedInput && !reachesTarget {
		feeAmount = remaining.Sub(cosmath.NewIntFromUint64(amountIn)).Uint64()
	} else {
		// fee_amount = ceil(amount_in * F / (FEE_RATE_DENOMINATOR - F)) (§4.G step d).
		denom := cosmath.NewIntFromUint64(fixedmath.FeeRateDenominator - uint64(feeRate))
		if denom.IsZero() {
			feeAmount = 0
		} else {
			numerator := cosmath.NewIntFromUint64(amountIn).MulRaw(int64(feeRate))
			feeAmount = fixedmath.CeilDivision(numerator, denom).Uint64()
		}
	}

	return stepResult{amountIn: amountIn, amountOut: amountOut, nextSqrt: nextSqrt, feeAmount: feeAmount}, nil
}

// amountFixedDelta dispatches to amount-delta-a or -b based on whether the
// fixed side (a_to_b == specified_input) is token A.
func amountFixedDelta(sqrtA, sqrtB, liquidity uint128.Uint128, aToB, specifiedInput bool) (uint64, error) {
	roundUp := specifiedInput
	if aToB == specifiedInput {
		return fixedmath.GetAmountDeltaA(sqrtA, sqrtB, liquidity, roundUp)
	}
	return fixedmath.GetAmountDeltaB(sqrtA, sqrtB, liquidity, roundUp)
}

func amountUnfixedDelta(sqrtA, sqrtB, liquidity uint128.Uint128, aToB, specifiedInput bool) (uint64, error) {
	roundUp := !specifiedInput
	if aToB == specifiedInput {
		return fixedmath.GetAmountDeltaB(sqrtA, sqrtB, liquidity, roundUp)
	}
	return fixedmath.GetAmountDeltaA(sqrtA, sqrtB, liquidity, roundUp)
}

func nextSqrtPriceFromAmount(currentSqrt, liquidity uint128.Uint128, amount cosmath.Int, aToB, specifiedInput bool) (uint128.Uint128, error) {
	amt := amount.Uint64()
	if aToB == specifiedInput {
		return fixedmath.GetNextSqrtPriceFromA(currentSqrt, liquidity, amt, specifiedInput)
	}
	return fixedmath.GetNextSqrtPriceFromB(currentSqrt, liquidity, amt, specifiedInput)
}
