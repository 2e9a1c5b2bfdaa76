// Package oracle implements the adaptive-fee volatility oracle (§3.5, §4.H):
// the reference-update state machine that tracks short-term volatility and
// the fee-rate manager a swap consults each step.
package oracle

import (
	"math/big"

	"lukechampine.com/uint128"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/fixedmath"
)

// Constants are set once at pool creation and never mutated (§3.5).
type Constants struct {
	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	AdaptiveFeeControlFactor uint32
	MaxVolatilityAccumulator uint32
	TickGroupSize            uint16
	MajorSwapThresholdTicks  uint16
	TradeEnableTimestamp     *uint64
}

// Variables are mutated on every swap (§3.5).
type Variables struct {
	LastReferenceUpdateTimestamp uint64
	LastMajorSwapTimestamp       uint64
	VolatilityReference          uint32
	TickGroupIndexReference      int32
	VolatilityAccumulator        uint32
}

// ADAPTIVE_FEE_CONTROL_FACTOR_DENOMINATOR, REDUCTION_FACTOR_DENOMINATOR,
// VOLATILITY_ACCUMULATOR_SCALE_FACTOR, and MAX_REFERENCE_AGE are the
// program-wide scale constants the original adaptive-fee module defines
// alongside the per-pool Constants (the retrieval pack's original_source
// copy of the crate omitted the file that defines these as it only kept
// source directly under the adaptive-fee module; values here match the
// published Orca Whirlpools adaptive-fee design).
const (
	adaptiveFeeControlFactorDenominator = 10_000
	reductionFactorDenominator          = 10_000
	volatilityAccumulatorScaleFactor    = 10_000
	maxReferenceAge                     = 3_600 // seconds
	adaptiveFeeConstantScale            = 10_000
)

func tickGroupIndex(tickIndex int32, tickGroupSize uint16) int32 {
	return fixedmath.FloorDivision(tickIndex, int32(tickGroupSize))
}

// UpdateReference implements §4.H.1: the reference-window reset/decay
// state machine run once per swap, before the per-step loop begins.
func UpdateReference(c Constants, v Variables, currentTickIndex int32, now uint64) (Variables, error) {
	maxTs := v.LastReferenceUpdateTimestamp
	if v.LastMajorSwapTimestamp > maxTs {
		maxTs = v.LastMajorSwapTimestamp
	}
	if now < maxTs {
		return v, clmmerr.InvalidTimestamp{Now: now, Last: maxTs}
	}

	currentGroup := tickGroupIndex(currentTickIndex, c.TickGroupSize)
	next := v

	if now-v.LastReferenceUpdateTimestamp > maxReferenceAge {
		next.TickGroupIndexReference = currentGroup
		next.VolatilityReference = 0
		next.LastReferenceUpdateTimestamp = now
		return next, nil
	}

	elapsed := now - maxTs
	switch {
	case elapsed < uint64(c.FilterPeriod):
		// high-frequency continuation: references unchanged.
	case elapsed < uint64(c.DecayPeriod):
		next.TickGroupIndexReference = currentGroup
		next.VolatilityReference = v.VolatilityAccumulator * uint32(c.ReductionFactor) / reductionFactorDenominator
		next.LastReferenceUpdateTimestamp = now
	default:
		next.TickGroupIndexReference = currentGroup
		next.VolatilityReference = 0
		next.LastReferenceUpdateTimestamp = now
	}
	return next, nil
}

// UpdateVolatilityAccumulator implements §4.H.2, run once per swap step
// after the tick group for that step is known.
func UpdateVolatilityAccumulator(c Constants, v Variables, currentTickGroupIndex int32) Variables {
	delta := currentTickGroupIndex - v.TickGroupIndexReference
	if delta < 0 {
		delta = -delta
	}
	accumulated := v.VolatilityReference + uint32(delta)*volatilityAccumulatorScaleFactor
	next := v
	if accumulated > c.MaxVolatilityAccumulator {
		next.VolatilityAccumulator = c.MaxVolatilityAccumulator
	} else {
		next.VolatilityAccumulator = accumulated
	}
	return next
}

// IsMajorSwap reports whether the larger of the pre/post sqrt prices
// crossed the major-swap threshold (§4.H.5), grounded on
// AdaptiveFeeVariablesFacade::is_major_swap: compare the larger sqrt price
// against smaller * sqrt_price_from_tick(threshold) >> 64.
func IsMajorSwap(c Constants, preSqrtPrice, postSqrtPrice uint128.Uint128) bool {
	larger, smaller := preSqrtPrice, postSqrtPrice
	if smaller.Cmp(larger) > 0 {
		larger, smaller = smaller, larger
	}
	thresholdRatio := fixedmath.SqrtPriceFromTick(int32(c.MajorSwapThresholdTicks))
	target := fixedmath.MulShiftRight(fixedmath.U128ToInt(smaller), fixedmath.U128ToInt(thresholdRatio), 64)
	return fixedmath.U128ToInt(larger).GTE(target)
}

// UpdateMajorSwapTimestamp implements §4.H.5: sets last_major_swap_timestamp
// to now when IsMajorSwap holds, otherwise leaves Variables unchanged.
func UpdateMajorSwapTimestamp(c Constants, v Variables, preSqrtPrice, postSqrtPrice uint128.Uint128, now uint64) Variables {
	next := v
	if IsMajorSwap(c, preSqrtPrice, postSqrtPrice) {
		next.LastMajorSwapTimestamp = now
	}
	return next
}

// ComputeAdaptiveFeeRate implements §4.H.4's surcharge formula, clamped to
// FEE_RATE_HARD_LIMIT.
func ComputeAdaptiveFeeRate(c Constants, v Variables) uint32 {
	crossed := new(big.Int).SetUint64(uint64(v.VolatilityAccumulator) * uint64(c.TickGroupSize))
	squared := new(big.Int).Mul(crossed, crossed)
	denom := new(big.Int).SetUint64(uint64(adaptiveFeeControlFactorDenominator) * uint64(adaptiveFeeConstantScale) * uint64(adaptiveFeeConstantScale))
	numerator := new(big.Int).Mul(new(big.Int).SetUint64(uint64(c.AdaptiveFeeControlFactor)), squared)

	rate, rem := new(big.Int).QuoRem(numerator, denom, new(big.Int))
	if rem.Sign() != 0 {
		rate.Add(rate, big.NewInt(1))
	}
	if rate.Cmp(big.NewInt(fixedmath.FeeRateHardLimit)) > 0 {
		return fixedmath.FeeRateHardLimit
	}
	return uint32(rate.Uint64())
}

// GetTotalFeeRate implements §4.H.4's combination step: static plus
// adaptive, re-clamped to FEE_RATE_HARD_LIMIT.
func GetTotalFeeRate(c Constants, v Variables, staticFeeRate uint32) uint32 {
	total := staticFeeRate + ComputeAdaptiveFeeRate(c, v)
	if total > fixedmath.FeeRateHardLimit {
		return fixedmath.FeeRateHardLimit
	}
	return total
}

// maxTickGroupIndexDelta bounds how far the tick-group index may wander
// from TickGroupIndexReference before the volatility accumulator saturates
// (the "core range" adaptive_fee.rs precomputes at FeeRateManager::new).
func maxTickGroupIndexDelta(c Constants, v Variables) int32 {
	if v.VolatilityReference >= c.MaxVolatilityAccumulator {
		return 0
	}
	remaining := c.MaxVolatilityAccumulator - v.VolatilityReference
	delta := remaining / volatilityAccumulatorScaleFactor
	if remaining%volatilityAccumulatorScaleFactor != 0 {
		delta++
	}
	return int32(delta)
}

// Manager is the per-swap adaptive-fee session (FeeRateManager in the
// original source): it tracks the current tick group across swap steps and
// exposes the bounded target / advance operations the swap loop calls.
type Manager struct {
	active          bool
	aToB            bool
	staticFeeRate   uint32
	constants       Constants
	variables       Variables
	tickGroupIndex  int32
	coreRangeLower  int32
	coreRangeUpper  int32
}

// NewStatic builds a Manager for a pool with no adaptive-fee oracle: every
// step uses the pool's static fee rate unmodified.
func NewStatic(staticFeeRate uint16) *Manager {
	return &Manager{active: false, staticFeeRate: uint32(staticFeeRate)}
}

// NewAdaptive builds a Manager for a swap against a pool with an active
// adaptive-fee oracle, per FeeRateManager::new: computes the initial tick
// group and the core range the volatility accumulator can move within
// before UpdateReference (run by the caller beforehand) would need to run
// again.
func NewAdaptive(aToB bool, currentTickIndex int32, staticFeeRate uint16, c Constants, v Variables) *Manager {
	group := tickGroupIndex(currentTickIndex, c.TickGroupSize)
	maxDelta := maxTickGroupIndexDelta(c, v)
	m := &Manager{
		active:         true,
		aToB:           aToB,
		staticFeeRate:  uint32(staticFeeRate),
		constants:      c,
		variables:      v,
		tickGroupIndex: group,
		coreRangeLower: v.TickGroupIndexReference - maxDelta,
		coreRangeUpper: v.TickGroupIndexReference + maxDelta,
	}
	// update_volatility_accumulator is always called at least once, even if
	// the swap loop never advances a step (adaptive_fee.rs), so the first
	// step's TotalFeeRate() already reflects the starting tick group instead
	// of the stale stored VolatilityAccumulator.
	m.updateVolatilityAccumulator()
	return m
}

// TotalFeeRate returns the step's combined fee rate (§4.H.4).
func (m *Manager) TotalFeeRate() uint32 {
	if !m.active {
		return m.staticFeeRate
	}
	return GetTotalFeeRate(m.constants, m.variables, m.staticFeeRate)
}

// GetBoundedSqrtPriceTarget implements §4.H.3: clamps targetSqrtPrice to the
// current tick group's boundary when the accumulator could still change
// within this group, signalling skip=true when it did.
func (m *Manager) GetBoundedSqrtPriceTarget(targetSqrtPrice uint128.Uint128, liquidity uint128.Uint128) (uint128.Uint128, bool) {
	if !m.active || m.constants.AdaptiveFeeControlFactor == 0 || liquidity.IsZero() {
		return targetSqrtPrice, false
	}
	if m.tickGroupIndex < m.coreRangeLower || m.tickGroupIndex > m.coreRangeUpper {
		return targetSqrtPrice, false
	}

	var boundaryTick int32
	if m.aToB {
		boundaryTick = m.tickGroupIndex * int32(m.constants.TickGroupSize)
	} else {
		boundaryTick = (m.tickGroupIndex + 1) * int32(m.constants.TickGroupSize)
	}
	if boundaryTick < fixedmath.MinTickIndex {
		boundaryTick = fixedmath.MinTickIndex
	}
	if boundaryTick > fixedmath.MaxTickIndex {
		boundaryTick = fixedmath.MaxTickIndex
	}
	boundarySqrtPrice := fixedmath.SqrtPriceFromTick(boundaryTick)

	if m.aToB {
		if boundarySqrtPrice.Cmp(targetSqrtPrice) > 0 {
			return targetSqrtPrice, false
		}
		return boundarySqrtPrice, true
	}
	if boundarySqrtPrice.Cmp(targetSqrtPrice) < 0 {
		return targetSqrtPrice, false
	}
	return boundarySqrtPrice, true
}

// AdvanceTickGroup moves the tick group by one in the swap's direction of
// travel, the normal (non-skip) per-step advance.
func (m *Manager) AdvanceTickGroup() {
	if !m.active {
		return
	}
	if m.aToB {
		m.tickGroupIndex--
	} else {
		m.tickGroupIndex++
	}
	m.updateVolatilityAccumulator()
}

// AdvanceTickGroupAfterSkip recomputes the tick group from the actual
// post-step sqrt price after GetBoundedSqrtPriceTarget signalled skip=true.
func (m *Manager) AdvanceTickGroupAfterSkip(postStepSqrtPrice uint128.Uint128) {
	if !m.active {
		return
	}
	tick := fixedmath.TickFromSqrtPrice(postStepSqrtPrice)
	m.tickGroupIndex = tickGroupIndex(tick, m.constants.TickGroupSize)
	m.updateVolatilityAccumulator()
}

func (m *Manager) updateVolatilityAccumulator() {
	m.variables = UpdateVolatilityAccumulator(m.constants, m.variables, m.tickGroupIndex)
}

// Variables returns the oracle variables as they stand after the swap's
// steps; the caller still applies UpdateMajorSwapTimestamp once the swap's
// pre/post sqrt prices are known.
func (m *Manager) Variables() Variables { return m.variables }

// Constants returns the oracle's immutable per-pool parameters, needed by
// the caller to run UpdateMajorSwapTimestamp after the swap completes.
func (m *Manager) Constants() Constants { return m.constants }

// Active reports whether this Manager is backed by a live adaptive-fee
// oracle (true) or is a passthrough for a static-fee pool (false).
func (m *Manager) Active() bool { return m.active }
