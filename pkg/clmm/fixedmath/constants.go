// Package fixedmath implements the Q64.64 fixed-point arithmetic that
// underlies every price, liquidity, and growth computation in the engine:
// tick-index/sqrt-price conversion via the table-multiplication method,
// directional-rounding amount deltas, and the checked mul-div helpers that
// widen through math/big to avoid overflow.
package fixedmath

import (
	"math/big"

	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"
)

const (
	// MinTickIndex and MaxTickIndex bound every tick-indexed quantity in the pool.
	MinTickIndex = -443636
	MaxTickIndex = 443636

	// TickArraySize is the number of ticks packed into one tick array chunk.
	TickArraySize = 88

	// FullRangeOnlyTickSpacingThreshold marks tick spacings ("splash pools")
	// that only allow full-range positions.
	FullRangeOnlyTickSpacingThreshold = 2 << 15

	// FeeRateDenominator expresses fee_rate as hundredths of a basis point
	// (1e-6).
	FeeRateDenominator = 1_000_000

	// FeeRateHardLimit is the maximum combined (static + adaptive) fee rate,
	// in the same units as FeeRateDenominator.
	FeeRateHardLimit = 100_000

	// ProtocolFeeRateDenominator expresses protocol_fee_rate in basis points.
	ProtocolFeeRateDenominator = 10_000

	// MaxProtocolFeeRate caps protocol_fee_rate at 25% of the swap fee.
	MaxProtocolFeeRate = 2_500
)

// MinSqrtPrice and MaxSqrtPrice are the Q64.64 bounds a pool's sqrt_price
// must always satisfy; MaxSqrtPrice corresponds to tick_index_to_sqrt_price(MaxTickIndex).
var (
	MinSqrtPrice = uint128.From64(4295048016)
	MaxSqrtPrice = mustParseU128("79226673515401279992447579055")
)

// Q64 is 2^64, the Q64.64 fixed-point scale factor.
var Q64 = cosmath.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 64))

// Q128 is 2^128, the modulus that wrapping u128 arithmetic wraps around.
var Q128 = cosmath.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 128))

// MaxU64 is the largest value a u64 amount field may hold.
var MaxU64 = cosmath.NewIntFromUint64(^uint64(0))

func mustParseU128(s string) uint128.Uint128 {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("fixedmath: invalid decimal literal " + s)
	}
	return uint128.FromBig(b)
}

// U128ToInt widens a stored Q64.64/u128 value into an arbitrary-precision
// working integer.
func U128ToInt(v uint128.Uint128) cosmath.Int {
	return cosmath.NewIntFromBigInt(v.Big())
}

// IntToU128 narrows a working integer back into u128 storage, wrapping
// modulo 2^128 as the global growth accumulators require (never saturating).
func IntToU128(v cosmath.Int) uint128.Uint128 {
	b := new(big.Int).Mod(v.BigInt(), Q128.BigInt())
	if b.Sign() < 0 {
		b.Add(b, Q128.BigInt())
	}
	return uint128.FromBig(b)
}
