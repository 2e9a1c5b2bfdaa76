package fixedmath

import (
	"math/big"

	cosmath "cosmossdk.io/math"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
)

// MulDivFloor computes floor(a*b/d), following the teacher's whirlpoolMulDivFloor shape.
func MulDivFloor(a, b, d cosmath.Int) (cosmath.Int, error) {
	if d.IsZero() {
		return cosmath.Int{}, clmmerr.DivideByZero{}
	}
	return a.Mul(b).Quo(d), nil
}

// MulDivCeil computes ceil(a*b/d) for non-negative operands, following the
// teacher's whirlpoolMulDivCeil shape.
func MulDivCeil(a, b, d cosmath.Int) (cosmath.Int, error) {
	if d.IsZero() {
		return cosmath.Int{}, clmmerr.DivideByZero{}
	}
	numerator := a.Mul(b)
	return numerator.Add(d).Sub(cosmath.OneInt()).Quo(d), nil
}

// CheckedMulDiv computes floor(n0*n1/d) (or the ceiling, when roundUp is
// true) using an arbitrary-precision intermediate product, mirroring the
// widened-256-bit multiplication the original program performs with
// ethnum::U256. Returns DivideByZero for d == 0.
func CheckedMulDiv(n0, n1, d cosmath.Int, roundUp bool) (cosmath.Int, error) {
	if roundUp {
		return MulDivCeil(n0, n1, d)
	}
	return MulDivFloor(n0, n1, d)
}

// MulShiftRight computes floor((n0*n1) >> shift) over an arbitrary-precision
// intermediate, the building block for the sqrt-price table-multiplication
// method's positive-tick (Q96) branch.
func MulShiftRight(n0, n1 cosmath.Int, shift uint) cosmath.Int {
	product := new(big.Int).Mul(n0.BigInt(), n1.BigInt())
	product.Rsh(product, shift)
	return cosmath.NewIntFromBigInt(product)
}

// CeilDivision computes ceil(dividend/divisor) for non-negative integers.
func CeilDivision(dividend, divisor cosmath.Int) cosmath.Int {
	quotient := dividend.Quo(divisor)
	if quotient.Mul(divisor).Equal(dividend) {
		return quotient
	}
	return quotient.Add(cosmath.OneInt())
}

// FloorDivision computes floor(dividend/divisor) for a positive divisor,
// rounding toward negative infinity the way the original Rust source does
// (Go's native integer division truncates toward zero instead).
func FloorDivision(dividend, divisor int32) int32 {
	if divisor <= 0 {
		panic("fixedmath: divisor must be positive")
	}
	q := dividend / divisor
	r := dividend % divisor
	if r != 0 && (dividend < 0) != (divisor < 0) {
		q--
	}
	return q
}

// WrappingAddU128 adds two Q64.64 growth accumulators modulo 2^128, the
// "may wrap" behavior mandated for fee/reward growth globals.
func WrappingAddU128(a, b cosmath.Int) cosmath.Int {
	sum := new(big.Int).Add(a.BigInt(), b.BigInt())
	sum.Mod(sum, Q128.BigInt())
	return cosmath.NewIntFromBigInt(sum)
}

// WrappingSubU128 subtracts two Q64.64 growth accumulators modulo 2^128.
func WrappingSubU128(a, b cosmath.Int) cosmath.Int {
	diff := new(big.Int).Sub(a.BigInt(), b.BigInt())
	diff.Mod(diff, Q128.BigInt())
	if diff.Sign() < 0 {
		diff.Add(diff, Q128.BigInt())
	}
	return cosmath.NewIntFromBigInt(diff)
}

var q64Modulus = new(big.Int).Lsh(big.NewInt(1), 64)

// WrappingAddU64 adds a u64 fee/reward-owed accumulator to a (possibly wider)
// delta, wrapping modulo 2^64.
func WrappingAddU64(a, b cosmath.Int) cosmath.Int {
	sum := new(big.Int).Add(a.BigInt(), b.BigInt())
	sum.Mod(sum, q64Modulus)
	return cosmath.NewIntFromBigInt(sum)
}
