package fixedmath

import (
	"math/big"

	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
)

func orderPrices(a, b uint128.Uint128) (lower, upper uint128.Uint128) {
	if a.Cmp(b) < 0 {
		return a, b
	}
	return b, a
}

func toU64(v *big.Int, label string) (uint64, error) {
	if v.Sign() < 0 || v.BitLen() > 64 {
		return 0, clmmerr.TokenMaxExceeded{Field: label}
	}
	return v.Uint64(), nil
}

// GetAmountDeltaA computes amount_delta_a = L*(upper-lower)*2^64 / (lower*upper),
// rounded per roundUp. Fails TokenMaxExceeded if the result does not fit u64.
func GetAmountDeltaA(currentSqrtPrice, targetSqrtPrice, liquidity uint128.Uint128, roundUp bool) (uint64, error) {
	lower, upper := orderPrices(currentSqrtPrice, targetSqrtPrice)
	diff := new(big.Int).Sub(upper.Big(), lower.Big())

	numerator := new(big.Int).Mul(liquidity.Big(), diff)
	numerator.Lsh(numerator, 64)

	denominator := new(big.Int).Mul(lower.Big(), upper.Big())
	if denominator.Sign() == 0 {
		return 0, clmmerr.DivideByZero{}
	}

	quotient, remainder := new(big.Int), new(big.Int)
	quotient.QuoRem(numerator, denominator, remainder)

	if roundUp && remainder.Sign() != 0 {
		quotient.Add(quotient, big.NewInt(1))
	}
	return toU64(quotient, "amount_delta_a")
}

// GetAmountDeltaB computes amount_delta_b = (L*(upper-lower)) >> 64, rounded
// per roundUp. Fails TokenMaxExceeded if the result does not fit u64.
func GetAmountDeltaB(currentSqrtPrice, targetSqrtPrice, liquidity uint128.Uint128, roundUp bool) (uint64, error) {
	lower, upper := orderPrices(currentSqrtPrice, targetSqrtPrice)
	diff := new(big.Int).Sub(upper.Big(), lower.Big())

	p := new(big.Int).Mul(liquidity.Big(), diff)
	result := new(big.Int).Rsh(p, 64)

	lowBits := new(big.Int).And(p, new(big.Int).SetUint64(^uint64(0)))
	if roundUp && lowBits.Sign() != 0 {
		result.Add(result, big.NewInt(1))
	}
	return toU64(result, "amount_delta_b")
}

// GetNextSqrtPriceFromA computes the next sqrt price after moving `amount`
// units of token A at fixed liquidity, rounding up (§4.A.3). amount==0 is the
// identity.
func GetNextSqrtPriceFromA(currentSqrtPrice, liquidity uint128.Uint128, amount uint64, specifiedInput bool) (uint128.Uint128, error) {
	if amount == 0 {
		return currentSqrtPrice, nil
	}
	amountBig := new(big.Int).SetUint64(amount)

	p := new(big.Int).Mul(currentSqrtPrice.Big(), amountBig)
	numerator := new(big.Int).Mul(liquidity.Big(), currentSqrtPrice.Big())
	numerator.Lsh(numerator, 64)

	liquidityShifted := new(big.Int).Lsh(liquidity.Big(), 64)
	denominator := new(big.Int)
	if specifiedInput {
		denominator.Add(liquidityShifted, p)
	} else {
		denominator.Sub(liquidityShifted, p)
	}
	if denominator.Sign() <= 0 {
		return uint128.Uint128{}, clmmerr.SqrtPriceOutOfBounds{}
	}

	quotient, remainder := new(big.Int), new(big.Int)
	quotient.QuoRem(numerator, denominator, remainder)
	if remainder.Sign() != 0 {
		quotient.Add(quotient, big.NewInt(1))
	}

	if quotient.Sign() < 0 || quotient.BitLen() > 128 {
		return uint128.Uint128{}, clmmerr.SqrtPriceOutOfBounds{}
	}
	return uint128.FromBig(quotient), nil
}

// GetNextSqrtPriceFromB computes the next sqrt price after moving `amount`
// units of token B at fixed liquidity, rounding down (§4.A.3). amount==0 is
// the identity.
func GetNextSqrtPriceFromB(currentSqrtPrice, liquidity uint128.Uint128, amount uint64, specifiedInput bool) (uint128.Uint128, error) {
	if amount == 0 {
		return currentSqrtPrice, nil
	}
	amountShifted := new(big.Int).Lsh(new(big.Int).SetUint64(amount), 64)

	quotient, remainder := new(big.Int), new(big.Int)
	quotient.QuoRem(amountShifted, liquidity.Big(), remainder)

	if !specifiedInput && remainder.Sign() != 0 {
		quotient.Add(quotient, big.NewInt(1))
	}

	sqrtPrice := new(big.Int).Set(currentSqrtPrice.Big())
	if specifiedInput {
		sqrtPrice.Add(sqrtPrice, quotient)
	} else {
		sqrtPrice.Sub(sqrtPrice, quotient)
	}
	if sqrtPrice.Sign() < 0 || sqrtPrice.BitLen() > 128 {
		return uint128.Uint128{}, clmmerr.SqrtPriceOutOfBounds{}
	}
	return uint128.FromBig(sqrtPrice), nil
}

// AdjustmentKind selects which denominator/numerator pair AdjustAmount uses.
type AdjustmentKind int

const (
	AdjustmentNone AdjustmentKind = iota
	AdjustmentSwapFee
	AdjustmentSlippage
	AdjustmentTransferFee
)

// Adjustment bundles the parameters of an AdjustAmount/InverseAdjustAmount
// call, mirroring the original program's AdjustmentType enum.
type Adjustment struct {
	Kind       AdjustmentKind
	Numerator  uint64 // fee_rate, slippage_tolerance_bps, or transfer fee_bps
	MaxFeeCap  cosmath.Int
}

func (a Adjustment) denominator() uint64 {
	if a.Kind == AdjustmentSwapFee {
		return FeeRateDenominator
	}
	return ProtocolFeeRateDenominator // 10000 bps
}

// AdjustAmount computes the amount on the other side of a proportional fee
// or slippage adjustment (adjust_amount in the original source): adjustUp
// grosses the amount up (e.g. amount-before-transfer-fee), adjustUp=false
// nets it down.
func AdjustAmount(amount cosmath.Int, adj Adjustment, adjustUp bool) cosmath.Int {
	if adj.Numerator == 0 {
		return amount
	}
	denom := cosmath.NewIntFromUint64(adj.denominator())
	num := cosmath.NewIntFromUint64(adj.Numerator)

	var p cosmath.Int
	if adjustUp {
		p = denom.Add(num)
	} else {
		p = denom.Sub(num)
	}

	numerator := amount.Mul(p)
	quotient := numerator.Quo(denom)
	remainder := numerator.Sub(quotient.Mul(denom))

	result := quotient
	if adjustUp && !remainder.IsZero() {
		result = result.Add(cosmath.OneInt())
	}

	var feeAmount cosmath.Int
	if adjustUp {
		feeAmount = result.Sub(amount)
	} else {
		feeAmount = amount.Sub(result)
	}

	if adj.Kind == AdjustmentTransferFee && !adj.MaxFeeCap.IsNil() && feeAmount.GTE(adj.MaxFeeCap) {
		if adjustUp {
			result = amount.Add(adj.MaxFeeCap)
		} else {
			result = amount.Sub(adj.MaxFeeCap)
		}
	}
	return result
}

// InverseAdjustAmount computes the pre-adjustment amount from a
// post-adjustment amount (inverse_adjust_amount); ties round to the smaller
// original amount.
func InverseAdjustAmount(amount cosmath.Int, adj Adjustment, adjustUp bool) cosmath.Int {
	if amount.IsZero() || adj.Numerator == 0 {
		return amount
	}
	denom := cosmath.NewIntFromUint64(adj.denominator())
	num := cosmath.NewIntFromUint64(adj.Numerator)

	var d cosmath.Int
	if adjustUp {
		d = denom.Add(num)
	} else {
		d = denom.Sub(num)
	}

	numerator := amount.Mul(denom)
	quotient := numerator.Quo(d)
	remainder := numerator.Sub(quotient.Mul(d))

	result := quotient
	if !adjustUp && !remainder.IsZero() {
		result = result.Add(cosmath.OneInt())
	}

	var feeAmount cosmath.Int
	if adjustUp {
		feeAmount = amount.Sub(result)
	} else {
		feeAmount = result.Sub(amount)
	}

	if adj.Kind == AdjustmentTransferFee && !adj.MaxFeeCap.IsNil() && feeAmount.GTE(adj.MaxFeeCap) {
		if adjustUp {
			result = amount.Sub(adj.MaxFeeCap)
		} else {
			result = amount.Add(adj.MaxFeeCap)
		}
	}
	return result
}
