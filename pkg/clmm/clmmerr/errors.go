// Package clmmerr defines the typed error taxonomy the concentrated
// liquidity core raises. Every kind gets its own struct carrying the
// offending values, so callers can errors.As for specifics instead of
// string-matching, mirroring the typed-error style of the pack's Osmosis
// concentrated-liquidity module (e.g. cltypes.PositionNotFoundError).
package clmmerr

import (
	"fmt"

	cosmath "cosmossdk.io/math"
)

type ZeroTradableAmount struct{}

func (ZeroTradableAmount) Error() string { return "swap amount must be greater than zero" }

type SqrtPriceOutOfBounds struct {
	SqrtPrice cosmath.Int
}

func (e SqrtPriceOutOfBounds) Error() string {
	return fmt.Sprintf("sqrt price %s out of bounds", intString(e.SqrtPrice))
}

type InvalidSqrtPriceLimitDirection struct {
	AToB bool
}

func (e InvalidSqrtPriceLimitDirection) Error() string {
	return fmt.Sprintf("sqrt price limit on wrong side of current price (a_to_b=%v)", e.AToB)
}

type InvalidTickArraySequence struct {
	TickIndex int32
}

func (e InvalidTickArraySequence) Error() string {
	return fmt.Sprintf("tick arrays do not cover tick index %d", e.TickIndex)
}

type TickNotFound struct {
	TickIndex int32
}

func (e TickNotFound) Error() string {
	return fmt.Sprintf("tick index %d not addressable in array", e.TickIndex)
}

type InvalidTickIndex struct {
	TickIndex int32
	Reason    string
}

func (e InvalidTickIndex) Error() string {
	return fmt.Sprintf("invalid tick index %d: %s", e.TickIndex, e.Reason)
}

type InvalidTimestamp struct {
	Now  uint64
	Last uint64
}

func (e InvalidTimestamp) Error() string {
	return fmt.Sprintf("timestamp %d precedes last update %d", e.Now, e.Last)
}

type LiquidityZero struct{}

func (LiquidityZero) Error() string { return "cannot refresh a position with zero liquidity delta and zero balance" }

type LiquidityOverflow struct{}

func (LiquidityOverflow) Error() string { return "liquidity overflow" }

type LiquidityUnderflow struct{}

func (LiquidityUnderflow) Error() string { return "liquidity underflow" }

type LiquidityNetError struct{}

func (LiquidityNetError) Error() string { return "liquidity_net exceeds liquidity_gross while updating tick" }

type TokenMinSubceeded struct {
	Field string
}

func (e TokenMinSubceeded) Error() string {
	return fmt.Sprintf("%s undershoots the minimum floor", e.Field)
}

type TokenMaxExceeded struct {
	Field string
}

func (e TokenMaxExceeded) Error() string {
	return fmt.Sprintf("%s exceeds the maximum cap", e.Field)
}

type DivideByZero struct{}

func (DivideByZero) Error() string { return "division by zero" }

type MulDivOverflow struct{}

func (MulDivOverflow) Error() string { return "multiply-divide intermediate overflow" }

type MultiplicationOverflow struct{}

func (MultiplicationOverflow) Error() string { return "multiplication overflow" }

type MultiplicationShiftRightOverflow struct{}

func (MultiplicationShiftRightOverflow) Error() string {
	return "multiply-then-shift-right overflow"
}

type NumberDownCastError struct {
	Field string
}

func (e NumberDownCastError) Error() string {
	return fmt.Sprintf("%s does not fit the narrower integer width", e.Field)
}

type AmountOutBelowMinimum struct{}

func (AmountOutBelowMinimum) Error() string { return "amount out below minimum" }

type AmountInAboveMaximum struct{}

func (AmountInAboveMaximum) Error() string { return "amount in above maximum" }

type InvalidIntermediaryMint struct{}

func (InvalidIntermediaryMint) Error() string { return "two-hop swap intermediary mint mismatch" }

type DuplicateTwoHopPool struct{}

func (DuplicateTwoHopPool) Error() string { return "two-hop swap legs reference the same pool" }

type IntermediateTokenAmountMismatch struct{}

func (IntermediateTokenAmountMismatch) Error() string {
	return "two-hop swap intermediate token amounts do not match"
}

type TradeIsNotEnabled struct {
	TradeEnableTimestamp uint64
}

func (e TradeIsNotEnabled) Error() string {
	return fmt.Sprintf("trading not enabled until timestamp %d", e.TradeEnableTimestamp)
}

func intString(v cosmath.Int) string {
	if v.IsNil() {
		return "<nil>"
	}
	return v.String()
}
