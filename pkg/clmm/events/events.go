// Package events defines the exposed collaborator records (§6.3): plain
// structs a caller can log, index, or relay on-chain after a swap or
// liquidity mutation commits, grounded in the teacher pack's own event-struct
// convention (a plain record type plus a constructor, no emission channel of
// its own — see LiquidationEvent in the parsdao-pars retrieval pack).
package events

import (
	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmtypes"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/liquidity"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/pool"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/swap"
)

// Traded records a completed swap (§6.3): the price movement, the settled
// token amounts, and the fee split between liquidity providers and the
// protocol.
type Traded struct {
	Pool              clmmtypes.PublicKey
	AToB              bool
	PreSqrtPrice      uint128.Uint128
	PostSqrtPrice     uint128.Uint128
	InputAmount       uint64
	OutputAmount      uint64
	InputTransferFee  uint64
	OutputTransferFee uint64
	LPFee             uint64
	ProtocolFee       uint64
}

// NewTraded builds a Traded event from a swap's inputs and settled Result.
// inputTransferFee/outputTransferFee are whatever the transfer-fee
// collaborator (§6.2) withheld on the in/out legs; pass zero when the mints
// carry no transfer-fee extension. The protocol-fee delta is read off
// whichever of ProtocolFeeOwedA/B moved in this call's direction.
func NewTraded(poolKey clmmtypes.PublicKey, prePool pool.Pool, params swap.Params, result swap.Result, inputTransferFee, outputTransferFee uint64) Traded {
	var protocolFeeDelta cosmath.Int
	if params.AToB {
		protocolFeeDelta = result.NextProtocolFeeOwedA.Sub(prePool.ProtocolFeeOwedA)
	} else {
		protocolFeeDelta = result.NextProtocolFeeOwedB.Sub(prePool.ProtocolFeeOwedB)
	}
	if protocolFeeDelta.IsNegative() {
		protocolFeeDelta = cosmath.ZeroInt()
	}

	inputAmount, outputAmount := result.AmountA, result.AmountB
	if !params.AToB {
		inputAmount, outputAmount = result.AmountB, result.AmountA
	}

	return Traded{
		Pool:              poolKey,
		AToB:              params.AToB,
		PreSqrtPrice:      prePool.SqrtPrice,
		PostSqrtPrice:     result.NextSqrtPrice,
		InputAmount:       inputAmount,
		OutputAmount:      outputAmount,
		InputTransferFee:  inputTransferFee,
		OutputTransferFee: outputTransferFee,
		LPFee:             result.LPFee,
		ProtocolFee:       protocolFeeDelta.Uint64(),
	}
}

// LiquidityRepositioned records a position's move to new tick bounds (§6.3):
// the bounds and liquidity/token amounts on both sides of the move.
type LiquidityRepositioned struct {
	Pool             clmmtypes.PublicKey
	Position         clmmtypes.PublicKey
	OldTickLower     int32
	OldTickUpper     int32
	NewTickLower     int32
	NewTickUpper     int32
	OldLiquidity     cosmath.Int
	NewLiquidity     cosmath.Int
	OldAmountA       uint64
	OldAmountB       uint64
	NewAmountA       uint64
	NewAmountB       uint64
}

// NewLiquidityRepositioned builds a LiquidityRepositioned event from the
// position's pre-move bounds/liquidity and a completed Reposition call.
func NewLiquidityRepositioned(poolKey, positionKey clmmtypes.PublicKey, oldTickLower, oldTickUpper int32, oldLiquidity cosmath.Int, oldAmountA, oldAmountB uint64, result liquidity.RepositionResult) LiquidityRepositioned {
	return LiquidityRepositioned{
		Pool:         poolKey,
		Position:     positionKey,
		OldTickLower: oldTickLower,
		OldTickUpper: oldTickUpper,
		NewTickLower: result.Position.TickLowerIndex,
		NewTickUpper: result.Position.TickUpperIndex,
		OldLiquidity: oldLiquidity,
		NewLiquidity: result.Position.Liquidity,
		OldAmountA:   oldAmountA,
		OldAmountB:   oldAmountB,
		NewAmountA:   result.AmountA,
		NewAmountB:   result.AmountB,
	}
}
