package swap

import (
	"testing"

	cosmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmtypes"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/fixedmath"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/pool"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/tickarray"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/tickstate"
)

func boundingSequence(t *testing.T, currentTick int32) []tickarray.TickArray {
	t.Helper()
	const spacing = 64
	lowStart := currentTick - spacing*tickarray.TickArraySize
	highStart := currentTick + spacing

	low := tickarray.NewFixed(lowStart, spacing)
	require.NoError(t, low.UpdateTick(lowStart, tickstate.Tick{Initialized: true}))

	high := tickarray.NewFixed(highStart, spacing)
	lastOffset := int32(tickarray.TickArraySize - 1)
	require.NoError(t, high.UpdateTick(highStart+lastOffset*spacing, tickstate.Tick{Initialized: true}))

	return []tickarray.TickArray{low, high}
}

func basePool(sqrtPrice uint128.Uint128, liquidity uint128.Uint128, feeRate uint16) pool.Pool {
	return pool.Pool{
		TickSpacing:      64,
		FeeRate:          feeRate,
		ProtocolFeeRate:  0,
		Liquidity:        liquidity,
		SqrtPrice:        sqrtPrice,
		TickCurrentIndex: fixedmath.TickFromSqrtPrice(sqrtPrice),
		FeeGrowthGlobalA: cosmath.ZeroInt(),
		FeeGrowthGlobalB: cosmath.ZeroInt(),
		ProtocolFeeOwedA: cosmath.ZeroInt(),
		ProtocolFeeOwedB: cosmath.ZeroInt(),
	}
}

func TestSwapZeroAmountRejected(t *testing.T) {
	pl := basePool(uint128.From64(1)<<64, uint128.From64(1_000_000), 3000)
	_, err := Swap(Params{Pool: pl, Sequence: boundingSequence(t, pl.TickCurrentIndex), Amount: 0, AToB: true, AmountSpecifiedIsInput: true})
	require.ErrorAs(t, err, &clmmerr.ZeroTradableAmount{})
}

func TestSwapInvalidLimitDirectionRejected(t *testing.T) {
	pl := basePool(uint128.From64(1)<<64, uint128.From64(1_000_000), 3000)
	// a_to_b moves price down; a limit above the current price is invalid.
	limit := pl.SqrtPrice.Add(uint128.From64(1))
	_, err := Swap(Params{
		Pool: pl, Sequence: boundingSequence(t, pl.TickCurrentIndex),
		Amount: 100, AToB: true, AmountSpecifiedIsInput: true, SqrtPriceLimit: limit,
	})
	require.ErrorAs(t, err, &clmmerr.InvalidSqrtPriceLimitDirection{})
}

// TestSwapExactInAToBConservesFeeSplit exercises a single-step A-to-B swap
// that stops on exhausted input (never reaching a tick boundary) and checks
// the fee/remaining bookkeeping is internally consistent: amount_in returned
// by the pool equals the caller's input amount, the pool absorbs fee_amount
// within it, and liquidity is unchanged since no tick was crossed.
func TestSwapExactInAToBConservesFeeSplit(t *testing.T) {
	liquidity := uint128.From64(1_000_000_000)
	sqrtPrice := uint128.From64(1).Lsh(64)
	pl := basePool(sqrtPrice, liquidity, 20000) // 2%

	result, err := Swap(Params{
		Pool:                   pl,
		Sequence:               boundingSequence(t, pl.TickCurrentIndex),
		Amount:                 1000,
		AToB:                   true,
		AmountSpecifiedIsInput: true,
	})
	require.NoError(t, err)

	require.Equal(t, uint64(1000), result.AmountA)
	require.Greater(t, result.AmountB, uint64(0))
	require.Equal(t, 0, result.NextLiquidity.Cmp(liquidity))
	require.Equal(t, 1, result.NextFeeGrowthGlobalA.Sign())
	require.True(t, result.NextFeeGrowthGlobalB.IsZero())
	require.Less(t, result.NextSqrtPrice.Cmp(pl.SqrtPrice), 0)
}

// TestSwapExactInBToAMirrorsDirection swaps the other direction and checks
// the symmetric bookkeeping: amount_in is on the B side, fee accrues to
// fee_growth_global_b only, and price moves up.
func TestSwapExactInBToAMirrorsDirection(t *testing.T) {
	liquidity := uint128.From64(1_000_000_000)
	sqrtPrice := uint128.From64(1).Lsh(64)
	pl := basePool(sqrtPrice, liquidity, 3000)

	result, err := Swap(Params{
		Pool:                   pl,
		Sequence:               boundingSequence(t, pl.TickCurrentIndex),
		Amount:                 5000,
		AToB:                   false,
		AmountSpecifiedIsInput: true,
	})
	require.NoError(t, err)

	require.Equal(t, uint64(5000), result.AmountB)
	require.Greater(t, result.AmountA, uint64(0))
	require.True(t, result.NextFeeGrowthGlobalA.IsZero())
	require.Equal(t, 1, result.NextFeeGrowthGlobalB.Sign())
	require.GreaterOrEqual(t, result.NextSqrtPrice.Cmp(pl.SqrtPrice), 0)
}

func TestQuoteMatchesSwapForSameInputs(t *testing.T) {
	liquidity := uint128.From64(1_000_000_000)
	sqrtPrice := uint128.From64(1).Lsh(64)
	pl := basePool(sqrtPrice, liquidity, 3000)

	params := Params{
		Pool:                   pl,
		Sequence:               boundingSequence(t, pl.TickCurrentIndex),
		Amount:                 1000,
		AToB:                   true,
		AmountSpecifiedIsInput: true,
	}

	quoted, err := Quote(params)
	require.NoError(t, err)
	executed, err := Swap(params)
	require.NoError(t, err)
	require.Equal(t, executed, quoted)
}

func TestValidateTwoHopLinkDuplicatePool(t *testing.T) {
	var pool1 clmmtypes.PublicKey
	pool1[0] = 1
	err := ValidateTwoHopLink(TwoHopLink{PoolOne: pool1, PoolTwo: pool1})
	require.ErrorAs(t, err, &clmmerr.DuplicateTwoHopPool{})
}

func TestValidateTwoHopLinkInvalidIntermediary(t *testing.T) {
	var pool1, pool2, mintA, mintB clmmtypes.PublicKey
	pool1[0], pool2[0] = 1, 2
	mintA[0], mintB[0] = 3, 4

	err := ValidateTwoHopLink(TwoHopLink{
		PoolOne: pool1, PoolTwo: pool2,
		OutputMintOne: mintA, InputMintTwo: mintB,
	})
	require.ErrorAs(t, err, &clmmerr.InvalidIntermediaryMint{})
}

func TestValidateTwoHopLinkAmountMismatch(t *testing.T) {
	var pool1, pool2, mint clmmtypes.PublicKey
	pool1[0], pool2[0] = 1, 2
	mint[0] = 5

	err := ValidateTwoHopLink(TwoHopLink{
		PoolOne: pool1, PoolTwo: pool2,
		OutputMintOne: mint, InputMintTwo: mint,
		IntermediateAmountOne: 100, IntermediateAmountTwo: 99,
	})
	require.ErrorAs(t, err, &clmmerr.IntermediateTokenAmountMismatch{})
}

func TestValidateTwoHopLinkOK(t *testing.T) {
	var pool1, pool2, mint clmmtypes.PublicKey
	pool1[0], pool2[0] = 1, 2
	mint[0] = 5

	err := ValidateTwoHopLink(TwoHopLink{
		PoolOne: pool1, PoolTwo: pool2,
		OutputMintOne: mint, InputMintTwo: mint,
		IntermediateAmountOne: 100, IntermediateAmountTwo: 100,
	})
	require.NoError(t, err)
}
