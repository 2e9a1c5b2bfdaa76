package events

import (
	"testing"

	cosmath "cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/fixedmath"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/liquidity"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/pool"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/position"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/swap"
)

func TestNewTradedReadsProtocolFeeDeltaInSwapDirection(t *testing.T) {
	pre := pool.Pool{
		SqrtPrice:        fixedmath.SqrtPriceFromTick(0),
		ProtocolFeeOwedA: cosmath.NewInt(100),
		ProtocolFeeOwedB: cosmath.NewInt(200),
	}
	params := swap.Params{AToB: true}
	result := swap.Result{
		AmountA:              1000,
		AmountB:              900,
		NextSqrtPrice:        fixedmath.SqrtPriceFromTick(-1),
		NextProtocolFeeOwedA: cosmath.NewInt(150),
		NextProtocolFeeOwedB: cosmath.NewInt(200),
		LPFee:                5,
	}

	ev := NewTraded(solana.PublicKey{}, pre, params, result, 0, 0)
	require.Equal(t, uint64(50), ev.ProtocolFee)
	require.Equal(t, uint64(1000), ev.InputAmount)
	require.Equal(t, uint64(900), ev.OutputAmount)
	require.Equal(t, uint64(5), ev.LPFee)
	require.Equal(t, 0, ev.PostSqrtPrice.Cmp(result.NextSqrtPrice))
}

func TestNewTradedFlipsInOutForBToA(t *testing.T) {
	pre := pool.Pool{SqrtPrice: fixedmath.SqrtPriceFromTick(0), ProtocolFeeOwedA: cosmath.ZeroInt(), ProtocolFeeOwedB: cosmath.ZeroInt()}
	params := swap.Params{AToB: false}
	result := swap.Result{AmountA: 300, AmountB: 400, NextSqrtPrice: uint128.Zero, NextProtocolFeeOwedA: cosmath.ZeroInt(), NextProtocolFeeOwedB: cosmath.ZeroInt()}

	ev := NewTraded(solana.PublicKey{}, pre, params, result, 0, 0)
	require.Equal(t, uint64(400), ev.InputAmount)
	require.Equal(t, uint64(300), ev.OutputAmount)
}

func TestNewLiquidityRepositionedCarriesOldAndNewState(t *testing.T) {
	oldLiquidity := cosmath.NewInt(1000)
	result := liquidity.RepositionResult{
		Position: position.Zero(20, 40),
		AmountA:  55,
		AmountB:  66,
	}
	result.Position.Liquidity = cosmath.NewInt(500)

	ev := NewLiquidityRepositioned(solana.PublicKey{}, solana.PublicKey{}, -10, 10, oldLiquidity, 11, 22, result)
	require.Equal(t, int32(-10), ev.OldTickLower)
	require.Equal(t, int32(10), ev.OldTickUpper)
	require.Equal(t, int32(20), ev.NewTickLower)
	require.Equal(t, int32(40), ev.NewTickUpper)
	require.True(t, ev.OldLiquidity.Equal(oldLiquidity))
	require.True(t, ev.NewLiquidity.Equal(cosmath.NewInt(500)))
	require.Equal(t, uint64(55), ev.NewAmountA)
	require.Equal(t, uint64(66), ev.NewAmountB)
}
