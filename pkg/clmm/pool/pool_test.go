package pool

import (
	"testing"

	cosmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/fixedmath"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/position"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/tickarray"
)

func TestAddProtocolFeeSaturatesAtMaxU64(t *testing.T) {
	near := fixedmath.MaxU64.Sub(cosmath.NewInt(5))
	got := AddProtocolFeeSaturating(near, cosmath.NewInt(10))
	require.True(t, got.Equal(fixedmath.MaxU64))
}

func TestAddProtocolFeeBelowCapIsExact(t *testing.T) {
	got := AddProtocolFeeSaturating(cosmath.NewInt(100), cosmath.NewInt(23))
	require.True(t, got.Equal(cosmath.NewInt(123)))
}

func TestUpdateRewardGrowthsRejectsTimeTravel(t *testing.T) {
	p := Pool{RewardLastUpdatedTimestamp: 1000, Liquidity: uint128.From64(1)}
	_, err := UpdateRewardGrowths(p, 999)
	require.ErrorAs(t, err, &clmmerr.InvalidTimestamp{})
}

func TestUpdateRewardGrowthsSkipsZeroLiquidity(t *testing.T) {
	p := Pool{
		RewardLastUpdatedTimestamp: 1000,
		Liquidity:                  uint128.Zero,
		RewardInfos: [3]RewardInfo{
			{EmissionsPerSecondX64: cosmath.NewInt(1), GrowthGlobalX64: cosmath.ZeroInt()},
		},
	}
	got, err := UpdateRewardGrowths(p, 2000)
	require.NoError(t, err)
	require.True(t, got[0].GrowthGlobalX64.IsZero())
}

func TestUpdateRewardGrowthsAccruesProportionally(t *testing.T) {
	p := Pool{
		RewardLastUpdatedTimestamp: 1000,
		Liquidity:                  uint128.From64(1000),
		RewardInfos: [3]RewardInfo{
			{EmissionsPerSecondX64: cosmath.NewInt(10).Mul(fixedmath.Q64), GrowthGlobalX64: cosmath.ZeroInt()},
			{},
			{},
		},
	}
	got, err := UpdateRewardGrowths(p, 1010) // 10 seconds elapsed
	require.NoError(t, err)
	// delta = time * emissions_per_second / liquidity = 10*10*Q64/1000 = Q64/10
	expected := cosmath.NewInt(10).Mul(cosmath.NewInt(10)).Mul(fixedmath.Q64).Quo(cosmath.NewInt(1000))
	require.True(t, got[0].GrowthGlobalX64.Equal(expected))
}

// TestApplyLiquidityChangeInRangeIncreasesActiveLiquidity mirrors the spec's
// in-range liquidity-increase scenario: a position straddling the current
// tick increases the pool's active liquidity by exactly liquidity_delta.
func TestApplyLiquidityChangeInRangeIncreasesActiveLiquidity(t *testing.T) {
	const spacing = 1
	p := Pool{
		TickSpacing:      spacing,
		Liquidity:        uint128.From64(0),
		SqrtPrice:        fixedmath.SqrtPriceFromTick(0),
		TickCurrentIndex: 0,
		FeeGrowthGlobalA: cosmath.ZeroInt(),
		FeeGrowthGlobalB: cosmath.ZeroInt(),
		ProtocolFeeOwedA: cosmath.ZeroInt(),
		ProtocolFeeOwedB: cosmath.ZeroInt(),
	}
	pos := position.Zero(-10, 10)
	pos.Liquidity = cosmath.NewInt(1000)

	lowerArray := tickarray.NewFixed(-44, spacing)
	upperArray := lowerArray

	change, err := ApplyLiquidityChange(p, pos, lowerArray, upperArray, cosmath.NewInt(1000), 0, true)
	require.NoError(t, err)
	require.True(t, fixedmath.U128ToInt(change.Pool.Liquidity).Equal(cosmath.NewInt(1000)))
	require.Greater(t, change.AmountA, uint64(0))
	require.Greater(t, change.AmountB, uint64(0))
}

// TestApplyLiquidityChangeOutOfRangeLeavesActiveLiquidity checks that a
// position entirely above the current tick contributes nothing to active
// liquidity even though its own liquidity changes.
func TestApplyLiquidityChangeOutOfRangeLeavesActiveLiquidity(t *testing.T) {
	const spacing = 1
	p := Pool{
		TickSpacing:      spacing,
		Liquidity:        uint128.From64(500),
		SqrtPrice:        fixedmath.SqrtPriceFromTick(0),
		TickCurrentIndex: 0,
		FeeGrowthGlobalA: cosmath.ZeroInt(),
		FeeGrowthGlobalB: cosmath.ZeroInt(),
		ProtocolFeeOwedA: cosmath.ZeroInt(),
		ProtocolFeeOwedB: cosmath.ZeroInt(),
	}
	pos := position.Zero(20, 40)
	pos.Liquidity = cosmath.NewInt(100)

	array := tickarray.NewFixed(0, spacing)

	change, err := ApplyLiquidityChange(p, pos, array, array, cosmath.NewInt(1000), 0, true)
	require.NoError(t, err)
	require.True(t, fixedmath.U128ToInt(change.Pool.Liquidity).Equal(cosmath.NewInt(500)))
	require.True(t, change.Position.Liquidity.Equal(cosmath.NewInt(1100)))
}

func TestApplyAccrualRefreshNeverTouchesActiveLiquidity(t *testing.T) {
	const spacing = 1
	p := Pool{
		TickSpacing:      spacing,
		Liquidity:        uint128.From64(777),
		SqrtPrice:        fixedmath.SqrtPriceFromTick(0),
		TickCurrentIndex: 0,
		FeeGrowthGlobalA: cosmath.NewInt(5),
		FeeGrowthGlobalB: cosmath.ZeroInt(),
		ProtocolFeeOwedA: cosmath.ZeroInt(),
		ProtocolFeeOwedB: cosmath.ZeroInt(),
	}
	pos := position.Zero(-10, 10)
	array := tickarray.NewFixed(-44, spacing)

	change, err := ApplyAccrualRefresh(p, pos, array, array, 0)
	require.NoError(t, err)
	require.True(t, fixedmath.U128ToInt(change.Pool.Liquidity).Equal(cosmath.NewInt(777)))
}
