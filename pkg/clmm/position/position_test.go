package position

import (
	"testing"

	cosmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/fixedmath"
)

func TestRefreshAccrualAccumulatesFromZeroCheckpoint(t *testing.T) {
	pos := Zero(-10, 10)
	pos.Liquidity = cosmath.NewInt(2500)
	pos.FeeOwedA = cosmath.NewInt(50)
	pos.RewardInfos[0].AmountOwed = cosmath.NewInt(100)

	deltaA := cosmath.NewInt(100).Mul(fixedmath.Q64)
	rewardDelta := cosmath.NewInt(990).Mul(fixedmath.Q64)

	upd := RefreshAccrual(pos, deltaA, cosmath.ZeroInt(), [3]cosmath.Int{cosmath.ZeroInt(), cosmath.ZeroInt(), rewardDelta})

	// owed = initial + liquidity * (growth_inside - checkpoint) >> 64, checkpoint starts at zero.
	require.True(t, upd.Position.FeeOwedA.Equal(cosmath.NewInt(50+2500*100)))
	require.True(t, upd.Position.RewardInfos[2].AmountOwed.Equal(cosmath.NewInt(2500*990)))
	require.True(t, upd.Position.FeeGrowthCheckpointA.Equal(deltaA))
}

func TestRefreshAccrualIsIncrementalAcrossCheckpoints(t *testing.T) {
	pos := Zero(-10, 10)
	pos.Liquidity = cosmath.NewInt(1000)

	first := RefreshAccrual(pos, cosmath.NewInt(5).Mul(fixedmath.Q64), cosmath.ZeroInt(), [3]cosmath.Int{cosmath.ZeroInt(), cosmath.ZeroInt(), cosmath.ZeroInt()})
	require.True(t, first.Position.FeeOwedA.Equal(cosmath.NewInt(5000)))

	second := RefreshAccrual(first.Position, cosmath.NewInt(8).Mul(fixedmath.Q64), cosmath.ZeroInt(), [3]cosmath.Int{cosmath.ZeroInt(), cosmath.ZeroInt(), cosmath.ZeroInt()})
	// Only the incremental growth (8-5) accrues on top of the first collect.
	require.True(t, second.Position.FeeOwedA.Equal(cosmath.NewInt(5000+3000)))
}

func TestNextModifyLiquidityRejectsZeroOnZero(t *testing.T) {
	pos := Zero(-10, 10)
	zeros := [3]cosmath.Int{cosmath.ZeroInt(), cosmath.ZeroInt(), cosmath.ZeroInt()}
	_, err := NextModifyLiquidity(pos, cosmath.ZeroInt(), cosmath.ZeroInt(), cosmath.ZeroInt(), zeros)
	require.ErrorAs(t, err, &clmmerr.LiquidityZero{})
}

func TestNextModifyLiquidityRejectsUnderflow(t *testing.T) {
	pos := Zero(-10, 10)
	pos.Liquidity = cosmath.NewInt(100)
	zeros := [3]cosmath.Int{cosmath.ZeroInt(), cosmath.ZeroInt(), cosmath.ZeroInt()}
	_, err := NextModifyLiquidity(pos, cosmath.NewInt(-200), cosmath.ZeroInt(), cosmath.ZeroInt(), zeros)
	require.ErrorAs(t, err, &clmmerr.LiquidityUnderflow{})
}

func TestNextModifyLiquidityAllowsZeroWithExistingLiquidity(t *testing.T) {
	pos := Zero(-10, 10)
	pos.Liquidity = cosmath.NewInt(100)
	zeros := [3]cosmath.Int{cosmath.ZeroInt(), cosmath.ZeroInt(), cosmath.ZeroInt()}
	// liquidity_delta == 0 is a pure collect, allowed when the position is
	// still open; only the "both zero" combination (closed, never collected) errors.
	upd, err := NextModifyLiquidity(pos, cosmath.ZeroInt(), cosmath.ZeroInt(), cosmath.ZeroInt(), zeros)
	require.NoError(t, err)
	require.True(t, upd.Position.Liquidity.Equal(cosmath.NewInt(100)))
}

func TestTokenDeltasRangePositions(t *testing.T) {
	liquidity := uint128.From64(1_000_000)
	lower, upper := int32(-1000), int32(1000)

	// Entirely below range: only token A required.
	amountA, amountB, err := TokenDeltas(-2000, fixedmath.SqrtPriceFromTick(-2000), lower, upper, liquidity, true)
	require.NoError(t, err)
	require.Greater(t, amountA, uint64(0))
	require.Equal(t, uint64(0), amountB)

	// Entirely above range: only token B required.
	amountA, amountB, err = TokenDeltas(2000, fixedmath.SqrtPriceFromTick(2000), lower, upper, liquidity, true)
	require.NoError(t, err)
	require.Equal(t, uint64(0), amountA)
	require.Greater(t, amountB, uint64(0))

	// In range: both tokens required.
	amountA, amountB, err = TokenDeltas(0, fixedmath.SqrtPriceFromTick(0), lower, upper, liquidity, true)
	require.NoError(t, err)
	require.Greater(t, amountA, uint64(0))
	require.Greater(t, amountB, uint64(0))
}
