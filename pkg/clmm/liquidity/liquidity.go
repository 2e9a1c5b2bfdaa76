// Package liquidity implements the Liquidity Manager (§4.F): the public
// entry points (increase, decrease, collect fees, collect a reward,
// reposition) that coordinate pool.ApplyLiquidityChange/ApplyAccrualRefresh
// into the atomic updates a caller writes back to storage, enforcing the
// slippage guards (TokenMaxExceeded / TokenMinSubceeded) spec §4.F names.
package liquidity

import (
	cosmath "cosmossdk.io/math"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/pool"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/position"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/tickarray"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/tickstate"
)

// TransferFeeFn mirrors calculate_transfer_fee_excluded_amount (§6.2): given
// a gross amount leaving a vault, it returns the net amount the recipient
// receives and the fee withheld. A nil TransferFeeFn is a passthrough
// (no transfer-fee extension on the mint).
type TransferFeeFn func(grossAmount uint64) (net uint64, fee uint64)

// InverseTransferFeeFn mirrors calculate_transfer_fee_excluded_amount's
// inverse (§6.2): given the net amount that must arrive in a vault, it
// returns the gross amount the payer must send and the fee withheld.
type InverseTransferFeeFn func(netAmount uint64) (gross uint64, fee uint64)

func applyInverseFee(amount uint64, fn InverseTransferFeeFn) uint64 {
	if fn == nil {
		return amount
	}
	gross, _ := fn(amount)
	return gross
}

func applyFee(amount uint64, fn TransferFeeFn) uint64 {
	if fn == nil {
		return amount
	}
	net, _ := fn(amount)
	return net
}

// Result is the atomic write-back a liquidity-manager call produces: the
// caller persists Pool/LowerTick/UpperTick/Position, then settles AmountA/
// AmountB (already transfer-fee-adjusted) through the external transfer
// collaborator (§6.2).
type Result struct {
	Pool      pool.Pool
	LowerTick tickstate.Tick
	UpperTick tickstate.Tick
	Position  position.Position
	AmountA   uint64
	AmountB   uint64
}

func writeBack(change pool.LiquidityChange, lowerArray, upperArray tickarray.TickArray, pos position.Position) error {
	if err := lowerArray.UpdateTick(pos.TickLowerIndex, change.LowerTick); err != nil {
		return err
	}
	if err := upperArray.UpdateTick(pos.TickUpperIndex, change.UpperTick); err != nil {
		return err
	}
	return nil
}

// IncreaseLiquidity implements §4.F's increase_liquidity: delta must be
// positive. The required token-A/B input is grossed up through
// inverseFee (if supplied) before being checked against maxTokenA/maxTokenB,
// since the payer must cover whatever the mint's transfer fee withholds on
// the way into the vault.
func IncreaseLiquidity(
	p pool.Pool,
	pos position.Position,
	lowerArray, upperArray tickarray.TickArray,
	delta cosmath.Int,
	maxTokenA, maxTokenB uint64,
	timestamp uint64,
	inverseFee InverseTransferFeeFn,
) (Result, error) {
	if !delta.IsPositive() {
		return Result{}, clmmerr.LiquidityZero{}
	}

	change, err := pool.ApplyLiquidityChange(p, pos, lowerArray, upperArray, delta, timestamp, true)
	if err != nil {
		return Result{}, err
	}

	amountA := applyInverseFee(change.AmountA, inverseFee)
	amountB := applyInverseFee(change.AmountB, inverseFee)
	if amountA > maxTokenA {
		return Result{}, clmmerr.TokenMaxExceeded{Field: "token_a"}
	}
	if amountB > maxTokenB {
		return Result{}, clmmerr.TokenMaxExceeded{Field: "token_b"}
	}

	if err := writeBack(change, lowerArray, upperArray, pos); err != nil {
		return Result{}, err
	}

	return Result{
		Pool: change.Pool, LowerTick: change.LowerTick, UpperTick: change.UpperTick,
		Position: change.Position, AmountA: amountA, AmountB: amountB,
	}, nil
}

// DecreaseLiquidity implements §4.F's decrease_liquidity: delta must be
// positive (it is applied as a negative liquidity change). The computed
// token-A/B output is netted down through fee (if supplied) before being
// checked against minTokenA/minTokenB, since the owner receives whatever the
// mint's transfer fee leaves after withdrawal from the vault.
func DecreaseLiquidity(
	p pool.Pool,
	pos position.Position,
	lowerArray, upperArray tickarray.TickArray,
	delta cosmath.Int,
	minTokenA, minTokenB uint64,
	timestamp uint64,
	fee TransferFeeFn,
) (Result, error) {
	if !delta.IsPositive() {
		return Result{}, clmmerr.LiquidityZero{}
	}

	change, err := pool.ApplyLiquidityChange(p, pos, lowerArray, upperArray, delta.Neg(), timestamp, false)
	if err != nil {
		return Result{}, err
	}

	amountA := applyFee(change.AmountA, fee)
	amountB := applyFee(change.AmountB, fee)
	if amountA < minTokenA {
		return Result{}, clmmerr.TokenMinSubceeded{Field: "token_a"}
	}
	if amountB < minTokenB {
		return Result{}, clmmerr.TokenMinSubceeded{Field: "token_b"}
	}

	if err := writeBack(change, lowerArray, upperArray, pos); err != nil {
		return Result{}, err
	}

	return Result{
		Pool: change.Pool, LowerTick: change.LowerTick, UpperTick: change.UpperTick,
		Position: change.Position, AmountA: amountA, AmountB: amountB,
	}, nil
}

// CollectFees implements §4.F's collect_fees: refresh fee_owed from current
// growth-inside snapshots, then clear it as part of the settled transfer.
// The caller is expected to persist the returned Position with FeeOwedA/B
// reset to zero once AmountA/AmountB have been transferred out.
func CollectFees(
	p pool.Pool,
	pos position.Position,
	lowerArray, upperArray tickarray.TickArray,
	timestamp uint64,
) (Result, error) {
	change, err := pool.ApplyAccrualRefresh(p, pos, lowerArray, upperArray, timestamp)
	if err != nil {
		return Result{}, err
	}
	if err := writeBack(change, lowerArray, upperArray, pos); err != nil {
		return Result{}, err
	}

	amountA := change.Position.FeeOwedA.Uint64()
	amountB := change.Position.FeeOwedB.Uint64()

	collected := change.Position
	collected.FeeOwedA = cosmath.ZeroInt()
	collected.FeeOwedB = cosmath.ZeroInt()

	return Result{
		Pool: change.Pool, LowerTick: change.LowerTick, UpperTick: change.UpperTick,
		Position: collected, AmountA: amountA, AmountB: amountB,
	}, nil
}

// CollectReward implements §4.F's collect_reward for a single reward slot
// (0, 1, or 2): analogous to CollectFees, but drains only that slot's
// amount_owed.
func CollectReward(
	p pool.Pool,
	pos position.Position,
	lowerArray, upperArray tickarray.TickArray,
	index int,
	timestamp uint64,
) (Result, uint64, error) {
	if index < 0 || index > 2 {
		return Result{}, 0, clmmerr.InvalidTickIndex{Reason: "reward index out of range"}
	}

	change, err := pool.ApplyAccrualRefresh(p, pos, lowerArray, upperArray, timestamp)
	if err != nil {
		return Result{}, 0, err
	}
	if err := writeBack(change, lowerArray, upperArray, pos); err != nil {
		return Result{}, 0, err
	}

	amount := change.Position.RewardInfos[index].AmountOwed.Uint64()

	collected := change.Position
	collected.RewardInfos[index].AmountOwed = cosmath.ZeroInt()

	return Result{
		Pool: change.Pool, LowerTick: change.LowerTick, UpperTick: change.UpperTick,
		Position: collected,
	}, amount, nil
}

// RepositionResult is what Reposition produces: the position now sits at its
// new bounds with liquidity reset, but its fee_owed/reward.amount_owed
// balances carry over untouched from before the move (§4.F).
type RepositionResult struct {
	Pool         pool.Pool
	OldLowerTick tickstate.Tick
	OldUpperTick tickstate.Tick
	NewLowerTick tickstate.Tick
	NewUpperTick tickstate.Tick
	Position     position.Position
	AmountA      uint64
	AmountB      uint64
}

// Reposition implements §4.F's reposition: an atomic decrease at the
// position's current bounds followed by an increase at the new bounds,
// preserving fee_owed and reward.amount_owed across the reset and settling
// the net per-side token flow once against max/min enforced on that net
// delta (not on either leg individually).
func Reposition(
	p pool.Pool,
	pos position.Position,
	oldLowerArray, oldUpperArray tickarray.TickArray,
	newLowerTick, newUpperTick int32,
	newLowerArray, newUpperArray tickarray.TickArray,
	newLiquidity cosmath.Int,
	maxTokenA, maxTokenB, minTokenA, minTokenB uint64,
	timestamp uint64,
) (RepositionResult, error) {
	if newLowerTick >= newUpperTick {
		return RepositionResult{}, clmmerr.InvalidTickIndex{TickIndex: newLowerTick, Reason: "lower must be below upper"}
	}

	decreaseChange, err := pool.ApplyLiquidityChange(p, pos, oldLowerArray, oldUpperArray, pos.Liquidity.Neg(), timestamp, false)
	if err != nil {
		return RepositionResult{}, err
	}
	if err := writeBack(decreaseChange, oldLowerArray, oldUpperArray, pos); err != nil {
		return RepositionResult{}, err
	}

	repositioned := decreaseChange.Position
	repositioned.TickLowerIndex = newLowerTick
	repositioned.TickUpperIndex = newUpperTick

	increaseChange, err := pool.ApplyLiquidityChange(decreaseChange.Pool, repositioned, newLowerArray, newUpperArray, newLiquidity, timestamp, true)
	if err != nil {
		return RepositionResult{}, err
	}
	if err := writeBack(increaseChange, newLowerArray, newUpperArray, repositioned); err != nil {
		return RepositionResult{}, err
	}

	netA := cosmath.NewIntFromUint64(increaseChange.AmountA).Sub(cosmath.NewIntFromUint64(decreaseChange.AmountA))
	netB := cosmath.NewIntFromUint64(increaseChange.AmountB).Sub(cosmath.NewIntFromUint64(decreaseChange.AmountB))

	if err := checkNetSlippage(netA, maxTokenA, minTokenA, "token_a"); err != nil {
		return RepositionResult{}, err
	}
	if err := checkNetSlippage(netB, maxTokenB, minTokenB, "token_b"); err != nil {
		return RepositionResult{}, err
	}

	return RepositionResult{
		Pool:         increaseChange.Pool,
		OldLowerTick: decreaseChange.LowerTick,
		OldUpperTick: decreaseChange.UpperTick,
		NewLowerTick: increaseChange.LowerTick,
		NewUpperTick: increaseChange.UpperTick,
		Position:     increaseChange.Position,
		AmountA:      increaseChange.AmountA,
		AmountB:      increaseChange.AmountB,
	}, nil
}

// checkNetSlippage enforces a reposition's net per-side slippage guard: a
// net inflow (user pays) must not exceed max; a net outflow (user receives)
// must not undershoot min.
func checkNetSlippage(net cosmath.Int, max, min uint64, field string) error {
	if net.IsPositive() {
		if net.GT(cosmath.NewIntFromUint64(max)) {
			return clmmerr.TokenMaxExceeded{Field: field}
		}
		return nil
	}
	if net.Neg().LT(cosmath.NewIntFromUint64(min)) {
		return clmmerr.TokenMinSubceeded{Field: field}
	}
	return nil
}

// QuoteIncrease previews IncreaseLiquidity's token deltas without mutating
// any state (§6.3 "Quotes"): it discards the write-back and returns only
// the projected AmountA/AmountB, as the original's swap_quote-style pure
// preview surfaces do.
func QuoteIncrease(
	p pool.Pool,
	pos position.Position,
	lowerArray, upperArray tickarray.TickArray,
	delta cosmath.Int,
	timestamp uint64,
	inverseFee InverseTransferFeeFn,
) (amountA, amountB uint64, err error) {
	change, err := pool.ApplyLiquidityChange(p, pos, lowerArray, upperArray, delta, timestamp, true)
	if err != nil {
		return 0, 0, err
	}
	return applyInverseFee(change.AmountA, inverseFee), applyInverseFee(change.AmountB, inverseFee), nil
}

// QuoteDecrease previews DecreaseLiquidity's token deltas without mutating
// any state (§6.3 "Quotes").
func QuoteDecrease(
	p pool.Pool,
	pos position.Position,
	lowerArray, upperArray tickarray.TickArray,
	delta cosmath.Int,
	timestamp uint64,
	fee TransferFeeFn,
) (amountA, amountB uint64, err error) {
	change, err := pool.ApplyLiquidityChange(p, pos, lowerArray, upperArray, delta.Neg(), timestamp, false)
	if err != nil {
		return 0, 0, err
	}
	return applyFee(change.AmountA, fee), applyFee(change.AmountB, fee), nil
}
