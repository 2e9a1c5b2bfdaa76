package clmmaccount

import (
	"fmt"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/tickstate"
)

// TickRecordSpan is the on-chain byte size of one tick slot within a tick
// array account: initialized flag, signed liquidity_net, unsigned
// liquidity_gross, the two fee-growth-outside accumulators, and three
// reward-growth-outside accumulators, all Q64.64/u128 words.
const TickRecordSpan = 1 + 16 + 16 + 16 + 16 + 3*16

// EncodeTick appends one tick's wire bytes to dst (which must have at least
// TickRecordSpan bytes of room starting at off), mirroring the teacher's
// WhirlpoolTickState field order (whirlpoolTickArray.go) but carrying a
// full signed 128-bit liquidity_net instead of the teacher's truncated
// int64.
func EncodeTick(dst []byte, t tickstate.Tick) {
	off := 0
	if t.Initialized {
		dst[off] = 1
	} else {
		dst[off] = 0
	}
	off++
	putSignedI128(dst[off:], t.LiquidityNet)
	off += 16
	putIntAsU128(dst[off:], t.LiquidityGross)
	off += 16
	putIntAsU128(dst[off:], t.FeeGrowthOutsideA)
	off += 16
	putIntAsU128(dst[off:], t.FeeGrowthOutsideB)
	off += 16
	for i := 0; i < 3; i++ {
		putIntAsU128(dst[off:], t.RewardGrowthsOutside[i])
		off += 16
	}
}

// DecodeTick parses one tick slot from src (at least TickRecordSpan bytes).
func DecodeTick(src []byte) (tickstate.Tick, error) {
	if len(src) < TickRecordSpan {
		return tickstate.Tick{}, fmt.Errorf("clmmaccount: tick record too short: got %d want %d", len(src), TickRecordSpan)
	}
	off := 0
	t := tickstate.Tick{Initialized: src[off] != 0}
	off++
	t.LiquidityNet = getSignedI128(src[off:])
	off += 16
	t.LiquidityGross = getIntAsU128(src[off:])
	off += 16
	t.FeeGrowthOutsideA = getIntAsU128(src[off:])
	off += 16
	t.FeeGrowthOutsideB = getIntAsU128(src[off:])
	off += 16
	for i := 0; i < 3; i++ {
		t.RewardGrowthsOutside[i] = getIntAsU128(src[off:])
		off += 16
	}
	return t, nil
}
