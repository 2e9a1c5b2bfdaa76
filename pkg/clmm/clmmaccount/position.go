package clmmaccount

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmtypes"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/position"
)

// PositionSpan is a Position account's total byte length, discriminator
// included (§3.4, §6.1).
const PositionSpan = 8 + 32 + 32 + 16 + 4 + 4 + 16 + 16 + 8 + 8 + 3*(16+8)

// PositionAccount is the on-chain layout of a Position (§3.4): external
// identity plus the pure liquidity/fee/reward accounting in
// position.Position.
type PositionAccount struct {
	Identity clmmtypes.PositionIdentity
	State    position.Position
}

// Decode parses a Position account's raw data.
func (a *PositionAccount) Decode(data []byte) error {
	if len(data) < PositionSpan {
		return fmt.Errorf("clmmaccount: position account too short: got %d want %d", len(data), PositionSpan)
	}
	data = data[8:]
	off := 0

	a.Identity.Whirlpool = getPubkey(data[off:])
	off += 32
	a.Identity.PositionMint = getPubkey(data[off:])
	off += 32
	a.State.Liquidity = getIntAsU128(data[off:])
	off += 16
	a.State.TickLowerIndex = getI32(data[off:])
	off += 4
	a.State.TickUpperIndex = getI32(data[off:])
	off += 4
	a.State.FeeGrowthCheckpointA = getIntAsU128(data[off:])
	off += 16
	a.State.FeeGrowthCheckpointB = getIntAsU128(data[off:])
	off += 16
	a.State.FeeOwedA = getIntAsU64(data[off:])
	off += 8
	a.State.FeeOwedB = getIntAsU64(data[off:])
	off += 8

	for i := 0; i < 3; i++ {
		a.State.RewardInfos[i].GrowthInsideCheckpoint = getIntAsU128(data[off:])
		off += 16
		a.State.RewardInfos[i].AmountOwed = getIntAsU64(data[off:])
		off += 8
	}

	return nil
}

// Encode serializes a PositionAccount back to its on-chain wire form.
func (a *PositionAccount) Encode() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)

	if err := enc.WriteBytes(PositionDiscriminator[:], false); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(a.Identity.Whirlpool[:], false); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(a.Identity.PositionMint[:], false); err != nil {
		return nil, err
	}
	if err := writeIntAsU128(enc, a.State.Liquidity); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.State.TickLowerIndex); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.State.TickUpperIndex); err != nil {
		return nil, err
	}
	if err := writeIntAsU128(enc, a.State.FeeGrowthCheckpointA); err != nil {
		return nil, err
	}
	if err := writeIntAsU128(enc, a.State.FeeGrowthCheckpointB); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.State.FeeOwedA.Uint64()); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.State.FeeOwedB.Uint64()); err != nil {
		return nil, err
	}

	for i := 0; i < 3; i++ {
		if err := writeIntAsU128(enc, a.State.RewardInfos[i].GrowthInsideCheckpoint); err != nil {
			return nil, err
		}
		if err := enc.Encode(a.State.RewardInfos[i].AmountOwed.Uint64()); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
