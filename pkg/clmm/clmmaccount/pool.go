package clmmaccount

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmtypes"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/pool"
)

// poolFixedSpan is the byte length of a PoolAccount excluding the 8-byte
// discriminator: identity pubkeys, the pool.Pool accounting fields, and
// three reward slots' identity + accounting fields, in the field order
// Decode/Encode below walk.
const poolFixedSpan = 32 + 2 + 2 + 2 + 2 + 16 + 16 + 4 + 8 + 8 +
	32 + 32 + 16 +
	32 + 32 + 16 +
	8 +
	3*(32+32+16+16+32)

// PoolSpan is the total account size in bytes, discriminator included,
// mirroring the teacher's WHIRLPOOL_SIZE constant (constants.go).
const PoolSpan = 8 + poolFixedSpan

// PoolAccount is the on-chain layout of a Pool (§3.1, §6.1): external
// identity references plus the pure accounting state in pool.Pool.
type PoolAccount struct {
	Identity    clmmtypes.PoolIdentity
	State       pool.Pool
	RewardMints [3]clmmtypes.RewardIdentity
}

// Decode parses a Pool account's raw data, following the teacher's
// WhirlpoolPool.Decode: skip the leading discriminator, then walk the
// layout with a running byte offset (whirlpoolPool.go).
func (a *PoolAccount) Decode(data []byte) error {
	if len(data) < PoolSpan {
		return fmt.Errorf("clmmaccount: pool account too short: got %d want %d", len(data), PoolSpan)
	}
	data = data[8:]
	off := 0

	a.Identity.WhirlpoolsConfig = getPubkey(data[off:])
	off += 32
	a.State.TickSpacing = getU16(data[off:])
	off += 2
	a.State.FeeTierIndex = getU16(data[off:])
	off += 2
	a.State.FeeRate = getU16(data[off:])
	off += 2
	a.State.ProtocolFeeRate = getU16(data[off:])
	off += 2
	a.State.Liquidity = getU128(data[off:])
	off += 16
	a.State.SqrtPrice = getU128(data[off:])
	off += 16
	a.State.TickCurrentIndex = getI32(data[off:])
	off += 4
	a.State.ProtocolFeeOwedA = getIntAsU64(data[off:])
	off += 8
	a.State.ProtocolFeeOwedB = getIntAsU64(data[off:])
	off += 8

	a.Identity.TokenMintA = getPubkey(data[off:])
	off += 32
	a.Identity.TokenVaultA = getPubkey(data[off:])
	off += 32
	a.State.FeeGrowthGlobalA = getIntAsU128(data[off:])
	off += 16

	a.Identity.TokenMintB = getPubkey(data[off:])
	off += 32
	a.Identity.TokenVaultB = getPubkey(data[off:])
	off += 32
	a.State.FeeGrowthGlobalB = getIntAsU128(data[off:])
	off += 16

	a.State.RewardLastUpdatedTimestamp = getU64(data[off:])
	off += 8

	for i := 0; i < 3; i++ {
		a.RewardMints[i].Mint = getPubkey(data[off:])
		off += 32
		a.RewardMints[i].Vault = getPubkey(data[off:])
		off += 32
		a.State.RewardInfos[i].EmissionsPerSecondX64 = getIntAsU128(data[off:])
		off += 16
		a.State.RewardInfos[i].GrowthGlobalX64 = getIntAsU128(data[off:])
		off += 16
		copy(a.RewardMints[i].Extension[:], data[off:off+32])
		off += 32
	}

	return nil
}

// Encode serializes a PoolAccount back to its on-chain wire form. Scalar
// fields go through a gagliardetto/binary Borsh encoder (mirroring the
// teacher's createWhirlpoolSwapV2Instruction, whirlpoolPool.go:~930); fields
// the encoder has no native support for (pubkeys, u128/i128 words) are
// appended as raw little-endian bytes via WriteBytes, same as the
// discriminator itself.
func (a *PoolAccount) Encode() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)

	if err := enc.WriteBytes(PoolDiscriminator[:], false); err != nil {
		return nil, fmt.Errorf("clmmaccount: write pool discriminator: %w", err)
	}
	if err := enc.WriteBytes(a.Identity.WhirlpoolsConfig[:], false); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.State.TickSpacing); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.State.FeeTierIndex); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.State.FeeRate); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.State.ProtocolFeeRate); err != nil {
		return nil, err
	}
	if err := writeU128(enc, a.State.Liquidity); err != nil {
		return nil, err
	}
	if err := writeU128(enc, a.State.SqrtPrice); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.State.TickCurrentIndex); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.State.ProtocolFeeOwedA.Uint64()); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.State.ProtocolFeeOwedB.Uint64()); err != nil {
		return nil, err
	}

	if err := enc.WriteBytes(a.Identity.TokenMintA[:], false); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(a.Identity.TokenVaultA[:], false); err != nil {
		return nil, err
	}
	if err := writeIntAsU128(enc, a.State.FeeGrowthGlobalA); err != nil {
		return nil, err
	}

	if err := enc.WriteBytes(a.Identity.TokenMintB[:], false); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(a.Identity.TokenVaultB[:], false); err != nil {
		return nil, err
	}
	if err := writeIntAsU128(enc, a.State.FeeGrowthGlobalB); err != nil {
		return nil, err
	}

	if err := enc.Encode(a.State.RewardLastUpdatedTimestamp); err != nil {
		return nil, err
	}

	for i := 0; i < 3; i++ {
		if err := enc.WriteBytes(a.RewardMints[i].Mint[:], false); err != nil {
			return nil, err
		}
		if err := enc.WriteBytes(a.RewardMints[i].Vault[:], false); err != nil {
			return nil, err
		}
		if err := writeIntAsU128(enc, a.State.RewardInfos[i].EmissionsPerSecondX64); err != nil {
			return nil, err
		}
		if err := writeIntAsU128(enc, a.State.RewardInfos[i].GrowthGlobalX64); err != nil {
			return nil, err
		}
		if err := enc.WriteBytes(a.RewardMints[i].Extension[:], false); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
