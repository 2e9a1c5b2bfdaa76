package clmmaccount

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/oracle"
)

// OracleSpan is an Adaptive-Fee Oracle account's total byte length,
// discriminator included (§3.5, §6.1). TradeEnableTimestamp is stored as a
// Borsh-style Option<u64>: a one-byte presence tag followed by the u64
// value (zero when absent).
const OracleSpan = 8 + (2 + 2 + 2 + 4 + 4 + 2 + 2) + (1 + 8) + (8 + 8 + 4 + 4 + 4)

// OracleAccount is the on-chain layout of the adaptive-fee oracle state
// (§3.5): immutable Constants plus the per-swap-mutated Variables.
type OracleAccount struct {
	Constants oracle.Constants
	Variables oracle.Variables
}

// Decode parses an Adaptive-Fee Oracle account's raw data.
func (a *OracleAccount) Decode(data []byte) error {
	if len(data) < OracleSpan {
		return fmt.Errorf("clmmaccount: oracle account too short: got %d want %d", len(data), OracleSpan)
	}
	data = data[8:]
	off := 0

	a.Constants.FilterPeriod = getU16(data[off:])
	off += 2
	a.Constants.DecayPeriod = getU16(data[off:])
	off += 2
	a.Constants.ReductionFactor = getU16(data[off:])
	off += 2
	a.Constants.AdaptiveFeeControlFactor = getU32(data[off:])
	off += 4
	a.Constants.MaxVolatilityAccumulator = getU32(data[off:])
	off += 4
	a.Constants.TickGroupSize = getU16(data[off:])
	off += 2
	a.Constants.MajorSwapThresholdTicks = getU16(data[off:])
	off += 2

	hasEnableTimestamp := data[off] != 0
	off++
	enableTimestamp := getU64(data[off:])
	off += 8
	if hasEnableTimestamp {
		v := enableTimestamp
		a.Constants.TradeEnableTimestamp = &v
	} else {
		a.Constants.TradeEnableTimestamp = nil
	}

	a.Variables.LastReferenceUpdateTimestamp = getU64(data[off:])
	off += 8
	a.Variables.LastMajorSwapTimestamp = getU64(data[off:])
	off += 8
	a.Variables.VolatilityReference = getU32(data[off:])
	off += 4
	a.Variables.TickGroupIndexReference = getI32(data[off:])
	off += 4
	a.Variables.VolatilityAccumulator = getU32(data[off:])
	off += 4

	return nil
}

// Encode serializes an OracleAccount back to its on-chain wire form.
func (a *OracleAccount) Encode() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)

	if err := enc.WriteBytes(OracleDiscriminator[:], false); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.Constants.FilterPeriod); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.Constants.DecayPeriod); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.Constants.ReductionFactor); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.Constants.AdaptiveFeeControlFactor); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.Constants.MaxVolatilityAccumulator); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.Constants.TickGroupSize); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.Constants.MajorSwapThresholdTicks); err != nil {
		return nil, err
	}

	if a.Constants.TradeEnableTimestamp != nil {
		if err := enc.WriteBool(true); err != nil {
			return nil, err
		}
		if err := enc.Encode(*a.Constants.TradeEnableTimestamp); err != nil {
			return nil, err
		}
	} else {
		if err := enc.WriteBool(false); err != nil {
			return nil, err
		}
		if err := enc.Encode(uint64(0)); err != nil {
			return nil, err
		}
	}

	if err := enc.Encode(a.Variables.LastReferenceUpdateTimestamp); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.Variables.LastMajorSwapTimestamp); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.Variables.VolatilityReference); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.Variables.TickGroupIndexReference); err != nil {
		return nil, err
	}
	if err := enc.Encode(a.Variables.VolatilityAccumulator); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
