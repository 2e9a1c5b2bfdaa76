package clmmaccount

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/tickarray"
)

// FixedTickArraySpan is the constant-size Fixed account's total byte
// length, discriminator included: every one of its 88 slots is stored
// whether initialized or not (§3.3), mirroring the teacher's
// WhirlpoolTickArray layout (88 full WhirlpoolTickState records,
// whirlpoolTickArray.go) but with TickRecordSpan's full signed
// liquidity_net.
const FixedTickArraySpan = 8 + 4 + 2 + tickarray.TickArraySize*TickRecordSpan

// DecodeFixed parses a Fixed tick array account.
func DecodeFixed(data []byte) (*tickarray.Fixed, error) {
	if len(data) < FixedTickArraySpan {
		return nil, fmt.Errorf("clmmaccount: fixed tick array too short: got %d want %d", len(data), FixedTickArraySpan)
	}
	data = data[8:]
	startTickIndex := getI32(data)
	tickSpacing := getU16(data[4:])
	f := tickarray.NewFixed(startTickIndex, tickSpacing)

	off := 6
	for i := 0; i < tickarray.TickArraySize; i++ {
		tick, err := DecodeTick(data[off : off+TickRecordSpan])
		if err != nil {
			return nil, err
		}
		worldIndex := startTickIndex + int32(i)*int32(tickSpacing)
		if err := f.UpdateTick(worldIndex, tick); err != nil {
			return nil, err
		}
		off += TickRecordSpan
	}
	return f, nil
}

// EncodeFixed serializes a Fixed tick array account. The header (start
// index, spacing) goes through a Borsh encoder; the 88 tick slots are
// packed with EncodeTick directly, since gagliardetto/binary has no native
// notion of the Q64.64/u128 wire words tick records use.
func EncodeFixed(f *tickarray.Fixed) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteBytes(FixedTickArrayDiscriminator[:], false); err != nil {
		return nil, err
	}
	if err := enc.Encode(f.StartTickIndex()); err != nil {
		return nil, err
	}
	if err := enc.Encode(f.TickSpacing()); err != nil {
		return nil, err
	}

	body := make([]byte, tickarray.TickArraySize*TickRecordSpan)
	off := 0
	startTickIndex := f.StartTickIndex()
	tickSpacing := f.TickSpacing()
	for i := 0; i < tickarray.TickArraySize; i++ {
		worldIndex := startTickIndex + int32(i)*int32(tickSpacing)
		tick, err := f.GetTick(worldIndex)
		if err != nil {
			return nil, err
		}
		EncodeTick(body[off:], tick)
		off += TickRecordSpan
	}
	if err := enc.WriteBytes(body, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// dynamicTickArrayHeaderSpan is the fixed portion of a Dynamic account:
// discriminator, start index, spacing, presence bitmap, and the packed
// slot count.
const dynamicTickArrayHeaderSpan = 8 + 4 + 2 + 16 + 1

// dynamicEntrySpan is one packed (offset, tick) entry's byte length.
const dynamicEntrySpan = 1 + TickRecordSpan

// DecodeDynamic parses a Dynamic tick array account: only initialized ticks
// are stored, indexed by their one-byte offset within the array, following
// the sparse layout §3.3/§4.B describes as the account-size-saving
// alternative to Fixed.
func DecodeDynamic(data []byte) (*tickarray.Dynamic, error) {
	if len(data) < dynamicTickArrayHeaderSpan {
		return nil, fmt.Errorf("clmmaccount: dynamic tick array too short: got %d want at least %d", len(data), dynamicTickArrayHeaderSpan)
	}
	data = data[8:]
	startTickIndex := getI32(data)
	tickSpacing := getU16(data[4:])
	popCount := int(data[4+2+16])
	d := tickarray.NewDynamic(startTickIndex, tickSpacing)

	off := 4 + 2 + 16 + 1
	for i := 0; i < popCount; i++ {
		if off+dynamicEntrySpan > len(data) {
			return nil, fmt.Errorf("clmmaccount: dynamic tick array truncated at entry %d", i)
		}
		slotOffset := int32(data[off])
		tick, err := DecodeTick(data[off+1 : off+dynamicEntrySpan])
		if err != nil {
			return nil, err
		}
		worldIndex := startTickIndex + slotOffset*int32(tickSpacing)
		if err := d.UpdateTick(worldIndex, tick); err != nil {
			return nil, err
		}
		off += dynamicEntrySpan
	}
	return d, nil
}

// EncodeDynamic serializes a Dynamic tick array account, packing only its
// PopCount() initialized entries.
func EncodeDynamic(d *tickarray.Dynamic) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteBytes(DynamicTickArrayDiscriminator[:], false); err != nil {
		return nil, err
	}
	if err := enc.Encode(d.StartTickIndex()); err != nil {
		return nil, err
	}
	if err := enc.Encode(d.TickSpacing()); err != nil {
		return nil, err
	}
	var bitmapBytes [16]byte
	putU128(bitmapBytes[:], d.Bitmap())
	if err := enc.WriteBytes(bitmapBytes[:], false); err != nil {
		return nil, err
	}
	if err := enc.Encode(uint8(d.PopCount())); err != nil {
		return nil, err
	}

	startTickIndex := d.StartTickIndex()
	tickSpacing := d.TickSpacing()
	for offset := int32(0); offset < int32(tickarray.TickArraySize); offset++ {
		worldIndex := startTickIndex + offset*int32(tickSpacing)
		tick, err := d.GetTick(worldIndex)
		if err != nil {
			return nil, err
		}
		if !tick.Initialized {
			continue
		}
		entry := make([]byte, dynamicEntrySpan)
		entry[0] = byte(offset)
		EncodeTick(entry[1:], tick)
		if err := enc.WriteBytes(entry, false); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
