package clmmaccount

import (
	"encoding/binary"
	"math/big"

	cosmath "cosmossdk.io/math"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/fixedmath"
)

// The helpers below hand-roll the little-endian field parsing the teacher's
// WhirlpoolPool.Decode does with encoding/binary and uint128.FromBytes
// (whirlpoolPool.go), extended to the signed 128-bit case (liquidity_net)
// the teacher's WhirlpoolTickState truncates to an int64 and never needs to
// encode at all.

func getU64(src []byte) uint64 { return binary.LittleEndian.Uint64(src) }
func getU16(src []byte) uint16 { return binary.LittleEndian.Uint16(src) }
func getI32(src []byte) int32  { return int32(binary.LittleEndian.Uint32(src)) }
func getU32(src []byte) uint32 { return binary.LittleEndian.Uint32(src) }

// writeU128 appends a Uint128's little-endian wire bytes through a Borsh
// encoder, the same raw-bytes escape hatch the teacher uses for the pubkeys
// and the sqrt-price-limit halves it writes field-by-field
// (whirlpoolPool.go:~955, createWhirlpoolSwapV2Instruction).
func writeU128(enc *bin.Encoder, v uint128.Uint128) error {
	var b [16]byte
	putU128(b[:], v)
	return enc.WriteBytes(b[:], false)
}

// writeIntAsU128 writes a wrapping Q64.64 growth accumulator or unsigned
// 128-bit value.
func writeIntAsU128(enc *bin.Encoder, v cosmath.Int) error {
	return writeU128(enc, fixedmath.IntToU128(v))
}

func putU128(dst []byte, v uint128.Uint128) {
	binary.LittleEndian.PutUint64(dst[0:8], v.Lo)
	binary.LittleEndian.PutUint64(dst[8:16], v.Hi)
}

func getU128(src []byte) uint128.Uint128 {
	return uint128.New(binary.LittleEndian.Uint64(src[0:8]), binary.LittleEndian.Uint64(src[8:16]))
}

func getIntAsU64(src []byte) cosmath.Int { return cosmath.NewIntFromUint64(getU64(src)) }

// putIntAsU128 stores a wrapping Q64.64 growth accumulator or an unsigned
// 128-bit liquidity value.
func putIntAsU128(dst []byte, v cosmath.Int) { putU128(dst, fixedmath.IntToU128(v)) }

func getIntAsU128(src []byte) cosmath.Int { return fixedmath.U128ToInt(getU128(src)) }

var signedI128Modulus = new(big.Int).Lsh(big.NewInt(1), 128)
var signedI128HalfRange = new(big.Int).Lsh(big.NewInt(1), 127)

// putSignedI128 stores a signed 128-bit two's-complement value
// (tick.liquidity_net, §3.2), little-endian.
func putSignedI128(dst []byte, v cosmath.Int) {
	bi := v.BigInt()
	if bi.Sign() < 0 {
		bi = new(big.Int).Add(signedI128Modulus, bi)
	}
	be := bi.Bytes()
	var full [16]byte
	copy(full[16-len(be):], be)
	for i := 0; i < 16; i++ {
		dst[i] = full[15-i]
	}
}

func getSignedI128(src []byte) cosmath.Int {
	var be [16]byte
	for i := 0; i < 16; i++ {
		be[i] = src[15-i]
	}
	bi := new(big.Int).SetBytes(be[:])
	if bi.Cmp(signedI128HalfRange) >= 0 {
		bi = new(big.Int).Sub(bi, signedI128Modulus)
	}
	return cosmath.NewIntFromBigInt(bi)
}

func getPubkey(src []byte) solana.PublicKey {
	var k solana.PublicKey
	copy(k[:], src[:32])
	return k
}
