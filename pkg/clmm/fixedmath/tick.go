package fixedmath

import (
	"math/big"

	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"

	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
)

const (
	logB2X32     = 59543866431248
	bitPrecision = 14
)

// logBPErrMarginLowerX64 and logBPErrMarginUpperX64 are the tick_math.rs
// error-margin constants; the original keeps these in i128, since
// logBPErrMarginUpperX64 alone overflows a 64-bit signed integer.
var (
	logBPErrMarginLowerX64 = bigFromDecimal("184467440737095516")   // 0.01
	logBPErrMarginUpperX64 = bigFromDecimal("15793534762490258745") // 2^-precision / log_2_b + 0.01
)

func bigFromDecimal(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("fixedmath: invalid decimal literal " + s)
	}
	return v
}

// SqrtPriceFromTick evaluates 1.0001^(i/2) in Q64.64 via the table
// multiplication method: for each set bit k of |i|, multiply by a
// precomputed Q64.64 factor for 2^k ticks, using a Q96 intermediate for
// positive ticks and a Q64 intermediate for negative ticks. Guaranteed to
// stay within [MinSqrtPrice, MaxSqrtPrice] for tickIndex in
// [MinTickIndex, MaxTickIndex].
func SqrtPriceFromTick(tickIndex int32) uint128.Uint128 {
	if tickIndex >= 0 {
		return sqrtPricePositiveTick(tickIndex)
	}
	return sqrtPriceNegativeTick(tickIndex)
}

// TickFromSqrtPrice computes floor(log_1.0001(p^2)) by locating the most
// significant bit of p, iteratively refining the fractional part for
// bitPrecision bits, applying a base-change to base 1.0001, and producing
// lower/upper estimates bracketed by hard-coded error margins. When the
// estimates disagree, it re-evaluates SqrtPriceFromTick at the upper
// estimate and picks the floor.
func TickFromSqrtPrice(sqrtPrice uint128.Uint128) int32 {
	x := sqrtPrice.Big()
	msb := uint(x.BitLen() - 1)
	log2pIntegerX32 := new(big.Int).Lsh(big.NewInt(int64(msb)-64), 32)

	// bit starts at 2^63, which overflows int64; the original implementation
	// uses i128 for this whole section (tick_math.rs), so this port widens
	// through math/big the same way the table-multiplication ladders above
	// already do.
	bit := new(big.Int).Lsh(big.NewInt(1), 63)
	precision := 0
	log2pFractionX64 := new(big.Int)

	r := new(big.Int).Set(x)
	if msb >= 64 {
		r.Rsh(r, msb-63)
	} else {
		r.Lsh(r, 63-msb)
	}

	for bit.Sign() > 0 && precision < bitPrecision {
		r.Mul(r, r)
		shiftFlag := uint(0)
		if r.BitLen() > 127 {
			shiftFlag = 1
		}
		r.Rsh(r, 63+shiftFlag)
		if shiftFlag == 1 {
			log2pFractionX64.Add(log2pFractionX64, bit)
		}
		bit.Rsh(bit, 1)
		precision++
	}

	log2pFractionX32 := new(big.Int).Rsh(log2pFractionX64, 32)
	log2pX32 := new(big.Int).Add(log2pIntegerX32, log2pFractionX32)

	logbpX64 := new(big.Int).Mul(log2pX32, big.NewInt(logB2X32))

	tickLow := int32(new(big.Int).Rsh(new(big.Int).Sub(logbpX64, logBPErrMarginLowerX64), 64).Int64())
	tickHigh := int32(new(big.Int).Rsh(new(big.Int).Add(logbpX64, logBPErrMarginUpperX64), 64).Int64())

	if tickLow == tickHigh {
		return tickLow
	}

	actualTickHighSqrtPrice := SqrtPriceFromTick(tickHigh)
	if actualTickHighSqrtPrice.Cmp(sqrtPrice) <= 0 {
		return tickHigh
	}
	return tickLow
}

// GetTickArrayStartTickIndex returns the first tick index of the 88-tick
// array that contains tickIndex at the given spacing.
func GetTickArrayStartTickIndex(tickIndex int32, tickSpacing uint16) int32 {
	spacing := int32(tickSpacing)
	realIndex := FloorDivision(FloorDivision(tickIndex, spacing), TickArraySize)
	return realIndex * spacing * TickArraySize
}

// GetInitializableTickIndex rounds tickIndex down (toward negative infinity)
// to an initializable (tick-spacing-aligned) index, or up when roundUp is set.
func GetInitializableTickIndex(tickIndex int32, tickSpacing uint16, roundUp bool) int32 {
	spacing := int32(tickSpacing)
	result := FloorDivision(tickIndex, spacing) * spacing
	if roundUp && result != tickIndex {
		return result + spacing
	}
	return result
}

// GetPrevInitializableTickIndex returns the largest initializable tick
// strictly below tickIndex.
func GetPrevInitializableTickIndex(tickIndex int32, tickSpacing uint16) int32 {
	aligned := GetInitializableTickIndex(tickIndex, tickSpacing, false)
	if tickIndex == aligned {
		return aligned - int32(tickSpacing)
	}
	return aligned
}

// GetNextInitializableTickIndex returns the smallest initializable tick
// strictly above tickIndex.
func GetNextInitializableTickIndex(tickIndex int32, tickSpacing uint16) int32 {
	aligned := GetInitializableTickIndex(tickIndex, tickSpacing, true)
	if tickIndex == aligned {
		return aligned + int32(tickSpacing)
	}
	return aligned
}

// IsTickIndexInBounds reports whether tickIndex falls within the global
// [MinTickIndex, MaxTickIndex] range.
func IsTickIndexInBounds(tickIndex int32) bool {
	return tickIndex >= MinTickIndex && tickIndex <= MaxTickIndex
}

// IsTickInitializable reports whether tickIndex is divisible by tickSpacing.
func IsTickInitializable(tickIndex int32, tickSpacing uint16) bool {
	return tickIndex%int32(tickSpacing) == 0
}

// ValidateSqrtPriceBounds returns SqrtPriceOutOfBounds if sqrtPrice falls
// outside [MinSqrtPrice, MaxSqrtPrice].
func ValidateSqrtPriceBounds(sqrtPrice uint128.Uint128) error {
	if sqrtPrice.Cmp(MinSqrtPrice) < 0 || sqrtPrice.Cmp(MaxSqrtPrice) > 0 {
		return clmmerr.SqrtPriceOutOfBounds{SqrtPrice: cosmath.NewIntFromBigInt(sqrtPrice.Big())}
	}
	return nil
}

func mulShift96(n0, n1 uint128.Uint128) uint128.Uint128 {
	product := new(big.Int).Mul(n0.Big(), n1.Big())
	product.Rsh(product, 96)
	return uint128.FromBig(product)
}

// sqrtPricePositiveTick implements get_sqrt_price_positive_tick: a Q96
// intermediate table-multiplication ladder over the set bits of tick.
func sqrtPricePositiveTick(tick int32) uint128.Uint128 {
	var ratio uint128.Uint128
	if tick&1 != 0 {
		ratio = mustU128("79232123823359799118286999567")
	} else {
		ratio = mustU128("79228162514264337593543950336")
	}

	factors := []struct {
		bit    int32
		factor string
	}{
		{2, "79236085330515764027303304731"},
		{4, "79244008939048815603706035061"},
		{8, "79259858533276714757314932305"},
		{16, "79291567232598584799939703904"},
		{32, "79355022692464371645785046466"},
		{64, "79482085999252804386437311141"},
		{128, "79736823300114093921829183326"},
		{256, "80248749790819932309965073892"},
		{512, "81282483887344747381513967011"},
		{1024, "83390072131320151908154831281"},
		{2048, "87770609709833776024991924138"},
		{4096, "97234110755111693312479820773"},
		{8192, "119332217159966728226237229890"},
		{16384, "179736315981702064433883588727"},
		{32768, "407748233172238350107850275304"},
		{65536, "2098478828474011932436660412517"},
		{131072, "55581415166113811149459800483533"},
		{262144, "38992368544603139932233054999993551"},
	}
	for _, f := range factors {
		if tick&f.bit != 0 {
			ratio = mulShift96(ratio, mustU128(f.factor))
		}
	}

	return ratio.Rsh(32)
}

// sqrtPriceNegativeTick implements get_sqrt_price_negative_tick: a Q64
// intermediate table-multiplication ladder over the set bits of |tick|.
func sqrtPriceNegativeTick(tick int32) uint128.Uint128 {
	absTick := tick
	if absTick < 0 {
		absTick = -absTick
	}

	var ratio uint128.Uint128
	if absTick&1 != 0 {
		ratio = uint128.From64(18445821805675392311)
	} else {
		ratio = uint128.New(0, 1) // 2^64, Q64.64 representation of 1.0
	}

	factors := []struct {
		bit    int32
		factor uint64
	}{
		{2, 18444899583751176498},
		{4, 18443055278223354162},
		{8, 18439367220385604838},
		{16, 18431993317065449817},
		{32, 18417254355718160513},
		{64, 18387811781193591352},
		{128, 18329067761203520168},
		{256, 18212142134806087854},
		{512, 17980523815641551639},
		{1024, 17526086738831147013},
		{2048, 16651378430235024244},
		{4096, 15030750278693429944},
		{8192, 12247334978882834399},
		{16384, 8131365268884726200},
		{32768, 3584323654723342297},
		{65536, 696457651847595233},
		{131072, 26294789957452057},
		{262144, 37481735321082},
	}
	for _, f := range factors {
		if absTick&f.bit != 0 {
			ratio = mulShiftRight64(ratio, f.factor)
		}
	}
	return ratio
}

func mulShiftRight64(ratio uint128.Uint128, factor uint64) uint128.Uint128 {
	product := new(big.Int).Mul(ratio.Big(), new(big.Int).SetUint64(factor))
	product.Rsh(product, 64)
	return uint128.FromBig(product)
}

func mustU128(s string) uint128.Uint128 {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("fixedmath: invalid decimal literal " + s)
	}
	return uint128.FromBig(b)
}
