// Package clmmaccount implements the on-chain account layouts (§6.1): the
// binary encode/decode for Pool, Tick Array (fixed and dynamic), Position,
// and Adaptive-Fee Oracle accounts, each prefixed by an 8-byte discriminator
// as Anchor-style Solana programs do. Grounded on the teacher's
// WhirlpoolPool/WhirlpoolTickArray decode routines, which parse the same
// kind of discriminator-prefixed little-endian layout by hand.
package clmmaccount

// Discriminator is the 8-byte tag every account layout in this package
// leads with, mirroring the teacher's SwapDiscriminator/SwapV2Discriminator
// byte arrays (constants.go) but identifying accounts rather than
// instructions.
type Discriminator = [8]byte

// Account discriminators. Values are arbitrary but fixed and distinct, the
// same way an Anchor program's are derived from its account type name; this
// module defines its own rather than reusing any on-chain program's.
var (
	PoolDiscriminator             = Discriminator{0x9c, 0x2e, 0x1a, 0x7f, 0x44, 0x0b, 0x61, 0xd3}
	FixedTickArrayDiscriminator   = Discriminator{0x3a, 0x88, 0xf1, 0x52, 0xc6, 0x0d, 0x29, 0x47}
	DynamicTickArrayDiscriminator = Discriminator{0x7e, 0x14, 0x9b, 0x0a, 0x5d, 0x33, 0xe8, 0x61}
	PositionDiscriminator         = Discriminator{0x4f, 0xa1, 0x6c, 0x9d, 0x02, 0x8b, 0x55, 0x1e}
	OracleDiscriminator           = Discriminator{0xd0, 0x6b, 0x3e, 0x77, 0x1f, 0x94, 0x0a, 0x2c}
)

// TickArraySeed, PositionSeed, and PoolSeed are the PDA seed prefixes a
// client derives addresses with, mirroring the teacher's WHIRLPOOL_SEED /
// TICK_ARRAY_SEED / POSITION_SEED string constants (constants.go).
const (
	PoolSeed      = "clmm_pool"
	TickArraySeed = "tick_array"
	PositionSeed  = "position"
	OracleSeed    = "adaptive_fee_oracle"
)
