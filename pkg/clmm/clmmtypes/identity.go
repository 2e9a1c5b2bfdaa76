// Package clmmtypes holds the external-identity references (§3.1, §3.4)
// that the pure accounting packages (pool, position, tickstate) deliberately
// leave out: mint/vault/program addresses. These are the fields the account
// layer (§6.1) and the external collaborators (§6.2/§6.3) actually need,
// kept as a thin separate package so pkg/clmm/pool and pkg/clmm/position
// stay free of any on-chain-identity concern, matching the teacher's own
// split between WhirlpoolPool's accounting fields and its solana.PublicKey
// identity fields.
package clmmtypes

import "github.com/gagliardetto/solana-go"

// PublicKey is the 32-byte external identity reference used throughout
// this package for mints, vaults, program addresses, and position/whirlpool
// references, matching the teacher's use of solana.PublicKey for the same
// fields in WhirlpoolPool and WhirlpoolRewardInfo.
type PublicKey = solana.PublicKey

// PoolIdentity carries the external-identity fields of a Pool account
// (§3.1) that sit alongside the pure accounting state in pool.Pool.
type PoolIdentity struct {
	WhirlpoolsConfig PublicKey
	TokenMintA       PublicKey
	TokenVaultA      PublicKey
	TokenMintB       PublicKey
	TokenVaultB      PublicKey
}

// Validate enforces the initialization invariant from §3.1: token_mint_a <
// token_mint_b in byte order.
func (id PoolIdentity) Validate() bool {
	return lessBytes(id.TokenMintA, id.TokenMintB)
}

func lessBytes(a, b PublicKey) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// RewardIdentity carries a reward slot's external-identity fields (§3.1,
// §6.1): mint, vault, and the 32 bytes of opaque extension data the layout
// reserves per slot.
type RewardIdentity struct {
	Mint      PublicKey
	Vault     PublicKey
	Extension [32]byte
}

// PositionIdentity carries a Position account's external-identity fields
// (§3.4): the owning pool and the position's identity token mint.
type PositionIdentity struct {
	Whirlpool    PublicKey
	PositionMint PublicKey
}
