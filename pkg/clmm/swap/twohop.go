package swap

import (
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmerr"
	"github.com/Solana-ZH/whirlpool-clmm-core/pkg/clmm/clmmtypes"
)

// TwoHopLink bundles the cross-pool facts a caller composing two single-hop
// swaps (§1: "layered composition of two single-hop swaps") must check
// before executing either leg, grounded on two_hop_swap.rs's handler: the
// two pool addresses, the token mint the first leg outputs and the second
// leg takes as input, and the intermediate token amount each leg computed.
type TwoHopLink struct {
	PoolOne               clmmtypes.PublicKey
	PoolTwo               clmmtypes.PublicKey
	OutputMintOne         clmmtypes.PublicKey
	InputMintTwo          clmmtypes.PublicKey
	IntermediateAmountOne uint64
	IntermediateAmountTwo uint64
}

// ValidateTwoHopLink enforces the invariants two_hop_swap.rs's handler checks
// before running either leg's swap loop: the two legs must not target the
// same pool, the first leg's output mint must be the second leg's input
// mint, and (once both legs have been quoted) the intermediate amount must
// balance exactly between them. This core never executes token transfers
// itself (§1), so the caller quotes both legs with Quote and passes the
// results in; this function only checks the composition is well-formed.
func ValidateTwoHopLink(link TwoHopLink) error {
	if link.PoolOne == link.PoolTwo {
		return clmmerr.DuplicateTwoHopPool{}
	}
	if link.OutputMintOne != link.InputMintTwo {
		return clmmerr.InvalidIntermediaryMint{}
	}
	if link.IntermediateAmountOne != link.IntermediateAmountTwo {
		return clmmerr.IntermediateTokenAmountMismatch{}
	}
	return nil
}
