package swap

// Quote runs the same §4.G algorithm as Swap but is named separately for
// callers that want a preview: the caller simply discards Result instead of
// writing it back to the pool, tick arrays, and oracle, mirroring the
// original's swap_quote_by_input_token/swap_quote_by_output_token split
// (rust-sdk/core/src/quote/swap.rs) which wraps the same core step loop this
// package's Swap already implements. Swap never mutates p.Pool or p.Sequence
// in place, so no separate non-mutating code path is needed; Quote documents
// that contract for call sites where "preview only" is the whole point.
func Quote(p Params) (Result, error) {
	return Swap(p)
}
