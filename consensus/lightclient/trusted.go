package lightclient

// TrustedState is the previously verified header and validator set a caller
// holds, against which an untrusted header is checked (spec.md §4.1).
type TrustedState struct {
	SignedHeader SignedHeader
	// NextValidators is the validator set that will sign the block at
	// SignedHeader.Header.Height+1. It is what untrusted.validators is
	// checked against in the sequential case, and what a skipping-case
	// intersection is computed from.
	NextValidators *ValidatorSet
}

// Height returns the trusted header's height.
func (t *TrustedState) Height() uint64 {
	return t.SignedHeader.Header.Height
}
