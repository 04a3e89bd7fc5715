package lightclient

import (
	"time"
)

// Version is the consensus version tuple carried by every header.
type Version struct {
	Block uint64
	App   uint64
}

// MinChainIDLength and MaxChainIDLength bound the length of a chain
// identifier, supplemented from original_source/src/types/client/id.rs's
// length-bounded identifier. Only the length is checked (see
// ValidateChainID); the characters of a chain id are not restricted.
const (
	MinChainIDLength = 1
	MaxChainIDLength = 50
)

// ValidateChainID checks id against the length bound this project enforces.
// Tendermint itself allows up to 50 bytes; this is that same bound.
func ValidateChainID(id string) error {
	if len(id) < MinChainIDLength || len(id) > MaxChainIDLength {
		return newErr(KindLength, "chain id must be between 1 and 50 bytes")
	}
	return nil
}

// Header is the immutable block header this package verifies. Field order
// here fixes the header hash (spec.md §3) and must not be reordered.
type Header struct {
	Version Version
	ChainID string
	Height  uint64
	Time    time.Time

	LastBlockID BlockID

	LastCommitHashPresent bool
	LastCommitHash        Hash

	DataHashPresent bool
	DataHash        Hash

	ValidatorsHash     Hash
	NextValidatorsHash Hash
	ConsensusHash      Hash

	AppHash []byte

	LastResultsHashPresent bool
	LastResultsHash        Hash

	EvidenceHashPresent bool
	EvidenceHash        Hash

	ProposerAddress AccountID
}

// Hash computes the header hash: the Merkle root of its 14 canonically
// encoded fields (spec.md §4.2, §4.3).
func (h *Header) Hash() Hash {
	return MerkleRoot(headerFieldLeaves(h))
}

// Expired reports whether h's time plus trustingPeriod is no later than now.
// The boundary is inclusive of expiry: expiresAt == now counts as expired
// (spec.md §4.1 step 1).
func (h *Header) Expired(trustingPeriod time.Duration, now time.Time) bool {
	expiresAt := h.Time.Add(trustingPeriod)
	return !expiresAt.After(now)
}

// ExpiresAt returns the instant at which h stops being trustable under
// trustingPeriod.
func (h *Header) ExpiresAt(trustingPeriod time.Duration) time.Time {
	return h.Time.Add(trustingPeriod)
}
