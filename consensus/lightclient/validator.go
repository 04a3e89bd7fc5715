package lightclient

import (
	"sort"
)

// Validator describes one member of a validator set.
type Validator struct {
	Address     AccountID
	PubKey      PubKey
	VotingPower uint64
	// ProposerPriority is present only on validator sets retrieved as part of
	// live consensus state; it plays no role in hashing or verification.
	ProposerPriority      int64
	ProposerPriorityValid bool
}

// NewValidator builds a Validator, deriving and checking its address from
// pubKey (spec.md §3: "Address must equal the derivation from pub_key").
func NewValidator(pubKey PubKey, votingPower uint64) (Validator, error) {
	addr, err := AccountIDFromPubKey(pubKey)
	if err != nil {
		return Validator{}, err
	}
	return Validator{Address: addr, PubKey: pubKey, VotingPower: votingPower}, nil
}

// VerifyAddress reports whether v.Address matches the derivation from
// v.PubKey.
func (v Validator) VerifyAddress() bool {
	addr, err := AccountIDFromPubKey(v.PubKey)
	if err != nil {
		return false
	}
	return addr.Equal(v.Address)
}

// VerifySignature checks sig over signBytes using v's public key.
func (v Validator) VerifySignature(signBytes, sig []byte) bool {
	return v.PubKey.VerifySignature(signBytes, sig)
}

// hashBytes returns the Merkle leaf content for v (pub_key + voting_power
// only; address and proposer priority are excluded, spec.md §3).
func (v Validator) hashBytes() []byte {
	return validatorHashBytes(v)
}

// ValidatorSet is an ordered, deduplicated, address-sorted collection of
// validators.
type ValidatorSet struct {
	validators []Validator
}

// NewValidatorSet builds a ValidatorSet from vals: duplicates by address are
// dropped (first occurrence wins) before sorting ascending by address
// (spec.md §3, §8).
func NewValidatorSet(vals []Validator) *ValidatorSet {
	seen := make(map[AccountID]bool, len(vals))
	deduped := make([]Validator, 0, len(vals))
	for _, v := range vals {
		if seen[v.Address] {
			continue
		}
		seen[v.Address] = true
		deduped = append(deduped, v)
	}
	sort.Slice(deduped, func(i, j int) bool {
		return deduped[i].Address.Less(deduped[j].Address)
	})
	return &ValidatorSet{validators: deduped}
}

// Validators returns the set's members in canonical (address-ascending)
// order. The returned slice must not be mutated by the caller.
func (s *ValidatorSet) Validators() []Validator {
	return s.validators
}

// Len returns the number of validators in the set.
func (s *ValidatorSet) Len() int {
	return len(s.validators)
}

// Hash computes the Merkle root of the set's validator hash-bytes, in
// address-ascending order (spec.md §4.2).
func (s *ValidatorSet) Hash() Hash {
	leaves := make([][]byte, len(s.validators))
	for i, v := range s.validators {
		leaves[i] = v.hashBytes()
	}
	return MerkleRoot(leaves)
}

// TotalPower sums the voting power of every validator in the set. It
// returns an error if the sum would overflow a signed 64-bit integer, since
// the wire format requires voting power to round-trip through a signed
// 64-bit field (spec.md §9).
func (s *ValidatorSet) TotalPower() (uint64, error) {
	var total uint64
	for _, v := range s.validators {
		next := total + v.VotingPower
		if next < total || next > uint64(1)<<63-1 {
			return 0, newErr(KindOutOfRange, "validator set total voting power overflows")
		}
		total = next
	}
	return total, nil
}

// Validator looks up a validator by address. The second return value
// reports whether it was found.
func (s *ValidatorSet) Validator(id AccountID) (Validator, bool) {
	// Sets are small in practice (hundreds of entries); a linear scan keeps
	// this simple and avoids building an auxiliary index for sets that are
	// rebuilt on every new header.
	for _, v := range s.validators {
		if v.Address.Equal(id) {
			return v, true
		}
	}
	return Validator{}, false
}

// Intersect returns the subset of validators present (by address) in both s
// and other, keeping s's voting power for each address, so the powers in the
// result always come from the receiver and downstream voting-power
// computations are deterministic (spec.md §9).
func (s *ValidatorSet) Intersect(other *ValidatorSet) *ValidatorSet {
	out := make([]Validator, 0, s.Len())
	for _, v := range s.validators {
		if _, ok := other.Validator(v.Address); ok {
			out = append(out, v)
		}
	}
	return NewValidatorSet(out)
}
