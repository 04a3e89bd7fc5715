package lightclient

import "time"

// Commit is the set of precommit signatures a validator set produced for a
// single block at a given height and round.
type Commit struct {
	Height     uint64
	Round      uint64
	BlockID    BlockID
	Signatures []CommitSig
}

// Vote is one precommit reconstructed from a commit's signature list. Votes
// cast for the commit's block carry its BlockID; nil precommits carry an
// absent one.
type Vote struct {
	Height           uint64
	Round            uint64
	BlockID          BlockID
	Timestamp        time.Time
	ValidatorAddress AccountID
	ValidatorIndex   uint64
	Signature        []byte
}

// SignedVote pairs a reconstructed Vote with the chain id and canonical
// bytes its signature covers.
type SignedVote struct {
	Vote      Vote
	ChainID   string
	SignBytes []byte
}

// NonAbsentVotes reconstructs the precommit behind each non-absent
// signature slot, preserving slot order and recording each vote's validator
// index.
func (c *Commit) NonAbsentVotes() []Vote {
	votes := make([]Vote, 0, len(c.Signatures))
	for i, sig := range c.Signatures {
		if sig.IsAbsent() {
			continue
		}
		blockID := BlockID{}
		if sig.ForBlock() {
			blockID = c.BlockID
		}
		votes = append(votes, Vote{
			Height:           c.Height,
			Round:            c.Round,
			BlockID:          blockID,
			Timestamp:        sig.Timestamp,
			ValidatorAddress: sig.ValidatorAddress,
			ValidatorIndex:   uint64(i),
			Signature:        sig.Signature,
		})
	}
	return votes
}

// SignedVotes wraps each non-absent vote with the canonical sign-bytes a
// validator of chainID would have produced for it.
func (c *Commit) SignedVotes(chainID string) []SignedVote {
	votes := c.NonAbsentVotes()
	signed := make([]SignedVote, len(votes))
	for i, v := range votes {
		signed[i] = SignedVote{
			Vote:      v,
			ChainID:   chainID,
			SignBytes: CanonicalVoteSignBytes(chainID, v.Height, v.Round, v.BlockID, v.Timestamp),
		}
	}
	return signed
}

// Validate checks that c is structurally sound against vals, independent of
// any signature verification: it must be non-empty, carry exactly one slot
// per member of vals in the same order, and every non-absent slot's address
// must name an actual member of vals. The last rule is deliberately strict
// (an unknown signer is a fault, not merely ignored) so a single forged
// signer in a sequential-advance commit is caught as a malformed commit
// rather than silently discounted from the power tally.
func (c *Commit) Validate(vals *ValidatorSet) error {
	if len(c.Signatures) == 0 {
		return newErr(KindImplementationSpecific, "commit has no signatures")
	}
	if len(c.Signatures) != vals.Len() {
		return newErr(KindImplementationSpecific, "commit signature count does not match validator set size")
	}
	for _, sig := range c.Signatures {
		if sig.IsAbsent() {
			continue
		}
		if _, ok := vals.Validator(sig.ValidatorAddress); !ok {
			return newErr(KindImplementationSpecific, "commit signature references unknown validator "+sig.ValidatorAddress.String())
		}
	}
	return nil
}

// VotingPowerIn tallies the voting power, within vals, of every non-absent
// signature in c whose signature verifies. Unknown signers (addresses not
// present in vals) are skipped rather than treated as an error here — callers
// that require strict commit/validator-set agreement should call Validate
// first. A known signer appearing in more than one non-absent slot is
// rejected outright, since that can only happen through a malformed or
// adversarially constructed commit.
func (c *Commit) VotingPowerIn(chainID string, vals *ValidatorSet) (uint64, error) {
	seen := make(map[AccountID]bool, len(c.Signatures))
	var power uint64
	for _, sv := range c.SignedVotes(chainID) {
		val, ok := vals.Validator(sv.Vote.ValidatorAddress)
		if !ok {
			continue
		}
		if seen[sv.Vote.ValidatorAddress] {
			return 0, newErr(KindImplementationSpecific, "duplicate commit signature for validator")
		}
		seen[sv.Vote.ValidatorAddress] = true

		if !val.VerifySignature(sv.SignBytes, sv.Vote.Signature) {
			return 0, newErr(KindImplementationSpecific, "invalid commit signature")
		}

		next := power + val.VotingPower
		if next < power {
			return 0, newErr(KindOutOfRange, "commit signed voting power overflows")
		}
		power = next
	}
	return power, nil
}
