package lightclient

import "time"

// CommitSigKind distinguishes the three shapes a single commit signature
// slot can take (spec.md §3).
type CommitSigKind int

const (
	// CommitSigAbsent means the validator did not vote in this commit.
	CommitSigAbsent CommitSigKind = iota
	// CommitSigCommit means the validator precommitted for the block this
	// commit is for.
	CommitSigCommit
	// CommitSigNil means the validator precommitted nil (not for this
	// block). It still counts toward signed voting power for the purpose
	// of this package's quorum check (spec.md §4.5), matching Tendermint's
	// own treatment of nil precommits.
	CommitSigNil
)

// CommitSig is one slot of a Commit's signature list, one per member of the
// validator set that produced the commit, in the same address order.
type CommitSig struct {
	Kind             CommitSigKind
	ValidatorAddress AccountID
	Timestamp        time.Time
	Signature        []byte
}

// NewCommitSigAbsent returns an absent commit signature.
func NewCommitSigAbsent() CommitSig {
	return CommitSig{Kind: CommitSigAbsent}
}

// IsAbsent reports whether this slot carries no vote.
func (c CommitSig) IsAbsent() bool {
	return c.Kind == CommitSigAbsent
}

// ForBlock reports whether this signature, if present, was cast for the
// commit's own block (Commit) or for nil (Nil). It is meaningless for an
// absent slot.
func (c CommitSig) ForBlock() bool {
	return c.Kind == CommitSigCommit
}
