package lightclient

// PartSetHeader describes the part-set a block was split into for gossip.
// It is opaque to verification; only its presence/absence and its bytes
// matter for hashing.
type PartSetHeader struct {
	Total uint64
	Hash  Hash
}

// BlockID identifies a block by the hash of its header plus, optionally, the
// part-set header used to gossip it. An "empty" block ID (zero hash) always
// parses to absent, regardless of what a parts header might otherwise
// contain (spec.md §3).
type BlockID struct {
	present bool
	Hash    Hash
	Parts   *PartSetHeader
}

// NewBlockID constructs a present BlockID. If hash is the zero hash, the
// result is folded to absent per spec.md §3.
func NewBlockID(hash Hash, parts *PartSetHeader) BlockID {
	if hash.IsZero() {
		return BlockID{}
	}
	return BlockID{present: true, Hash: hash, Parts: parts}
}

// IsZero reports whether this BlockID is absent.
func (b BlockID) IsZero() bool {
	return !b.present
}

// Equal compares two BlockIDs for equality, treating all absent values as
// equal to each other. Present BlockIDs are compared by hash only; their
// Parts headers are not compared.
func (b BlockID) Equal(other BlockID) bool {
	if b.present != other.present {
		return false
	}
	if !b.present {
		return true
	}
	return b.Hash == other.Hash
}
