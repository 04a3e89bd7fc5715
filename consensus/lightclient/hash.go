package lightclient

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashSize is the output size of the only supported hash algorithm, SHA-256.
const HashSize = 32

// Hash is a SHA-256 digest, the only supported algorithm. The type holds
// just the 32 digest bytes; it carries no algorithm tag. The zero Hash
// (all-zero bytes) is a real, distinct value from an absent/optional hash —
// optional header hashes carry a separate presence bool.
type Hash struct {
	bytes [HashSize]byte
}

// SHA256Hash computes the SHA-256 digest of b and wraps it as a Hash.
func SHA256Hash(b []byte) Hash {
	return Hash{bytes: sha256.Sum256(b)}
}

// HashFromBytes wraps an existing 32-byte digest. It returns ErrLength if b
// is not exactly HashSize bytes.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashSize {
		return h, newErr(KindLength, "hash must be 32 bytes")
	}
	copy(h.bytes[:], b)
	return h, nil
}

// Bytes returns the raw 32-byte digest.
func (h Hash) Bytes() []byte {
	out := make([]byte, HashSize)
	copy(out, h.bytes[:])
	return out
}

// Equal reports whether h equals other.
func (h Hash) Equal(other Hash) bool {
	return h == other
}

// IsZero reports whether h is the all-zero digest. This is distinct from
// "absent" — see the Hash type's doc comment.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String renders h as upper-case hex, the canonical display form.
func (h Hash) String() string {
	return strings.ToUpper(hex.EncodeToString(h.bytes[:]))
}

// ParseHash decodes a hash from hex, accepting either case.
func ParseHash(s string) (Hash, error) {
	b, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return Hash{}, newErr(KindParse, "invalid hash hex: "+err.Error())
	}
	return HashFromBytes(b)
}

// MarshalJSON renders the hash as an upper-case hex JSON string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return []byte(`"` + h.String() + `"`), nil
}

// UnmarshalJSON parses a hex JSON string into h.
func (h *Hash) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" {
		return newErr(KindParse, "empty hash")
	}
	parsed, err := ParseHash(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// MerkleRoot computes the simple Merkle root over leaves, preserving order.
// The tree is split at the largest power of two strictly less than the leaf
// count, so it is not balanced but is fully deterministic:
//
//	len(leaves) == 0 -> 32 zero bytes
//	len(leaves) == 1 -> SHA256(0x00 || leaves[0])
//	otherwise        -> SHA256(0x01 || MerkleRoot(left) || MerkleRoot(right))
func MerkleRoot(leaves [][]byte) Hash {
	switch len(leaves) {
	case 0:
		return Hash{}
	case 1:
		return leafHash(leaves[0])
	default:
		k := splitPoint(len(leaves))
		left := MerkleRoot(leaves[:k])
		right := MerkleRoot(leaves[k:])
		return innerHash(left, right)
	}
}

// splitPoint returns the largest power of two strictly less than n, for n>=2.
func splitPoint(n int) int {
	k := 1
	for k*2 < n {
		k *= 2
	}
	return k
}

func leafHash(b []byte) Hash {
	buf := make([]byte, 0, len(b)+1)
	buf = append(buf, 0x00)
	buf = append(buf, b...)
	return SHA256Hash(buf)
}

func innerHash(left, right Hash) Hash {
	buf := make([]byte, 0, 2*HashSize+1)
	buf = append(buf, 0x01)
	buf = append(buf, left.Bytes()...)
	buf = append(buf, right.Bytes()...)
	return SHA256Hash(buf)
}
