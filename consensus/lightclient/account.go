package lightclient

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD160 is required by the wire format, not chosen for new designs.
)

// AccountIDSize is the length in bytes of a derived validator account ID.
const AccountIDSize = 20

// AccountID identifies a validator, derived deterministically from its
// public key. The derivation depends on the key's algorithm: see
// AccountIDFromPubKey.
type AccountID [AccountIDSize]byte

// AccountIDFromPubKey derives the account ID for pk per the key's algorithm:
// Ed25519 takes the first 20 bytes of SHA-256(pubkey); Secp256k1 takes
// RIPEMD160(SHA256(pubkey)).
func AccountIDFromPubKey(pk PubKey) (AccountID, error) {
	switch pk.Type {
	case PubKeyEd25519:
		digest := sha256.Sum256(pk.Bytes)
		var id AccountID
		copy(id[:], digest[:AccountIDSize])
		return id, nil
	case PubKeySecp256k1:
		sha := sha256.Sum256(pk.Bytes)
		r := ripemd160.New()
		r.Write(sha[:])
		var id AccountID
		copy(id[:], r.Sum(nil))
		return id, nil
	default:
		return AccountID{}, newErr(KindInvalidKey, "unknown public key algorithm")
	}
}

// Equal performs a constant-time comparison, as required for any
// security-sensitive address check (spec.md §4.5).
func (a AccountID) Equal(b AccountID) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// Less reports whether a sorts strictly before b in ascending byte order.
func (a AccountID) Less(b AccountID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// IsZero reports whether a is the all-zero account ID.
func (a AccountID) IsZero() bool {
	return a == AccountID{}
}

// String renders a as upper-case hex.
func (a AccountID) String() string {
	return strings.ToUpper(hex.EncodeToString(a[:]))
}

// ParseAccountID decodes an account ID from hex, accepting either case.
func ParseAccountID(s string) (AccountID, error) {
	b, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return AccountID{}, newErr(KindParse, "invalid account id hex: "+err.Error())
	}
	if len(b) != AccountIDSize {
		return AccountID{}, newErr(KindLength, "account id must be 20 bytes")
	}
	var id AccountID
	copy(id[:], b)
	return id, nil
}

func (a AccountID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *AccountID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseAccountID(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
