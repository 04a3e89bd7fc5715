package lightclient

import (
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	secpecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// PubKeyAlgorithm identifies which signature scheme a PubKey holds.
type PubKeyAlgorithm int

const (
	// PubKeyEd25519 is the required signature algorithm (spec.md §1).
	PubKeyEd25519 PubKeyAlgorithm = iota
	// PubKeySecp256k1 is the optional signature algorithm (spec.md §1).
	PubKeySecp256k1
)

// Wire type-prefix bytes for base64-encoded signatures carried in JSON
// (spec.md §6). These distinguish which algorithm produced a signature when
// the outer collaborator does not otherwise know.
var (
	SignaturePrefixEd25519   = [5]byte{0x17, 0x25, 0xDF, 0x65, 0x21}
	SignaturePrefixSecp256k1 = [5]byte{0x18, 0x26, 0xEA, 0x66, 0x22}
)

// PubKey is a tagged union over the two supported signature algorithms.
// Ed25519 keys are 32 raw bytes; Secp256k1 keys are SEC1-compressed, 33
// bytes.
type PubKey struct {
	Type  PubKeyAlgorithm
	Bytes []byte
}

// NewEd25519PubKey validates and wraps an Ed25519 public key.
func NewEd25519PubKey(b []byte) (PubKey, error) {
	if len(b) != ed25519.PublicKeySize {
		return PubKey{}, newErr(KindInvalidKey, "ed25519 public key must be 32 bytes")
	}
	return PubKey{Type: PubKeyEd25519, Bytes: append([]byte(nil), b...)}, nil
}

// NewSecp256k1PubKey validates and normalizes a Secp256k1 public key into
// compressed SEC1 form (33 bytes).
func NewSecp256k1PubKey(b []byte) (PubKey, error) {
	parsed, err := btcec.ParsePubKey(b)
	if err != nil {
		return PubKey{}, newErr(KindInvalidKey, "invalid secp256k1 public key: "+err.Error())
	}
	return PubKey{Type: PubKeySecp256k1, Bytes: parsed.SerializeCompressed()}, nil
}

// VerifySignature reports whether sig is a valid signature over signBytes
// under pk. It never panics and never returns an error: any malformed input
// (wrong key size, wrong signature size, unparsable key) simply verifies to
// false, per spec.md §4.5.
func (pk PubKey) VerifySignature(signBytes, sig []byte) bool {
	switch pk.Type {
	case PubKeyEd25519:
		return verifyEd25519(pk.Bytes, signBytes, sig)
	case PubKeySecp256k1:
		return verifySecp256k1(pk.Bytes, signBytes, sig)
	default:
		return false
	}
}

func verifyEd25519(pub, message, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), message, sig)
}

// verifySecp256k1 verifies a fixed 64-byte (r||s) ECDSA signature over the
// SHA-256 digest of message, mirroring the rsSignatureBytes/VerifyRawSignature
// shape used elsewhere in this codebase family for Secp256k1 verification.
func verifySecp256k1(pub, message, sig []byte) bool {
	if len(sig) != 64 {
		return false
	}
	pubKey, err := btcec.ParsePubKey(pub)
	if err != nil {
		return false
	}
	var r, s btcec.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow {
		return false
	}
	if overflow := s.SetByteSlice(sig[32:]); overflow {
		return false
	}
	signature := secpecdsa.NewSignature(&r, &s)
	digest := sha256.Sum256(message)
	return signature.Verify(digest[:], pubKey)
}
