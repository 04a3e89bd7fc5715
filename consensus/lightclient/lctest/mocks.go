// Package lctest provides deterministic validator, commit, and header
// fixtures for exercising consensus/lightclient without needing a live
// chain. Every key and signature it produces is derived from a fixed seed,
// so tests built on it are fully reproducible (original_source's
// types/mocks.rs plays the same role for the crate this package is derived
// from, though that version mocks the validator set down to bare integers;
// this one signs real Ed25519 commits so VerifySingle's signature checks
// are exercised end to end, not bypassed).
package lctest

import (
	"crypto/ed25519"
	"crypto/sha256"
	"time"

	lc "github.com/tos-network/lightclient/consensus/lightclient"
)

// TestChainID is the chain id fixture tests default to.
const TestChainID = "lightclient-test-chain"

// privValSeed deterministically derives an Ed25519 seed for validator index
// i, so repeated calls with the same i always yield the same key.
func privValSeed(i int) []byte {
	digest := sha256.Sum256([]byte{byte('v'), byte(i >> 24), byte(i >> 16), byte(i >> 8), byte(i)})
	return digest[:]
}

// GenPrivVal returns the deterministic Ed25519 private key for validator
// index i.
func GenPrivVal(i int) ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(privValSeed(i))
}

// GenValidator builds the Validator fixture for index i with the given
// voting power, along with the private key that signs on its behalf.
func GenValidator(i int, power uint64) (lc.Validator, ed25519.PrivateKey) {
	priv := GenPrivVal(i)
	pub, err := lc.NewEd25519PubKey(priv.Public().(ed25519.PublicKey))
	if err != nil {
		panic(err)
	}
	val, err := lc.NewValidator(pub, power)
	if err != nil {
		panic(err)
	}
	return val, priv
}

// GenValidatorSet builds a ValidatorSet with one validator per entry of
// powers (validator index == slice index). The returned private keys are
// reordered to match the set's canonical (address-ascending) order, so
// privs[i] always signs for Validators()[i] and the result can be passed
// straight to GenCommit.
func GenValidatorSet(powers []uint64) (*lc.ValidatorSet, []ed25519.PrivateKey) {
	vals := make([]lc.Validator, len(powers))
	byAddr := make(map[lc.AccountID]ed25519.PrivateKey, len(powers))
	for i, p := range powers {
		var priv ed25519.PrivateKey
		vals[i], priv = GenValidator(i, p)
		byAddr[vals[i].Address] = priv
	}
	set := lc.NewValidatorSet(vals)
	privs := make([]ed25519.PrivateKey, set.Len())
	for i, v := range set.Validators() {
		privs[i] = byAddr[v.Address]
	}
	return set, privs
}

// FixedHash returns a deterministic, non-zero hash fixture, analogous to
// original_source's fixed_hash() helper.
func FixedHash() lc.Hash {
	return lc.SHA256Hash([]byte{5})
}

// GenCommit builds a Commit at height/round for blockID, with signerPrivs[i]
// signing on behalf of vals.Validators()[i] (so len(signerPrivs) must equal
// vals.Len()); entries of signerPrivs that are nil produce an absent
// signature for that slot, letting tests model partial participation.
func GenCommit(chainID string, height, round uint64, blockID lc.BlockID, vals *lc.ValidatorSet, signerPrivs []ed25519.PrivateKey, signTime time.Time) lc.Commit {
	members := vals.Validators()
	sigs := make([]lc.CommitSig, len(members))
	for i, v := range members {
		if i >= len(signerPrivs) || signerPrivs[i] == nil {
			sigs[i] = lc.NewCommitSigAbsent()
			continue
		}
		sigs[i] = signCommitSig(chainID, height, round, blockID, v.Address, signerPrivs[i], signTime)
	}
	return lc.Commit{Height: height, Round: round, BlockID: blockID, Signatures: sigs}
}

func signCommitSig(chainID string, height, round uint64, blockID lc.BlockID, addr lc.AccountID, priv ed25519.PrivateKey, signTime time.Time) lc.CommitSig {
	signBytes := lc.CanonicalVoteSignBytes(chainID, height, round, blockID, signTime)
	return lc.CommitSig{
		Kind:             lc.CommitSigCommit,
		ValidatorAddress: addr,
		Timestamp:        signTime,
		Signature:        ed25519.Sign(priv, signBytes),
	}
}

// GenHeader builds a Header whose ValidatorsHash/NextValidatorsHash match
// vals/nextVals. Callers compute h.Hash() only after this returns, then
// build the accompanying Commit's BlockID from that hash: a header cannot
// know its own hash in advance, so header and commit construction is always
// a two-step process (see buildSignedHeader in consensus/lightclient's
// verify_test.go for the pattern).
func GenHeader(height uint64, headerTime time.Time, vals, nextVals *lc.ValidatorSet, appHash []byte) lc.Header {
	return lc.Header{
		Version:            lc.Version{Block: 1, App: 0},
		ChainID:            TestChainID,
		Height:             height,
		Time:               headerTime,
		ValidatorsHash:     vals.Hash(),
		NextValidatorsHash: nextVals.Hash(),
		ConsensusHash:      FixedHash(),
		AppHash:            appHash,
		ProposerAddress:    vals.Validators()[0].Address,
	}
}
