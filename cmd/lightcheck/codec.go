package main

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	lc "github.com/tos-network/lightclient/consensus/lightclient"
)

// This file implements the JSON fixture format lightcheck reads: hashes and
// addresses as hex strings, signatures and raw public keys as base64, and
// everything else as plain JSON, following the hex/base64 split the original
// Rust implementation's serialization/bytes.rs and serialization/custom.rs
// draw between "display as hex" and "display as base64" fields.

// jsonUint64 accepts both a bare JSON number and a decimal string, since
// u64 fields that can exceed JSON's safe integer range (height, round,
// voting_power) are conventionally emitted as strings.
type jsonUint64 uint64

func (u *jsonUint64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid uint64 %s: %w", string(data), err)
	}
	*u = jsonUint64(v)
	return nil
}

// decodeSignature decodes a base64 signature, stripping the optional 5-byte
// algorithm type prefix some encoders attach.
func decodeSignature(s string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(raw) > 5 {
		var prefix [5]byte
		copy(prefix[:], raw[:5])
		if prefix == lc.SignaturePrefixEd25519 || prefix == lc.SignaturePrefixSecp256k1 {
			raw = raw[5:]
		}
	}
	return raw, nil
}

type jsonPubKey struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (p jsonPubKey) toPubKey() (lc.PubKey, error) {
	raw, err := base64.StdEncoding.DecodeString(p.Value)
	if err != nil {
		return lc.PubKey{}, fmt.Errorf("pub_key value: %w", err)
	}
	switch p.Type {
	case "ed25519":
		return lc.NewEd25519PubKey(raw)
	case "secp256k1":
		return lc.NewSecp256k1PubKey(raw)
	default:
		return lc.PubKey{}, fmt.Errorf("unknown pub_key type %q", p.Type)
	}
}

type jsonValidator struct {
	PubKey      jsonPubKey `json:"pub_key"`
	VotingPower jsonUint64 `json:"voting_power"`
}

func (v jsonValidator) toValidator() (lc.Validator, error) {
	pk, err := v.PubKey.toPubKey()
	if err != nil {
		return lc.Validator{}, err
	}
	return lc.NewValidator(pk, uint64(v.VotingPower))
}

func toValidatorSet(vs []jsonValidator) (*lc.ValidatorSet, error) {
	out := make([]lc.Validator, len(vs))
	for i, v := range vs {
		val, err := v.toValidator()
		if err != nil {
			return nil, fmt.Errorf("validator %d: %w", i, err)
		}
		out[i] = val
	}
	return lc.NewValidatorSet(out), nil
}

type jsonPartSetHeader struct {
	Total jsonUint64 `json:"total"`
	Hash  string     `json:"hash"`
}

type jsonBlockID struct {
	Hash  string             `json:"hash"`
	Parts *jsonPartSetHeader `json:"parts,omitempty"`
}

func (b jsonBlockID) toBlockID() (lc.BlockID, error) {
	if b.Hash == "" {
		return lc.BlockID{}, nil
	}
	h, err := lc.ParseHash(b.Hash)
	if err != nil {
		return lc.BlockID{}, err
	}
	var parts *lc.PartSetHeader
	if b.Parts != nil {
		ph, err := lc.ParseHash(b.Parts.Hash)
		if err != nil {
			return lc.BlockID{}, err
		}
		parts = &lc.PartSetHeader{Total: uint64(b.Parts.Total), Hash: ph}
	}
	return lc.NewBlockID(h, parts), nil
}

type jsonCommitSig struct {
	Kind             string     `json:"kind"`
	ValidatorAddress string     `json:"validator_address,omitempty"`
	Timestamp        *time.Time `json:"timestamp,omitempty"`
	Signature        string     `json:"signature,omitempty"`
}

func (s jsonCommitSig) toCommitSig() (lc.CommitSig, error) {
	if s.Kind == "absent" || s.Kind == "" {
		return lc.NewCommitSigAbsent(), nil
	}
	addr, err := lc.ParseAccountID(s.ValidatorAddress)
	if err != nil {
		return lc.CommitSig{}, fmt.Errorf("validator_address: %w", err)
	}
	sig, err := decodeSignature(s.Signature)
	if err != nil {
		return lc.CommitSig{}, fmt.Errorf("signature: %w", err)
	}
	kind := lc.CommitSigCommit
	if s.Kind == "nil" {
		kind = lc.CommitSigNil
	}
	ts := time.Time{}
	if s.Timestamp != nil {
		ts = *s.Timestamp
	}
	return lc.CommitSig{Kind: kind, ValidatorAddress: addr, Timestamp: ts, Signature: sig}, nil
}

type jsonCommit struct {
	Height     jsonUint64      `json:"height"`
	Round      jsonUint64      `json:"round"`
	BlockID    jsonBlockID     `json:"block_id"`
	Signatures []jsonCommitSig `json:"signatures"`
}

func (c jsonCommit) toCommit() (lc.Commit, error) {
	blockID, err := c.BlockID.toBlockID()
	if err != nil {
		return lc.Commit{}, fmt.Errorf("block_id: %w", err)
	}
	sigs := make([]lc.CommitSig, len(c.Signatures))
	for i, s := range c.Signatures {
		sig, err := s.toCommitSig()
		if err != nil {
			return lc.Commit{}, fmt.Errorf("signature %d: %w", i, err)
		}
		sigs[i] = sig
	}
	return lc.Commit{Height: uint64(c.Height), Round: uint64(c.Round), BlockID: blockID, Signatures: sigs}, nil
}

type jsonVersion struct {
	Block uint64 `json:"block"`
	App   uint64 `json:"app"`
}

type jsonHeader struct {
	Version            jsonVersion  `json:"version"`
	ChainID            string       `json:"chain_id"`
	Height             jsonUint64   `json:"height"`
	Time               time.Time    `json:"time"`
	LastBlockID        *jsonBlockID `json:"last_block_id,omitempty"`
	LastCommitHash     string       `json:"last_commit_hash,omitempty"`
	DataHash           string       `json:"data_hash,omitempty"`
	ValidatorsHash     string       `json:"validators_hash"`
	NextValidatorsHash string       `json:"next_validators_hash"`
	ConsensusHash      string       `json:"consensus_hash"`
	AppHash            string       `json:"app_hash"`
	LastResultsHash    string       `json:"last_results_hash,omitempty"`
	EvidenceHash       string       `json:"evidence_hash,omitempty"`
	ProposerAddress    string       `json:"proposer_address"`
}

func parseOptionalHash(s string) (present bool, h lc.Hash, err error) {
	if s == "" {
		return false, lc.Hash{}, nil
	}
	h, err = lc.ParseHash(s)
	return err == nil, h, err
}

func (h jsonHeader) toHeader() (lc.Header, error) {
	var out lc.Header
	out.Version = lc.Version{Block: h.Version.Block, App: h.Version.App}
	out.ChainID = h.ChainID
	out.Height = uint64(h.Height)
	out.Time = h.Time

	if h.LastBlockID != nil {
		blockID, err := h.LastBlockID.toBlockID()
		if err != nil {
			return out, fmt.Errorf("last_block_id: %w", err)
		}
		out.LastBlockID = blockID
	}

	var err error
	if out.LastCommitHashPresent, out.LastCommitHash, err = parseOptionalHash(h.LastCommitHash); err != nil {
		return out, fmt.Errorf("last_commit_hash: %w", err)
	}
	if out.DataHashPresent, out.DataHash, err = parseOptionalHash(h.DataHash); err != nil {
		return out, fmt.Errorf("data_hash: %w", err)
	}
	if out.ValidatorsHash, err = lc.ParseHash(h.ValidatorsHash); err != nil {
		return out, fmt.Errorf("validators_hash: %w", err)
	}
	if out.NextValidatorsHash, err = lc.ParseHash(h.NextValidatorsHash); err != nil {
		return out, fmt.Errorf("next_validators_hash: %w", err)
	}
	if out.ConsensusHash, err = lc.ParseHash(h.ConsensusHash); err != nil {
		return out, fmt.Errorf("consensus_hash: %w", err)
	}
	if out.AppHash, err = hex.DecodeString(h.AppHash); err != nil {
		return out, fmt.Errorf("app_hash: %w", err)
	}
	if out.LastResultsHashPresent, out.LastResultsHash, err = parseOptionalHash(h.LastResultsHash); err != nil {
		return out, fmt.Errorf("last_results_hash: %w", err)
	}
	if out.EvidenceHashPresent, out.EvidenceHash, err = parseOptionalHash(h.EvidenceHash); err != nil {
		return out, fmt.Errorf("evidence_hash: %w", err)
	}
	if out.ProposerAddress, err = lc.ParseAccountID(h.ProposerAddress); err != nil {
		return out, fmt.Errorf("proposer_address: %w", err)
	}
	return out, nil
}

type jsonSignedHeader struct {
	Header jsonHeader `json:"header"`
	Commit jsonCommit `json:"commit"`
}

func (sh jsonSignedHeader) toSignedHeader() (lc.SignedHeader, error) {
	header, err := sh.Header.toHeader()
	if err != nil {
		return lc.SignedHeader{}, fmt.Errorf("header: %w", err)
	}
	commit, err := sh.Commit.toCommit()
	if err != nil {
		return lc.SignedHeader{}, fmt.Errorf("commit: %w", err)
	}
	return lc.SignedHeader{Header: header, Commit: commit}, nil
}

// trustedStateFile is the on-disk shape of a trusted-state fixture.
type trustedStateFile struct {
	SignedHeader   jsonSignedHeader `json:"signed_header"`
	NextValidators []jsonValidator  `json:"next_validators"`
}

func loadTrustedState(data []byte) (*lc.TrustedState, error) {
	var f trustedStateFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode trusted state: %w", err)
	}
	sh, err := f.SignedHeader.toSignedHeader()
	if err != nil {
		return nil, fmt.Errorf("trusted signed_header: %w", err)
	}
	nextVals, err := toValidatorSet(f.NextValidators)
	if err != nil {
		return nil, fmt.Errorf("trusted next_validators: %w", err)
	}
	return &lc.TrustedState{SignedHeader: sh, NextValidators: nextVals}, nil
}

// untrustedHeaderFile is the on-disk shape of an untrusted signed header
// together with the two validator sets verification needs: the set that
// signed it, and the set that will sign the block after it.
type untrustedHeaderFile struct {
	SignedHeader   jsonSignedHeader `json:"signed_header"`
	Validators     []jsonValidator  `json:"validators"`
	NextValidators []jsonValidator  `json:"next_validators"`
}

func loadUntrustedHeader(data []byte) (*lc.SignedHeader, *lc.ValidatorSet, *lc.ValidatorSet, error) {
	var f untrustedHeaderFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil, nil, fmt.Errorf("decode untrusted header: %w", err)
	}
	sh, err := f.SignedHeader.toSignedHeader()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("untrusted signed_header: %w", err)
	}
	vals, err := toValidatorSet(f.Validators)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("untrusted validators: %w", err)
	}
	nextVals, err := toValidatorSet(f.NextValidators)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("untrusted next_validators: %w", err)
	}
	return &sh, vals, nextVals, nil
}
