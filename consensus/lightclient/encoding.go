package lightclient

import (
	"encoding/binary"
	"time"
)

// This file implements the canonical byte encodings described in spec.md
// §4.3: a fixed field order, length-delimited framing for variable-size
// values, and fixed-width framing where the protocol calls for it. These are
// NOT a re-implementation of upstream Tendermint's go-amino wire format —
// they are this project's own canonical encoding, internally consistent
// end-to-end (the same encoder both produces header hash leaves and the
// bytes validators sign), which is what correctness actually depends on
// here (spec.md §8's round-trip property, not byte-for-byte interop with an
// external chain).

// timestampSentinelSeconds is the "year 1 AD" sentinel substituted for a
// missing canonical-vote timestamp (spec.md §4.3, §9). Never substitute
// epoch 0 here: that would collide with a real, valid timestamp.
const timestampSentinelSeconds = -62135596800

func appendUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

// appendSvarint appends v as a plain (non-zigzag) varint of its uint64 bit
// pattern. Amino-style int64/int32 fields use this representation, unlike
// protobuf's sint32/sint64 which zigzag-encode.
func appendSvarint(buf []byte, v int64) []byte {
	return appendUvarint(buf, uint64(v))
}

func appendFixed32LE(buf []byte, v int32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	return append(buf, tmp[:]...)
}

func appendFixed64LE(buf []byte, v int64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(v))
	return append(buf, tmp[:]...)
}

// appendLengthDelimited appends varint(len(data)) followed by data.
func appendLengthDelimited(buf, data []byte) []byte {
	buf = appendUvarint(buf, uint64(len(data)))
	return append(buf, data...)
}

// encodeVersion canonically encodes {block, app} as two back-to-back varints.
func encodeVersion(v Version) []byte {
	var buf []byte
	buf = appendUvarint(buf, v.Block)
	buf = appendUvarint(buf, v.App)
	return buf
}

// timeMsg is the canonical {seconds, nanos} wire representation of a
// timestamp.
type timeMsg struct {
	seconds int64
	nanos   int32
}

func toTimeMsg(t time.Time) timeMsg {
	if t.IsZero() {
		return timeMsg{seconds: timestampSentinelSeconds, nanos: 0}
	}
	return timeMsg{seconds: t.Unix(), nanos: int32(t.Nanosecond())}
}

// encodeTimeVarint canonically encodes a timestamp as {seconds: signed
// varint, nanos: 32-bit signed varint}, used for header field hashing.
func encodeTimeVarint(t time.Time) []byte {
	tm := toTimeMsg(t)
	var buf []byte
	buf = appendSvarint(buf, tm.seconds)
	buf = appendSvarint(buf, int64(tm.nanos))
	return buf
}

// encodeOptionalHash returns the canonical field bytes for an optional hash:
// present hashes are length-delimited raw bytes, absent ones serialize to a
// truly empty byte string (no length prefix at all), so the two cases are
// never confusable as leaves (spec.md §4.3).
func encodeOptionalHash(present bool, h Hash) []byte {
	if !present {
		return nil
	}
	return appendLengthDelimited(nil, h.Bytes())
}

func encodeHash(h Hash) []byte {
	return appendLengthDelimited(nil, h.Bytes())
}

// encodeBlockIDMessage canonically encodes a BlockID as a nested message:
// {hash: length-delimited bytes, parts: optional {total: varint, hash: length-delimited bytes}}.
func encodeBlockIDMessage(id BlockID) []byte {
	if id.IsZero() {
		return nil
	}
	var body []byte
	body = append(body, encodeHash(id.Hash)...)
	if id.Parts != nil {
		var parts []byte
		parts = appendUvarint(parts, id.Parts.Total)
		parts = append(parts, encodeHash(id.Parts.Hash)...)
		body = append(body, appendLengthDelimited(nil, parts)...)
	} else {
		body = append(body, 0x00)
	}
	return body
}

// headerFieldLeaves returns the 14 canonical Merkle leaves for h's hash, in
// the fixed field order from spec.md §3. Each present field's leaf content
// is length-delimited(serialize(field)); absent optionals serialize to a
// truly empty leaf content.
func headerFieldLeaves(h *Header) [][]byte {
	leaves := make([][]byte, 0, 14)
	leaves = append(leaves, appendLengthDelimited(nil, encodeVersion(h.Version)))
	leaves = append(leaves, appendLengthDelimited(nil, []byte(h.ChainID)))
	leaves = append(leaves, appendLengthDelimited(nil, appendUvarint(nil, h.Height)))
	leaves = append(leaves, appendLengthDelimited(nil, encodeTimeVarint(h.Time)))
	leaves = append(leaves, lengthDelimitIfPresent(encodeBlockIDMessage(h.LastBlockID), !h.LastBlockID.IsZero()))
	leaves = append(leaves, encodeOptionalHash(h.LastCommitHashPresent, h.LastCommitHash))
	leaves = append(leaves, encodeOptionalHash(h.DataHashPresent, h.DataHash))
	leaves = append(leaves, encodeHash(h.ValidatorsHash))
	leaves = append(leaves, encodeHash(h.NextValidatorsHash))
	leaves = append(leaves, encodeHash(h.ConsensusHash))
	leaves = append(leaves, appendLengthDelimited(nil, h.AppHash))
	leaves = append(leaves, encodeOptionalHash(h.LastResultsHashPresent, h.LastResultsHash))
	leaves = append(leaves, encodeOptionalHash(h.EvidenceHashPresent, h.EvidenceHash))
	leaves = append(leaves, appendLengthDelimited(nil, h.ProposerAddress[:]))
	return leaves
}

func lengthDelimitIfPresent(body []byte, present bool) []byte {
	if !present {
		return nil
	}
	return appendLengthDelimited(nil, body)
}

// pubKeyTag is the single-byte algorithm prefix used inside validator hash
// leaves, in the style of this codebase family's signature-metadata alg tags
// (see accountsigner's signatureMetaAlg* bytes in the donor repo).
const (
	pubKeyTagEd25519   byte = 0x01
	pubKeyTagSecp256k1 byte = 0x02
)

func pubKeyTag(alg PubKeyAlgorithm) byte {
	if alg == PubKeySecp256k1 {
		return pubKeyTagSecp256k1
	}
	return pubKeyTagEd25519
}

// validatorHashBytes returns the Merkle leaf content for v: a
// length-delimited message of {pub_key: typed-prefixed bytes, voting_power:
// varint}. The address and proposer priority are intentionally excluded
// (spec.md §3).
func validatorHashBytes(v Validator) []byte {
	tagged := append([]byte{pubKeyTag(v.PubKey.Type)}, v.PubKey.Bytes...)
	var buf []byte
	buf = appendLengthDelimited(buf, tagged)
	buf = appendUvarint(buf, v.VotingPower)
	return buf
}

// canonicalVoteTypePrecommit is the fixed vote-type tag for precommits, the only
// vote kind this package signs over.
const canonicalVoteTypePrecommit uint32 = 0x02

// CanonicalVoteSignBytes computes the bytes a validator signs for a single
// non-absent commit signature, per spec.md §4.3: a fixed vote-type, fixed
// signed height/round, optional canonical block id, a timestamp (substituted
// with the year-1-AD sentinel if absent), and the chain id, all wrapped in
// one outer length-delimited message. Exported so a validator (or a test
// fixture acting as one) can produce exactly the bytes this package checks
// a commit signature against.
func CanonicalVoteSignBytes(chainID string, height uint64, round uint64, blockID BlockID, timestamp time.Time) []byte {
	var body []byte
	body = appendFixed32LE(body, int32(canonicalVoteTypePrecommit))
	body = appendFixed64LE(body, int64(height))
	body = appendFixed64LE(body, int64(round))
	if blockID.IsZero() {
		body = append(body, 0x00)
	} else {
		body = append(body, 0x01)
		body = appendLengthDelimited(body, encodeBlockIDMessage(blockID))
	}
	body = appendLengthDelimited(body, encodeTimeVarint(timestamp))
	body = appendLengthDelimited(body, []byte(chainID))
	return appendLengthDelimited(nil, body)
}
