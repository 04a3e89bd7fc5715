package lightclient

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind is the closed taxonomy of reasons VerifySingle can reject an
// untrusted header. Every VerifyError carries exactly one of these.
type ErrorKind int

const (
	// KindExpired means the trusting period has elapsed for the trusted header.
	KindExpired ErrorKind = iota
	// KindDurationOutOfRange means the trusted header's time is after now, or
	// the untrusted header's time is after now plus the allowed clock drift.
	KindDurationOutOfRange
	// KindNonIncreasingHeight means untrusted.height < trusted.height+1.
	KindNonIncreasingHeight
	// KindNonIncreasingTime means untrusted.time <= trusted.time.
	KindNonIncreasingTime
	// KindInvalidValidatorSet means header.validators_hash != vals.Hash(), or
	// the sequential-case validator binding failed.
	KindInvalidValidatorSet
	// KindInvalidNextValidatorSet means header.next_validators_hash != next_vals.Hash().
	KindInvalidNextValidatorSet
	// KindInvalidCommitValue means header.Hash() != commit.BlockID.Hash.
	KindInvalidCommitValue
	// KindInvalidCommit means the full validator set's signed power is <= 2/3 of total.
	KindInvalidCommit
	// KindInsufficientSignedVotingPower means the skipping-case overlap is below threshold.
	KindInsufficientSignedVotingPower
	// KindInvalidTrustThreshold means the fraction is outside [1/3, 1].
	KindInvalidTrustThreshold
	// KindImplementationSpecific covers commit-structure problems: empty,
	// length mismatch, unknown signer, duplicate vote, bad signature.
	KindImplementationSpecific
	// KindOutOfRange covers numeric decoding problems.
	KindOutOfRange
	// KindParse covers generic decoding/parsing problems.
	KindParse
	// KindInvalidKey covers malformed or unsupported cryptographic keys.
	KindInvalidKey
	// KindLength covers length-mismatch decoding problems.
	KindLength
)

func (k ErrorKind) String() string {
	switch k {
	case KindExpired:
		return "expired"
	case KindDurationOutOfRange:
		return "duration_out_of_range"
	case KindNonIncreasingHeight:
		return "non_increasing_height"
	case KindNonIncreasingTime:
		return "non_increasing_time"
	case KindInvalidValidatorSet:
		return "invalid_validator_set"
	case KindInvalidNextValidatorSet:
		return "invalid_next_validator_set"
	case KindInvalidCommitValue:
		return "invalid_commit_value"
	case KindInvalidCommit:
		return "invalid_commit"
	case KindInsufficientSignedVotingPower:
		return "insufficient_signed_voting_power"
	case KindInvalidTrustThreshold:
		return "invalid_trust_threshold"
	case KindImplementationSpecific:
		return "implementation_specific"
	case KindOutOfRange:
		return "out_of_range"
	case KindParse:
		return "parse"
	case KindInvalidKey:
		return "invalid_key"
	case KindLength:
		return "length"
	default:
		return "unknown"
	}
}

// sentinel errors, one per taxonomy entry, so callers can errors.Is against a
// stable kind without depending on VerifyError's structured fields.
var (
	ErrExpired                       = errors.New("lightclient: trusting period has expired")
	ErrDurationOutOfRange            = errors.New("lightclient: header time is after now")
	ErrNonIncreasingHeight           = errors.New("lightclient: non-increasing height")
	ErrNonIncreasingTime             = errors.New("lightclient: non-increasing time")
	ErrInvalidValidatorSet           = errors.New("lightclient: invalid validator set")
	ErrInvalidNextValidatorSet       = errors.New("lightclient: invalid next validator set")
	ErrInvalidCommitValue            = errors.New("lightclient: commit does not match header")
	ErrInvalidCommit                 = errors.New("lightclient: commit is not BFT-committed")
	ErrInsufficientSignedVotingPower = errors.New("lightclient: insufficient signed voting power")
	ErrInvalidTrustThreshold         = errors.New("lightclient: invalid trust threshold")
	ErrImplementationSpecific        = errors.New("lightclient: commit structure is invalid")
	ErrOutOfRange                    = errors.New("lightclient: value out of range")
	ErrParse                         = errors.New("lightclient: parse error")
	ErrInvalidKey                    = errors.New("lightclient: invalid key")
	ErrLength                        = errors.New("lightclient: length error")
)

func kindToSentinel(k ErrorKind) error {
	switch k {
	case KindExpired:
		return ErrExpired
	case KindDurationOutOfRange:
		return ErrDurationOutOfRange
	case KindNonIncreasingHeight:
		return ErrNonIncreasingHeight
	case KindNonIncreasingTime:
		return ErrNonIncreasingTime
	case KindInvalidValidatorSet:
		return ErrInvalidValidatorSet
	case KindInvalidNextValidatorSet:
		return ErrInvalidNextValidatorSet
	case KindInvalidCommitValue:
		return ErrInvalidCommitValue
	case KindInvalidCommit:
		return ErrInvalidCommit
	case KindInsufficientSignedVotingPower:
		return ErrInsufficientSignedVotingPower
	case KindInvalidTrustThreshold:
		return ErrInvalidTrustThreshold
	case KindImplementationSpecific:
		return ErrImplementationSpecific
	case KindOutOfRange:
		return ErrOutOfRange
	case KindParse:
		return ErrParse
	case KindInvalidKey:
		return ErrInvalidKey
	case KindLength:
		return ErrLength
	default:
		return ErrImplementationSpecific
	}
}

// VerifyError is returned by every failure path in this package. It always
// carries enough context to reconstruct the reason without re-running
// verification.
type VerifyError struct {
	Kind ErrorKind

	// Context fields; only the ones relevant to Kind are populated.
	Detail         string
	ExpiresAt      time.Time
	Now            time.Time
	GotHeight      uint64
	ExpectedHeight uint64
	HeaderHash     Hash
	OtherHash      Hash
	Total          uint64
	Signed         uint64
	Threshold      TrustThresholdFraction
}

func (e *VerifyError) Error() string {
	base := kindToSentinel(e.Kind).Error()
	switch e.Kind {
	case KindExpired:
		return fmt.Sprintf("%s: expired at %s (now %s)", base, e.ExpiresAt.Format(time.RFC3339Nano), e.Now.Format(time.RFC3339Nano))
	case KindDurationOutOfRange:
		return fmt.Sprintf("%s: header time %s > now %s", base, e.ExpiresAt.Format(time.RFC3339Nano), e.Now.Format(time.RFC3339Nano))
	case KindNonIncreasingHeight:
		return fmt.Sprintf("%s: got %d, expected >= %d", base, e.GotHeight, e.ExpectedHeight)
	case KindInvalidValidatorSet, KindInvalidNextValidatorSet:
		return fmt.Sprintf("%s: header hash %s != computed hash %s", base, e.HeaderHash, e.OtherHash)
	case KindInvalidCommitValue:
		return fmt.Sprintf("%s: header hash %s != commit block id hash %s", base, e.HeaderHash, e.OtherHash)
	case KindInvalidCommit, KindInsufficientSignedVotingPower:
		return fmt.Sprintf("%s: signed %d of total %d (threshold %d/%d)", base, e.Signed, e.Total, e.Threshold.Numerator, e.Threshold.Denominator)
	case KindImplementationSpecific, KindParse, KindInvalidKey, KindLength, KindOutOfRange:
		if e.Detail != "" {
			return fmt.Sprintf("%s: %s", base, e.Detail)
		}
		return base
	default:
		return base
	}
}

func (e *VerifyError) Unwrap() error {
	return kindToSentinel(e.Kind)
}

func newErr(kind ErrorKind, detail string) *VerifyError {
	return &VerifyError{Kind: kind, Detail: detail}
}
