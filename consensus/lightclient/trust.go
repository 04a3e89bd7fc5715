package lightclient

import "math/bits"

// TrustThresholdFraction is the fraction of a validator set's voting power
// that must sign a commit for it to count as trusted, expressed as
// Numerator/Denominator (spec.md §4.4). It must always resolve to at least
// one third and at most one, the same bound BFT quorum arithmetic relies on
// elsewhere in this codebase family (consensus/bft's RequiredQuorumWeight).
type TrustThresholdFraction struct {
	Numerator   uint64
	Denominator uint64
}

// DefaultTrustThreshold is the conventional 2/3 threshold.
var DefaultTrustThreshold = TrustThresholdFraction{Numerator: 2, Denominator: 3}

// NewTrustThresholdFraction validates and constructs a fraction. The
// denominator must be positive, the numerator must not exceed it, and the
// fraction must be at least 1/3 (3*numerator >= denominator), matching
// spec.md §4.4 exactly.
func NewTrustThresholdFraction(numerator, denominator uint64) (TrustThresholdFraction, error) {
	f := TrustThresholdFraction{Numerator: numerator, Denominator: denominator}
	if err := f.Validate(); err != nil {
		return TrustThresholdFraction{}, err
	}
	return f, nil
}

// Validate reports whether f is a well-formed trust threshold.
func (f TrustThresholdFraction) Validate() error {
	if f.Denominator == 0 {
		return newErr(KindInvalidTrustThreshold, "trust threshold denominator must be positive")
	}
	if f.Numerator > f.Denominator {
		return newErr(KindInvalidTrustThreshold, "trust threshold numerator must not exceed denominator")
	}
	if 3*f.Numerator < f.Denominator {
		return newErr(KindInvalidTrustThreshold, "trust threshold must be at least 1/3")
	}
	return nil
}

// MinimumPowerToBeTrusted returns the smallest voting power that must sign,
// out of total, to satisfy f: floor(total*numerator/denominator) + 1. The
// intermediate product is computed in 128 bits so large totals (up to
// 2^63-1) cannot silently wrap.
func (f TrustThresholdFraction) MinimumPowerToBeTrusted(total uint64) uint64 {
	hi, lo := bits.Mul64(total, f.Numerator)
	q, _ := bits.Div64(hi, lo, f.Denominator)
	return q + 1
}

// IsEnoughPower reports whether signed voting power out of total satisfies
// f. It compares signed*denominator > total*numerator in 128-bit arithmetic,
// which is equivalent to signed >= MinimumPowerToBeTrusted(total) for all
// integer inputs and avoids the integer division.
func (f TrustThresholdFraction) IsEnoughPower(signed, total uint64) bool {
	lhsHi, lhsLo := bits.Mul64(signed, f.Denominator)
	rhsHi, rhsLo := bits.Mul64(total, f.Numerator)
	if lhsHi != rhsHi {
		return lhsHi > rhsHi
	}
	return lhsLo > rhsLo
}
