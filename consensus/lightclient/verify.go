package lightclient

import "time"

// VerifyOptions carries the tunables VerifySingle accepts beyond the core
// spec.md §4.1 algorithm. Present only to let callers absorb small amounts
// of clock skew between the light client and its peers; it is never applied
// to the expiry check, only to the "header time is in the future" check, so
// clock drift can never be used to revive an expired trusted header.
type VerifyOptions struct {
	ClockDrift time.Duration
}

// VerifySingle decides whether untrusted, backed by untrustedVals as its
// signing set and untrustedNextVals as the set that will sign the following
// block, can be promoted to replace trusted. It implements spec.md §4.1's
// six-step algorithm exactly:
//
//  1. reject if trusted has expired under trustingPeriod as of now, or if
//     trusted's own time lies in the future;
//  2. reject if untrusted is not internally self-consistent, its declared
//     validator set hashes don't match untrustedVals/untrustedNextVals, or
//     its commit is structurally unsound against untrustedVals;
//  3. reject if untrusted's time doesn't strictly increase over trusted's,
//     or if untrusted's time is after now (beyond the allowed clock drift);
//  4. reject if untrusted's height doesn't strictly increase over trusted's;
//  5. dispatch on height: sequential advance binds untrustedVals to
//     trusted's NextValidators directly; skipping advance requires the
//     intersection of trusted's NextValidators and untrustedVals to clear
//     trustThreshold;
//  6. reject unless untrusted's full validator set clears the fixed 2/3 BFT
//     commit threshold;
//
// and on success returns the new TrustedState.
func VerifySingle(
	trusted *TrustedState,
	chainID string,
	untrusted *SignedHeader,
	untrustedVals *ValidatorSet,
	untrustedNextVals *ValidatorSet,
	trustingPeriod time.Duration,
	now time.Time,
	trustThreshold TrustThresholdFraction,
	opts *VerifyOptions,
) (*TrustedState, error) {
	if err := trustThreshold.Validate(); err != nil {
		return nil, err
	}

	trustedHeader := &trusted.SignedHeader.Header
	if trustedHeader.Expired(trustingPeriod, now) {
		return nil, &VerifyError{Kind: KindExpired, ExpiresAt: trustedHeader.ExpiresAt(trustingPeriod), Now: now}
	}
	if trustedHeader.Time.After(now) {
		return nil, &VerifyError{Kind: KindDurationOutOfRange, ExpiresAt: trustedHeader.Time, Now: now}
	}

	if err := validateUntrusted(chainID, untrusted, untrustedVals, untrustedNextVals); err != nil {
		return nil, err
	}

	drift := time.Duration(0)
	if opts != nil {
		drift = opts.ClockDrift
	}
	if untrusted.Header.Time.After(now.Add(drift)) {
		return nil, &VerifyError{Kind: KindDurationOutOfRange, ExpiresAt: untrusted.Header.Time, Now: now}
	}
	if !untrusted.Header.Time.After(trustedHeader.Time) {
		return nil, &VerifyError{Kind: KindNonIncreasingTime}
	}

	successor := trusted.Height() + 1
	if successor == 0 {
		// Heights are bounded to 2^63-1 well before this can wrap; reaching
		// it means the caller fed a corrupt trusted state.
		panic("lightclient: trusted height overflows on increment")
	}
	if untrusted.Header.Height < successor {
		return nil, &VerifyError{Kind: KindNonIncreasingHeight, GotHeight: untrusted.Header.Height, ExpectedHeight: successor}
	}

	if untrusted.Header.Height == successor {
		if err := verifySequential(trusted, untrustedVals); err != nil {
			return nil, err
		}
	} else {
		if err := verifySkipping(trusted, untrusted, untrustedVals, trustThreshold); err != nil {
			return nil, err
		}
	}

	if err := verifyCommitFull(chainID, untrusted, untrustedVals); err != nil {
		return nil, err
	}

	return &TrustedState{SignedHeader: *untrusted, NextValidators: untrustedNextVals}, nil
}

// ValidateInitialSignedHeaderAndValSet performs only the self-consistency
// and full-commit checks (spec.md §4.1 steps 2 and 5), the subset a caller
// needs to accept a signed header and validator set as the very first
// trusted state, before any prior trusted state exists to verify against
// (spec.md §6).
func ValidateInitialSignedHeaderAndValSet(chainID string, sh *SignedHeader, vals *ValidatorSet) error {
	if err := validateUntrusted(chainID, sh, vals, nil); err != nil {
		return err
	}
	return verifyCommitFull(chainID, sh, vals)
}

// validateUntrusted performs spec.md §4.1 step 2, checking in order: sh's
// declared validators_hash matches vals, its next_validators_hash matches
// nextVals (skipped when nextVals is nil, as at bootstrap where no next set
// is supplied), sh is internally self-consistent, and its commit is
// structurally sound against vals (one slot per validator, no unknown
// signers). The order fixes which error kind surfaces when an adversarial
// header carries several defects at once.
func validateUntrusted(chainID string, sh *SignedHeader, vals, nextVals *ValidatorSet) error {
	computed := vals.Hash()
	if !sh.Header.ValidatorsHash.Equal(computed) {
		return &VerifyError{Kind: KindInvalidValidatorSet, HeaderHash: sh.Header.ValidatorsHash, OtherHash: computed}
	}
	if nextVals != nil {
		nextComputed := nextVals.Hash()
		if !sh.Header.NextValidatorsHash.Equal(nextComputed) {
			return &VerifyError{Kind: KindInvalidNextValidatorSet, HeaderHash: sh.Header.NextValidatorsHash, OtherHash: nextComputed}
		}
	}
	if err := sh.ValidateBasic(chainID); err != nil {
		return err
	}
	return sh.Commit.Validate(vals)
}

// verifySequential binds untrustedVals directly to trusted's NextValidators:
// the two must be the very same set, identified by hash. The previous block
// committed to exactly this set, so no voting-power overlap argument is
// needed; the BFT commit check that follows does the rest.
func verifySequential(trusted *TrustedState, untrustedVals *ValidatorSet) error {
	expected := trusted.NextValidators.Hash()
	got := untrustedVals.Hash()
	if !expected.Equal(got) {
		return &VerifyError{Kind: KindInvalidValidatorSet, HeaderHash: got, OtherHash: expected}
	}
	return nil
}

// verifySkipping handles a height jump of more than one: since
// untrustedVals need not be the same set as trusted.NextValidators, trust is
// instead established by requiring that the subset of trusted.NextValidators
// which also appears in untrustedVals (by address) both signs untrusted's
// commit and clears trustThreshold out of trusted.NextValidators' total
// power.
func verifySkipping(trusted *TrustedState, untrusted *SignedHeader, untrustedVals *ValidatorSet, trustThreshold TrustThresholdFraction) error {
	overlap := trusted.NextValidators.Intersect(untrustedVals)
	signed, err := untrusted.Commit.VotingPowerIn(untrusted.Header.ChainID, overlap)
	if err != nil {
		return err
	}
	total, err := trusted.NextValidators.TotalPower()
	if err != nil {
		return err
	}
	if !trustThreshold.IsEnoughPower(signed, total) {
		return &VerifyError{Kind: KindInsufficientSignedVotingPower, Signed: signed, Total: total, Threshold: trustThreshold}
	}
	return nil
}

// verifyCommitFull requires untrusted's own validator set to clear the
// fixed 2/3 BFT threshold against its own commit (spec.md §4.1 step 6); this
// check always uses 2/3, independent of the caller's trustThreshold, since
// it is asking whether the block itself was legitimately committed, not how
// much of it the light client is willing to trust on faith.
func verifyCommitFull(chainID string, sh *SignedHeader, vals *ValidatorSet) error {
	signed, err := sh.Commit.VotingPowerIn(chainID, vals)
	if err != nil {
		return err
	}
	total, err := vals.TotalPower()
	if err != nil {
		return err
	}
	if !DefaultTrustThreshold.IsEnoughPower(signed, total) {
		return &VerifyError{Kind: KindInvalidCommit, Signed: signed, Total: total, Threshold: DefaultTrustThreshold}
	}
	return nil
}
