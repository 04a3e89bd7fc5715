package lightclient

// SignedHeader pairs a header with the commit that produced it.
type SignedHeader struct {
	Header Header
	Commit Commit
}

// ValidateBasic checks that sh is internally self-consistent: the commit's
// block id hash must match the header's own hash, and the commit's height
// must match the header's height (spec.md §4.1 step 2, §6).
func (sh *SignedHeader) ValidateBasic(chainID string) error {
	if err := ValidateChainID(chainID); err != nil {
		return err
	}
	if sh.Header.ChainID != chainID {
		return newErr(KindImplementationSpecific, "header chain id does not match expected chain id")
	}
	if sh.Commit.Height != sh.Header.Height {
		return newErr(KindImplementationSpecific, "commit height does not match header height")
	}
	headerHash := sh.Header.Hash()
	if sh.Commit.BlockID.IsZero() || !sh.Commit.BlockID.Hash.Equal(headerHash) {
		return &VerifyError{Kind: KindInvalidCommitValue, HeaderHash: headerHash, OtherHash: sh.Commit.BlockID.Hash}
	}
	return nil
}
