package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	lc "github.com/tos-network/lightclient/consensus/lightclient"
	"github.com/tos-network/lightclient/internal/flags"
	"github.com/tos-network/lightclient/internal/lclog"
)

var (
	trustedFileFlag = &cli.StringFlag{
		Name:     "trusted",
		Usage:    "path to a trusted-state JSON fixture",
		Required: true,
		Category: flags.LightCategory,
	}
	untrustedFileFlag = &cli.StringFlag{
		Name:     "untrusted",
		Usage:    "path to an untrusted signed-header JSON fixture",
		Required: true,
		Category: flags.LightCategory,
	}
	chainIDFlag = &cli.StringFlag{
		Name:     "chain-id",
		Usage:    "chain id the header must belong to",
		Required: true,
		Category: flags.LightCategory,
	}
	trustingPeriodFlag = &cli.DurationFlag{
		Name:     "trusting-period",
		Usage:    "duration after which a trusted header is no longer trusted",
		Value:    48 * time.Hour,
		Category: flags.LightCategory,
	}
	trustLevelFlag = &cli.StringFlag{
		Name:     "trust-level",
		Usage:    "trust threshold fraction as num/den, e.g. 2/3",
		Value:    "2/3",
		Category: flags.LightCategory,
	}
	clockDriftFlag = &cli.DurationFlag{
		Name:     "clock-drift",
		Usage:    "tolerated clock skew when checking a header isn't from the future",
		Category: flags.LightCategory,
	}
	jsonOutputFlag = &cli.BoolFlag{
		Name:     "json",
		Usage:    "print the result as JSON",
		Category: flags.LightCategory,
	}
)

var commandVerify = &cli.Command{
	Name:      "verify",
	Usage:     "check whether an untrusted header can be promoted to a new trusted state",
	ArgsUsage: " ",
	Flags: []cli.Flag{
		trustedFileFlag,
		untrustedFileFlag,
		chainIDFlag,
		trustingPeriodFlag,
		trustLevelFlag,
		clockDriftFlag,
		jsonOutputFlag,
	},
	Action: runVerify,
}

type verifyResult struct {
	Height  uint64 `json:"height"`
	Hash    string `json:"hash"`
	Verdict string `json:"verdict"`
}

func runVerify(c *cli.Context) error {
	runID := uuid.New().String()
	lclog.Info("verify starting", "run", runID)

	trustedData, err := os.ReadFile(c.String(trustedFileFlag.Name))
	if err != nil {
		return fmt.Errorf("read trusted state: %w", err)
	}
	trusted, err := loadTrustedState(trustedData)
	if err != nil {
		return err
	}

	untrustedData, err := os.ReadFile(c.String(untrustedFileFlag.Name))
	if err != nil {
		return fmt.Errorf("read untrusted header: %w", err)
	}
	untrusted, untrustedVals, untrustedNextVals, err := loadUntrustedHeader(untrustedData)
	if err != nil {
		return err
	}

	threshold, err := parseTrustLevel(c.String(trustLevelFlag.Name))
	if err != nil {
		return err
	}

	opts := &lc.VerifyOptions{ClockDrift: c.Duration(clockDriftFlag.Name)}

	next, err := lc.VerifySingle(
		trusted,
		c.String(chainIDFlag.Name),
		untrusted,
		untrustedVals,
		untrustedNextVals,
		c.Duration(trustingPeriodFlag.Name),
		time.Now(),
		threshold,
		opts,
	)
	if err != nil {
		lclog.Warn("verify rejected header", "run", runID, "err", err)
		return printResult(c, verifyResult{Verdict: "rejected: " + err.Error()})
	}

	lclog.Info("verify accepted header", "run", runID, "height", next.Height())
	return printResult(c, verifyResult{
		Height:  next.Height(),
		Hash:    next.SignedHeader.Header.Hash().String(),
		Verdict: "accepted",
	})
}

var commandBootstrap = &cli.Command{
	Name:      "bootstrap",
	Usage:     "validate a signed header and validator set as an initial trusted state",
	ArgsUsage: " ",
	Flags: []cli.Flag{
		untrustedFileFlag,
		chainIDFlag,
		jsonOutputFlag,
	},
	Action: runBootstrap,
}

func runBootstrap(c *cli.Context) error {
	data, err := os.ReadFile(c.String(untrustedFileFlag.Name))
	if err != nil {
		return fmt.Errorf("read signed header: %w", err)
	}
	sh, vals, _, err := loadUntrustedHeader(data)
	if err != nil {
		return err
	}
	if err := lc.ValidateInitialSignedHeaderAndValSet(c.String(chainIDFlag.Name), sh, vals); err != nil {
		return printResult(c, verifyResult{Verdict: "rejected: " + err.Error()})
	}
	return printResult(c, verifyResult{
		Height:  sh.Header.Height,
		Hash:    sh.Header.Hash().String(),
		Verdict: "accepted",
	})
}

func printResult(c *cli.Context, r verifyResult) error {
	if c.Bool(jsonOutputFlag.Name) {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	fmt.Printf("height=%d hash=%s verdict=%s\n", r.Height, r.Hash, r.Verdict)
	return nil
}

func parseTrustLevel(s string) (lc.TrustThresholdFraction, error) {
	var num, den uint64
	if _, err := fmt.Sscanf(s, "%d/%d", &num, &den); err != nil {
		return lc.TrustThresholdFraction{}, fmt.Errorf("invalid trust level %q: %w", s, err)
	}
	return lc.NewTrustThresholdFraction(num, den)
}
