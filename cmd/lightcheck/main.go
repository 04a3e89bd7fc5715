// Command lightcheck verifies a single untrusted signed header against a
// previously trusted state, the way a light client does between polling
// intervals. It takes no part in fetching headers or persisting trust -
// those are left to whatever embeds consensus/lightclient; this binary
// exists to exercise that package from the command line against fixture
// files.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	_ "github.com/tos-network/lightclient/internal/flags"
)

var app *cli.App

func init() {
	app = &cli.App{
		Name:                 "lightcheck",
		Usage:                "verify a single untrusted block header against a trusted light client state",
		Version:              "0.1.0",
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			commandVerify,
			commandBootstrap,
		},
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
