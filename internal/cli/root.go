// Package cli implements the poneglyph command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	as        string
	logLevel  string
}

var flags rootFlags

var errNoCaller = errors.New("no caller: pass --as <address>")

// NewRootCmd creates the top-level "poneglyph" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "poneglyph",
		Short: "Stake, copy and contest the Originals",
		Long: "poneglyph runs the ownership contest over a fixed set of Originals:\n" +
			"holders stake value on artifacts, anyone may mint Copies of an Original,\n" +
			"and players without an Original may challenge for one.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.poneglyph-db)")
	pf.BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	pf.StringVar(&flags.as, "as", "", "address acting as the caller")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, off)")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newDepositCmd(),
		newMintCmd(),
		newChallengeCmd(),
		newVictoryCmd(),
		newStakeCmd(),
		newArtifactsCmd(),
		newHoldingsCmd(),
		newContestsCmd(),
		newOwnerCmd(),
		newLedgerCmd(),
		newMetricsCmd(),
		newExportCmd(),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(report(os.Stderr, err))
	}
}

// report prints err and returns its exit code.
func report(w io.Writer, err error) int {
	fmt.Fprintln(w, "Error:", err)
	return exitCode(err)
}

// userErrors are rejections caused by the caller's input, not by the system.
var userErrors = []error{
	errNoCaller,
	errBadArgument,
	types.ErrCopyOfCopy,
	types.ErrAlreadyOwnsOriginal,
	types.ErrUnknownArtifact,
	types.ErrNotOriginal,
	types.ErrNotCopy,
	types.ErrInvalidAmount,
	types.ErrInvalidAddress,
	types.ErrInvalidID,
	types.ErrNotHolder,
	types.ErrNoOwner,
	types.ErrTransferFailed,
	types.ErrNotInitialized,
	types.ErrAlreadyInitialized,
}

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

// caller returns the --as address.
func caller() (types.Address, error) {
	if flags.as == "" {
		return "", errNoCaller
	}
	addr := types.Address(flags.as)
	return addr, addr.Validate()
}
