// Package cli implements the depot command-line interface.
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/depot/pkg/types"
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
	mode      string
	jsonMode  bool
	debug     bool
}

var flags rootFlags

// NewRootCmd creates the top-level "depot" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "depot",
		Short: "Manage products and orders",
		Long: "Depot stores products and the orders that ship them.\n" +
			"In disconnected mode changes are collected in memory and saved in one pass before the command exits.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().StringVar(&flags.mode, "mode", "", "repository mode: connected or disconnected")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newProductCmd())
	root.AddCommand(newOrderCmd())
	root.AddCommand(newApplyCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps an error to a process exit code. Store failures are system
// errors; everything else is the caller's to fix.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var gwErr *types.GatewayError
	var partial *types.PartialSyncError
	if errors.As(err, &gwErr) || errors.As(err, &partial) || errors.Is(err, types.ErrDetached) {
		return exitSysError
	}
	return exitUserError
}
