// Package cli implements launcherctl, an operator tool for exercising the
// launcher engines against local files and text.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the launcherctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "launcherctl",
		Short:         "Inspect the launcher's fingerprint, intent and ranking engines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newFingerprintCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newClassifyCmd())
	root.AddCommand(newSuggestCmd())
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}
