// Package main provides the entry point for the phishguard CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for phishguard.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phishguard",
		Short: "Phishing URL detector",
		Long: `PhishGuard classifies URLs as phishing or legitimate using lexical
features of the URL string alone. No network request is ever made to the
analyzed target.

Train a model on a labeled CSV dataset, then classify URLs from the
command line or through the built-in web interface.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewTrainCmd())
	cmd.AddCommand(NewPredictCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
