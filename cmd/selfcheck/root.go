package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for selfcheck.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selfcheck",
		Short: "Self-assessment questionnaire with PDF reports",
		Long: `selfcheck is a self-assessment questionnaire for schools and institutions.

Select indicators from the quality framework, answer one question at a time
and review the results as text, Markdown, JSON, HTML or a multi-page PDF.

Use 'selfcheck run' for the interactive questionnaire and 'selfcheck report'
to build reports from answer files.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewTaxonomyCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
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
