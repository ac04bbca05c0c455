// Package cli implements the hazwaste command line tool: offline
// classification of safety-document text without a running API server.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	LogLevel string
	Output   string // "json" | "summary"
}

// NewRootCommand creates the root command with global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "hazwaste",
		Short:   "Hazardous-waste code classification for chemical safety documents",
		Long:    "hazwaste extracts composition and bulk properties from safety-document\ntext and derives hazardous-waste codes from the constituent registries\nand characteristic rules.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.Output, "output", "o", "summary", "output format (json, summary)")

	cmd.AddCommand(newClassifyCommand(opts))

	return cmd
}
