// Package cli implements the ghbroker command-line interface using Cobra.
// Every command resolves credentials through the broker; none of them ever
// prompts except `grant`, which exists for one-time setup.
package cli

import (
	"github.com/majorcontext/ghbroker/internal/log"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "ghbroker",
	Short: "ghbroker - non-interactive GitHub credential broker",
	Long: `ghbroker resolves a usable GitHub access token for automation:
HTTPS git operations (via the askpass protocol) and REST API calls
(via Authorization headers), without ever prompting a human.

Sources are tried in priority order: cached token, OAuth refresh,
pre-issued personal access token. Every candidate is validated with a
live probe before use.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Init(log.Options{
			Verbose:    verbose,
			JSONFormat: jsonOut,
		})
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		// Single diagnostic line on stderr; secrets never reach here.
		rootCmd.PrintErrln(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "log in JSON format")
}
