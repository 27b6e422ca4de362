package cli

import (
	"github.com/majorcontext/ghbroker/internal/config"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Resolve and print a valid access token",
	Long: `Resolve a valid, live-probed access token and print it to stdout.

This is the direct call site for scripts that want the raw token. The
token is the only thing written to stdout; diagnostics go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, cleanup, err := newBroker(config.Load())
		if err != nil {
			return err
		}
		defer cleanup()

		tok, err := b.GetToken(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Println(tok.AccessToken)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
