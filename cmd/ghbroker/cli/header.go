package cli

import (
	"github.com/majorcontext/ghbroker/internal/config"
	"github.com/majorcontext/ghbroker/internal/header"
	"github.com/spf13/cobra"
)

var headerBasic bool

var headerCmd = &cobra.Command{
	Use:   "header",
	Short: "Print an Authorization header for the resolved token",
	Long: `Resolve a token and print a full Authorization header line, for
curl-driven scripts:

  curl -H "$(ghbroker header)" https://api.github.com/user

--basic emits the Basic-encoded flavor used by git-over-HTTPS transports.`,
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
		cmd.Println(header.Authorization(tok, headerBasic))
		return nil
	},
}

func init() {
	headerCmd.Flags().BoolVar(&headerBasic, "basic", false, "emit Basic auth for git-over-HTTPS")
	rootCmd.AddCommand(headerCmd)
}
