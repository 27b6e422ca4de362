package cli

import (
	"context"

	"github.com/majorcontext/ghbroker/internal/askpass"
	"github.com/majorcontext/ghbroker/internal/config"
	"github.com/majorcontext/ghbroker/internal/credential"
	"github.com/spf13/cobra"
)

var askpassCmd = &cobra.Command{
	Use:   "askpass <prompt>",
	Short: "Answer a git credential prompt",
	Long: `Answer a git credential prompt non-interactively.

Point GIT_ASKPASS at this binary (or a symlink named ghbroker-askpass)
and set GIT_TERMINAL_PROMPT=0. Git passes the prompt text as the sole
argument; exactly one line is written to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolve := func(ctx context.Context) (credential.Token, error) {
			b, cleanup, err := newBroker(config.Load())
			if err != nil {
				return credential.Token{}, err
			}
			defer cleanup()
			return b.GetToken(ctx)
		}

		line, err := askpass.Respond(cmd.Context(), args[0], resolve)
		if err != nil {
			return err
		}
		cmd.Println(line)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askpassCmd)
}
