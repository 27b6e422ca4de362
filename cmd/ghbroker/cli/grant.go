package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/majorcontext/ghbroker/internal/config"
	"github.com/majorcontext/ghbroker/internal/credential"
	"github.com/majorcontext/ghbroker/internal/probe"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var grantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Store a personal access token for later cache hits",
	Long: `Enter a GitHub personal access token interactively and store it in
the token cache after validating it with one live probe.

This is the only interactive path in ghbroker. It is a one-time setup
step; resolution commands (token, askpass, header) never prompt.

To create a token:
  1. Visit https://github.com/settings/tokens
  2. Click "Generate new token" -> "Fine-grained token" (recommended)
  3. Set expiration and select repositories
  4. Under "Repository permissions", grant "Contents" read/write access
  5. Copy the generated token`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			return fmt.Errorf("grant requires a terminal; set %s for non-interactive use", config.EnvToken)
		}

		cmd.Print("Token: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.Println()
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}
		value := strings.TrimSpace(string(raw))
		if value == "" {
			return fmt.Errorf("no token provided")
		}

		cmd.Println("Validating token...")
		cfg := config.Load()
		status := probe.New(cfg.APIBase).Probe(cmd.Context(), value)
		if !probe.IsLive(status) {
			return fmt.Errorf("token rejected (probe status %d)", status)
		}

		store, err := newStore(cfg)
		if err != nil {
			return err
		}
		if err := store.Store(credential.Token{
			AccessToken: value,
			TokenType:   "bearer",
			Source:      credential.SourcePAT,
		}); err != nil {
			return err
		}
		cmd.Println("Token stored.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(grantCmd)
}
