package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/majorcontext/ghbroker/internal/audit"
	"github.com/majorcontext/ghbroker/internal/config"
	"github.com/majorcontext/ghbroker/internal/credential"
	"github.com/spf13/cobra"
)

var statusAudit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report configured sources and cache state",
	Long: `Report which credential sources are configured and whether the
cached token is inside its lifetime. No network requests are made and
no secret material is printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		store, err := newStore(cfg)
		if err != nil {
			return err
		}
		tok, err := store.Load()
		switch {
		case errors.Is(err, credential.ErrCacheMiss):
			cmd.Println("cache: empty")
		case err != nil:
			cmd.Printf("cache: unreadable (%v)\n", err)
		case tok.ExpiresAt.IsZero():
			cmd.Printf("cache: %s (%s, no recorded expiry)\n", credential.Mask(tok.AccessToken), tok.Source)
		case !tok.Usable():
			cmd.Printf("cache: %s (%s, expiring %s)\n", credential.Mask(tok.AccessToken), tok.Source, tok.ExpiresAt.Format(time.RFC3339))
		default:
			cmd.Printf("cache: %s (%s, valid until %s)\n", credential.Mask(tok.AccessToken), tok.Source, tok.ExpiresAt.Format(time.RFC3339))
		}
		if config.InCI() {
			cmd.Println("cache: disabled (CI environment)")
		}

		clientID, clientSecret, refreshToken := config.OAuthEnv()
		if clientID != "" && clientSecret != "" && refreshToken != "" {
			cmd.Println("oauth: configured")
		} else {
			cmd.Println("oauth: not configured")
		}

		if _, name := config.StaticToken(); name != "" {
			cmd.Printf("pat: configured (%s)\n", name)
		} else {
			cmd.Println("pat: not configured")
		}

		if statusAudit > 0 {
			return printAudit(cmd, cfg, statusAudit)
		}
		return nil
	},
}

func printAudit(cmd *cobra.Command, cfg *config.Config, n int) error {
	store, err := audit.Open(cfg.AuditPath)
	if err != nil {
		return fmt.Errorf("opening audit store: %w", err)
	}
	defer store.Close()

	entries, err := store.Recent(n)
	if err != nil {
		return err
	}
	for _, e := range entries {
		cmd.Printf("%s  %-6s status=%-3d %-12s %dms\n",
			e.Timestamp.Format(time.RFC3339), e.Source, e.Status, e.Outcome, e.DurationMS)
	}
	return nil
}

func init() {
	statusCmd.Flags().IntVar(&statusAudit, "audit", 0, "also print the last N resolution records")
	rootCmd.AddCommand(statusCmd)
}
