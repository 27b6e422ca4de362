package cli

import (
	"github.com/majorcontext/ghbroker/internal/config"
	"github.com/majorcontext/ghbroker/internal/credential"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Evict the cached token",
	Long:  `Remove the cached token from both the file cache and the keychain.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		fs, err := credential.NewFileStore(cfg.CachePath)
		if err != nil {
			return err
		}
		if err := fs.Clear(); err != nil {
			return err
		}
		if err := credential.NewKeyringStore().Clear(); err != nil {
			// Keychain may simply be unavailable on this machine.
			cmd.PrintErrf("Warning: keychain not cleared: %v\n", err)
		}
		cmd.Println("Cache cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
