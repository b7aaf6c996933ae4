package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Revivalution/jn-dual-create/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "jn-dual-create",
	Short: "JobNimbus contact + job gateway",
	Long:  "Finds or creates a JobNimbus contact (dedup by phone, email, then name) and attaches a new job to it, over HTTP or from the command line.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
