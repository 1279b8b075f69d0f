package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"draftwise/internal/config"
)

var (
	cfg         *config.Config
	contextFile string
	userFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "draftwise",
	Short: "Turn free-form requests into invoice and quote drafts",
	Long: `Extracts structured invoice and quote drafts from free text using the
configured text model chain, resolves clients and products against the
business records, and runs interactive clarification sessions.

Business records come from the configured database, or from a YAML file
given with --context.`,
	SilenceUsage: true,
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
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&contextFile, "context", "", "YAML file with business profiles, clients and products")
	pf.StringVar(&userFlag, "user", "", "user id (UUID); optional when the context file holds one user")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
