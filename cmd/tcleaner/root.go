package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lonesomestranger/tcleaner/internal/config"
	"github.com/lonesomestranger/tcleaner/internal/logger"
)

var (
	cfg          *config.Config
	flagLogLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tcleaner",
	Short: "Bulk deletion of your own Telegram messages",
	Long: `tcleaner removes your own messages from Telegram chats in bulk:
messages matching keywords across your dialogs, or everything you ever
wrote in chats given as t.me links.`,
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional, real environment wins
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}
		if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(versionCmd)
}
