package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:           "chase-scraper",
	Short:         "chase-scraper downloads quiz show results and analyses them.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:     level,
			AddSource: debug,
		})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./chase-scraper.json5 if present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

func ExecuteContext(ctx context.Context, version string) {
	rootCmd.Version = version
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("chase-scraper failed", "err", err)
		os.Exit(1)
	}
}
