package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ytdash"
	"ytdash/config"
	"ytdash/internal/logging"
)

// app is built by the root command before any subcommand runs.
var app *ytdash.App

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel, logFormat string

	root := &cobra.Command{
		Use:   "ytdash",
		Short: "YouTube channel analytics and brainstorming",
		Long: `ytdash analyzes YouTube channels: uploads, keyword and hashtag statistics,
AI brainstorming and a local library of saved analyses.

API keys are read from YTDASH_YOUTUBE_KEYS, YTDASH_GEMINI_KEYS and
YTDASH_OPENAI_KEYS (comma or newline separated), a .env file or ytdash.json.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			if err := logging.Setup(cfg.LogLevel, cfg.LogFormat, nil); err != nil {
				return err
			}

			app, err = ytdash.New(cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	root.AddCommand(
		newChannelCmd(),
		newVideosCmd(),
		newKeywordsCmd(),
		newHashtagsCmd(),
		newChatCmd(),
		newCompeteCmd(),
		newValidateCmd(),
		newServeCmd(),
		newSessionsCmd(),
	)

	root.SetErrPrefix("Error:")
	return root
}
