package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os/signal"
	"syscall"

	"github.com/procureflow/procureflow/internal/api"
	"github.com/procureflow/procureflow/internal/config"
	"github.com/procureflow/procureflow/internal/db"
	"github.com/procureflow/procureflow/internal/notify"
	"github.com/procureflow/procureflow/internal/notify/discord"
	"github.com/procureflow/procureflow/internal/notify/slack"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		Long:  "Runs the HTTP API server, applying schema migrations first. Starts the digest scheduler when enabled in config.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.OutOrStdout(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func runServe(out io.Writer, configPath string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Digest.Enabled {
		if err := startDigest(ctx, cfg, gormDB, out); err != nil {
			return err
		}
	}

	return api.Start(ctx, api.StartOpts{
		DB:   gormDB,
		Port: cfg.Server.Port,
		Out:  out,
	})
}

// startDigest connects the configured chat adapter and launches the
// digest scheduler in the background.
func startDigest(ctx context.Context, cfg *config.Config, gormDB *gorm.DB, out io.Writer) error {
	adapter, err := digestAdapter(cfg)
	if err != nil {
		return err
	}
	if err := adapter.Connect(ctx); err != nil {
		return err
	}

	sched, err := notify.NewScheduler(gormDB, adapter, cfg.Digest.Schedule)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Digest scheduled (%s) via %s\n", cfg.Digest.Schedule, cfg.Digest.Platform)
	go func() {
		defer adapter.Close()
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("digest scheduler: %v", err)
		}
	}()
	return nil
}

// digestAdapter builds the chat adapter for the configured platform.
func digestAdapter(cfg *config.Config) (notify.Adapter, error) {
	switch cfg.Digest.Platform {
	case "slack":
		return slack.New(slack.AdapterOpts{
			BotToken:  cfg.Digest.Slack.BotToken,
			ChannelID: cfg.Digest.Slack.Channel,
		})
	case "discord":
		return discord.New(discord.AdapterOpts{
			BotToken:  cfg.Digest.Discord.BotToken,
			ChannelID: cfg.Digest.Discord.Channel,
		})
	default:
		return nil, fmt.Errorf("unknown digest platform %q", cfg.Digest.Platform)
	}
}
