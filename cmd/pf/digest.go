package main

import (
	"context"
	"fmt"
	"io"

	"github.com/procureflow/procureflow/internal/notify"
	"github.com/spf13/cobra"
)

func newDigestCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Send the status digest now",
		Long:  "Builds the production status digest and sends it once via the configured chat platform. Prints a note instead when there is nothing to report.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(cmd.Context(), cmd.OutOrStdout(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func runDigest(ctx context.Context, out io.Writer, configPath string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	msg, err := notify.BuildDigest(gormDB)
	if err != nil {
		return err
	}
	if msg == nil {
		fmt.Fprintln(out, "Nothing to report.")
		return nil
	}

	adapter, err := digestAdapter(cfg)
	if err != nil {
		return err
	}
	if err := adapter.Connect(ctx); err != nil {
		return err
	}
	defer adapter.Close()

	if err := adapter.Send(ctx, *msg); err != nil {
		return err
	}
	fmt.Fprintf(out, "Digest sent via %s.\n", cfg.Digest.Platform)
	return nil
}
