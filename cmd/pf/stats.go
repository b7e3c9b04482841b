package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/procureflow/procureflow/internal/dashboard"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the production dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.OutOrStdout(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func runStats(out io.Writer, configPath string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	stats, err := dashboard.Compute(gormDB)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Pending items: %d\n", stats.PendingItemsCount)
	if stats.OldestPendingDate != nil {
		fmt.Fprintf(out, "Oldest pending order: %s\n", stats.OldestPendingDate.Format("2006-01-02"))
	} else {
		fmt.Fprintln(out, "Oldest pending order: none")
	}

	if len(stats.MonthlyDispatchedWeight) == 0 {
		fmt.Fprintln(out, "No dispatched weight recorded.")
		return nil
	}

	fmt.Fprintln(out, "\nDispatched weight by month:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tWEIGHT (KG)")
	for _, mw := range stats.MonthlyDispatchedWeight {
		fmt.Fprintf(w, "%s\t%.2f\n", mw.Month, mw.Weight)
	}
	return w.Flush()
}
