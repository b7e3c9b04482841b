package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/procureflow/procureflow/internal/history"
	"github.com/procureflow/procureflow/internal/progress"
	"github.com/spf13/cobra"
)

func newProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Track fabrication stage progress",
	}

	cmd.AddCommand(newProcessUpdateCmd())
	cmd.AddCommand(newProcessHistoryCmd())
	return cmd
}

func newProcessUpdateCmd() *cobra.Command {
	var (
		configPath string
		stage      int
		completed  bool
		remarks    string
	)

	cmd := &cobra.Command{
		Use:   "update <line-id>",
		Short: "Update one stage of an order line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid line id %q", args[0])
			}
			var opts progress.UpdateOpts
			if cmd.Flags().Changed("completed") {
				opts.Completed = &completed
			}
			if cmd.Flags().Changed("remarks") {
				opts.Remarks = &remarks
			}
			return runProcessUpdate(cmd.OutOrStdout(), configPath, uint(id), stage, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().IntVar(&stage, "stage", 0, "stage index (required)")
	cmd.Flags().BoolVar(&completed, "completed", false, "mark the stage completed or not")
	cmd.Flags().StringVar(&remarks, "remarks", "", "stage remarks")
	cmd.MarkFlagRequired("stage")
	return cmd
}

func runProcessUpdate(out io.Writer, configPath string, lineID uint, stage int, opts progress.UpdateOpts) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	recs, err := progress.UpdateStage(gormDB, lineID, stage, opts)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "IDX\tSTAGE\tDONE\tREMARKS")
	for i, r := range recs {
		done := ""
		if r.Completed {
			done = "x"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, r.Stage, done, r.Remarks)
	}
	return w.Flush()
}

func newProcessHistoryCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "history <line-id>",
		Short: "Show the change history of an order line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid line id %q", args[0])
			}
			return runProcessHistory(cmd.OutOrStdout(), configPath, uint(id))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func runProcessHistory(out io.Writer, configPath string, lineID uint) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	rows, err := history.ForLine(gormDB, lineID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No history.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSTAGE\tACTION\tDONE\tREMARKS")
	for _, row := range rows {
		remarks := ""
		if row.Remarks != nil {
			remarks = *row.Remarks
		}
		done := ""
		if row.Completed {
			done = "x"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			row.ChangedAt.Format("2006-01-02 15:04"), row.StageName, row.Action, done, remarks)
	}
	return w.Flush()
}
