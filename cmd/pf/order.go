package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/procureflow/procureflow/internal/orders"
	"github.com/procureflow/procureflow/internal/stages"
	"github.com/spf13/cobra"
)

func newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Inspect purchase orders",
	}

	cmd.AddCommand(newOrderListCmd())
	cmd.AddCommand(newOrderShowCmd())
	return cmd
}

func newOrderListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List purchase orders, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderList(cmd.OutOrStdout(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func runOrderList(out io.Writer, configPath string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	pos, err := orders.List(gormDB)
	if err != nil {
		return err
	}
	if len(pos) == 0 {
		fmt.Fprintln(out, "No purchase orders.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPO NUMBER\tVENDOR\tORDERED\tDELIVERY\tLINES")
	for _, po := range pos {
		delivery := "-"
		if po.DeliveryDate != nil {
			delivery = po.DeliveryDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n",
			po.ID, po.PONumber, po.VendorName,
			po.OrderDate.Format("2006-01-02"), delivery, len(po.Lines))
	}
	return w.Flush()
}

func newOrderShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show one purchase order with line progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			return runOrderShow(cmd.OutOrStdout(), configPath, uint(id))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func runOrderShow(out io.Writer, configPath string, id uint) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	po, err := orders.Get(gormDB, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "PO %s (%s)\n", po.PONumber, po.VendorName)
	fmt.Fprintf(out, "Ordered: %s\n", po.OrderDate.Format("2006-01-02"))
	if po.DeliveryDate != nil {
		fmt.Fprintf(out, "Delivery: %s\n", po.DeliveryDate.Format("2006-01-02"))
	}
	if po.Remarks != "" {
		fmt.Fprintf(out, "Remarks: %s\n", po.Remarks)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tITEM\tQTY\tPROGRESS\tSTATUS")
	for _, line := range po.Lines {
		recs := stages.Parse(line.Processes)
		done := 0
		for _, r := range recs {
			if r.Completed {
				done++
			}
		}
		status := "pending"
		if stages.Dispatched(recs) {
			status = "dispatched"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d/%d\t%s\n",
			line.ID, line.Item.ItemName, line.Quantity, done, len(recs), status)
	}
	return w.Flush()
}
