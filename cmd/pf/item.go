package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/procureflow/procureflow/internal/catalog"
	"github.com/spf13/cobra"
)

func newItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage catalog items",
	}

	cmd.AddCommand(newItemAddCmd())
	cmd.AddCommand(newItemListCmd())
	return cmd
}

func newItemAddCmd() *cobra.Command {
	var (
		configPath string
		in         catalog.ItemInput
		weight     float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a catalog item",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("weight") {
				in.Weight = &weight
			}
			return runItemAdd(cmd.OutOrStdout(), configPath, in)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().StringVar(&in.MaterialNumber, "material", "", "material number (required)")
	cmd.Flags().StringVar(&in.VendorName, "vendor", "", "vendor name (required)")
	cmd.Flags().StringVar(&in.DrawingNumber, "drawing", "", "drawing number (required)")
	cmd.Flags().StringVar(&in.ItemName, "name", "", "item name (required)")
	cmd.Flags().StringVar(&in.RevisionNumber, "revision", "", "revision number (default 1.0)")
	cmd.Flags().StringVar(&in.Description, "description", "", "description")
	cmd.Flags().StringVar(&in.SpecialRemarks, "remarks", "", "special remarks")
	cmd.Flags().Float64Var(&in.Price, "price", 0, "unit price")
	cmd.Flags().Float64Var(&weight, "weight", 0, "unit weight in kg")
	cmd.MarkFlagRequired("material")
	cmd.MarkFlagRequired("vendor")
	cmd.MarkFlagRequired("drawing")
	cmd.MarkFlagRequired("name")
	return cmd
}

func runItemAdd(out io.Writer, configPath string, in catalog.ItemInput) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	item, err := catalog.Create(gormDB, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Created item %d (%s)\n", item.ID, item.MaterialNumber)
	return nil
}

func newItemListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemList(cmd.OutOrStdout(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func runItemList(out io.Writer, configPath string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	items, err := catalog.List(gormDB)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "No items.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMATERIAL\tNAME\tVENDOR\tREV\tPRICE\tWEIGHT")
	for _, item := range items {
		weight := "-"
		if item.Weight != nil {
			weight = fmt.Sprintf("%.2f", *item.Weight)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
			item.ID, item.MaterialNumber, item.ItemName, item.VendorName,
			item.RevisionNumber, item.Price, weight)
	}
	return w.Flush()
}
