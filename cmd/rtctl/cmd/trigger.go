package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run a stock sweep now",
		Long: "Trigger a sweep over every configured vendor, catalog entry and\n" +
			"location. The command waits until the sweep has finished.",
		Example: `  rtctl sweep
  rtctl sweep --token "$TRIGGER_SECRET" --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := newClient().Sweep(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			fmt.Println(res.Message)
			return printSweepStats(res.Stats)
		},
	}
}

func feedScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feed-scan",
		Short: "Run a BigBasket offer scan now",
		Example: `  rtctl feed-scan
  rtctl feed-scan --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := newClient().FeedScan(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			fmt.Println(res.Message)
			return printFeedScanStats(res.Stats)
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show service status",
		RunE: func(_ *cobra.Command, _ []string) error {
			st, err := newClient().Status(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(st)
			}
			return printStatus(st)
		},
	}
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List configured vendors and feed trackers",
		Example: `  rtctl catalog
  rtctl catalog --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cat, err := newClient().Catalog(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cat)
			}
			if len(cat.Vendors) == 0 && len(cat.Trackers) == 0 {
				fmt.Println("Nothing configured.")
				return nil
			}
			return printCatalog(cat)
		},
	}
}
