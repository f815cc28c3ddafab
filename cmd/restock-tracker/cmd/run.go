package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func sweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one stock sweep and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := runContext(a.cfg.Schedule.SweepTimeout)
			defer cancel()

			stats, err := a.engine.RunSweep(ctx)
			fmt.Printf("checked=%d alerts=%d errors=%d\n", stats.Checked, stats.Alerts, stats.Errors)
			return err
		},
	}
}

func feedScanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "feed-scan",
		Short: "Run one BigBasket offer scan and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := runContext(a.cfg.Schedule.SweepTimeout)
			defer cancel()

			stats, err := a.engine.ScanConfiguredFeeds(ctx)
			fmt.Printf("pages=%d items=%d alerts=%d errors=%d\n",
				stats.Pages, stats.Items, stats.Alerts, stats.Errors)
			return err
		},
	}
}

// runContext is canceled on SIGINT or SIGTERM and after timeout when set.
func runContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
