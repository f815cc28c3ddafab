package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/restock-tracker/internal/engine"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and scheduler",
		RunE:  runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, log := a.cfg, a.log

	var sched *engine.Scheduler
	if !cfg.Schedule.Disabled {
		sched, err = engine.NewScheduler(a.engine,
			cfg.Schedule.SweepInterval,
			cfg.Schedule.FeedScanInterval,
			log,
			engine.WithRunTimeout(cfg.Schedule.SweepTimeout),
		)
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
	} else {
		log.Warn("schedule disabled, runs happen only on trigger")
	}

	e := newRouter(routerDeps{
		Engine:       a.engine,
		Sched:        sched,
		Secret:       cfg.Trigger.Secret,
		SweepTimeout: cfg.Schedule.SweepTimeout,
		Log:          log,
	})
	if cfg.Trigger.Secret == "" {
		log.Warn("trigger secret not set, trigger endpoints are open")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	log.Info("starting server", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if sched != nil {
		sched.Start()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var serveErr error
	select {
	case <-quit:
	case serveErr = <-errCh:
		log.Error("server error", "error", serveErr)
	}

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if sched != nil {
		select {
		case <-sched.Stop().Done():
		case <-ctx.Done():
			log.Warn("scheduled runs still in flight at shutdown")
		}
	}

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return serveErr
}
