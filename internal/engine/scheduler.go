package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultRunTimeout bounds a single scheduled run.
const DefaultRunTimeout = 10 * time.Minute

// Scheduler runs sweeps and feed scans periodically. A job never overlaps
// with a still-running invocation of itself.
type Scheduler struct {
	cron    *cron.Cron
	engine  *Engine
	log     *slog.Logger
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	started atomic.Bool

	sweepEntryID cron.EntryID
	feedEntryID  cron.EntryID
}

// SchedulerOption configures the Scheduler.
type SchedulerOption func(*Scheduler)

// WithRunTimeout bounds every scheduled run.
func WithRunTimeout(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.timeout = d
	}
}

// NewScheduler creates a Scheduler. A zero interval disables that job.
func NewScheduler(
	eng *Engine,
	sweepInterval time.Duration,
	feedInterval time.Duration,
	log *slog.Logger,
	opts ...SchedulerOption,
) (*Scheduler, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DiscardLogger),
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:    c,
		engine:  eng,
		log:     log,
		timeout: DefaultRunTimeout,
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(s)
	}

	if sweepInterval > 0 {
		id, err := c.AddFunc("@every "+sweepInterval.String(), s.runSweep)
		if err != nil {
			cancel()
			return nil, err
		}
		s.sweepEntryID = id
	}

	if feedInterval > 0 && len(eng.Trackers()) > 0 {
		id, err := c.AddFunc("@every "+feedInterval.String(), s.runFeedScan)
		if err != nil {
			cancel()
			return nil, err
		}
		s.feedEntryID = id
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "jobs", len(s.cron.Entries()))
	s.cron.Start()
	s.started.Store(true)
}

// Stop cancels running jobs and returns a context that is done once they
// have returned.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	s.started.Store(false)
	s.cancel()
	return s.cron.Stop()
}

// Ready reports whether the scheduler is running.
func (s *Scheduler) Ready() bool {
	return s.started.Load()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// NextSweep returns the next scheduled sweep, or the zero time.
func (s *Scheduler) NextSweep() time.Time {
	if s.sweepEntryID == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.sweepEntryID).Next
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	s.log.Info("scheduled sweep starting")
	if _, err := s.engine.RunSweep(ctx); err != nil {
		s.log.Error("scheduled sweep failed", "error", err)
	}
}

func (s *Scheduler) runFeedScan() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	s.log.Info("scheduled feed scan starting")
	if _, err := s.engine.ScanConfiguredFeeds(ctx); err != nil {
		s.log.Error("scheduled feed scan failed", "error", err)
	}
}
