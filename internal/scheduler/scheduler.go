package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultRefreshCron refreshes the listings every ten minutes.
const DefaultRefreshCron = "0 */10 * * * *"

// Refresher is the task run on every tick.
type Refresher interface {
	RefreshListings(ctx context.Context) error
}

// Scheduler refreshes the cached listings on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Refresher Refresher
	Timeout   time.Duration
	Ctx       context.Context

	mu      sync.Mutex
	lastErr error
	lastRun time.Time
}

// NewScheduler creates a new Scheduler. Each run is bounded by timeout.
func NewScheduler(ctx context.Context, r Refresher, timeout time.Duration) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Refresher: r,
		Timeout:   timeout,
		Ctx:       ctx,
	}
}

// Register adds the refresh task with the given spec.
func (s *Scheduler) Register(refreshCron string) error {
	if refreshCron == "" {
		refreshCron = DefaultRefreshCron
	}
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RefreshNow runs the refresh synchronously and returns its error.
func (s *Scheduler) RefreshNow() error {
	return s.run()
}

// LastRun reports when the last refresh finished and how it ended.
func (s *Scheduler) LastRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastErr
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running listings refresh")
	if err := s.run(); err != nil {
		log.Printf("[ERROR] listings refresh: %v (keeping previous table)", err)
	}
}

func (s *Scheduler) run() error {
	ctx := s.Ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	err := s.Refresher.RefreshListings(ctx)

	s.mu.Lock()
	s.lastRun, s.lastErr = time.Now(), err
	s.mu.Unlock()
	return err
}
