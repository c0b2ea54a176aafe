// Package scheduler drives periodic portfolio refreshes.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"PortfolioTracker/internal/tracker"
)

// Scheduler refreshes the portfolio on a cron spec so the snapshot log keeps
// filling even when nobody is looking at the API.
type Scheduler struct {
	Cron    *cron.Cron
	Tracker *tracker.Tracker
	Ctx     context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, t *tracker.Tracker) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Tracker: t,
		Ctx:     ctx,
	}
}

// Register adds the refresh task under the given cron spec.
func (s *Scheduler) Register(refreshCron string) error {
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

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the refresh task immediately (for RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running scheduled refresh")
	snap, err := s.Tracker.Refresh(s.Ctx)
	switch {
	case errors.Is(err, tracker.ErrNoHoldings):
		log.Println("[INFO] refresh skipped: portfolio is empty")
		return
	case errors.Is(err, tracker.ErrNoValidPrices):
		log.Println("[WARN] refresh yielded no valid prices")
		return
	case err != nil:
		log.Printf("[ERROR] refresh: %v", err)
		return
	}
	log.Printf("[INFO] refresh done: %d holdings priced, %d unavailable, avg return %s%%",
		len(snap.Holdings), len(snap.Unpriced), snap.AverageReturnPct.StringFixed(2))
}
