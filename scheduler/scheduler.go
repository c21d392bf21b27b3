// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielhkuo/crowd-band/metrics"
)

// DefaultInterval is used when no positive interval is configured
const DefaultInterval = 30 * time.Second

// Closer closes the current prompt once its deadline has passed and
// reports whether it did.
type Closer interface {
	CloseExpired(ctx context.Context) (bool, error)
}

// Scheduler polls for expired prompts
type Scheduler struct {
	closer   Closer
	interval time.Duration
}

func New(closer Closer, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{closer: closer, interval: interval}
}

// Run checks for an expired prompt every interval until ctx is done.
// Failures are logged and retried on the next tick.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("scheduler started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Catch a deadline that passed while the server was down
	s.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped")
			return nil
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one check and reports whether a prompt was closed
func (s *Scheduler) Tick(ctx context.Context) bool {
	closed, err := s.closer.CloseExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("failed to close expired cycle", "error", err)
		}
		return false
	}
	if closed {
		metrics.CyclesClosed.WithLabelValues(metrics.TriggerDeadline).Inc()
		slog.Info("expired cycle closed")
	}
	return closed
}
