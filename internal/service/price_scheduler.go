package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PriceScheduler refreshes tracked prices on a cron schedule.
type PriceScheduler struct {
	prices  *PriceService
	cron    *cron.Cron
	timeout time.Duration
	logger  *zap.Logger
}

// NewPriceScheduler creates a scheduler running prices.Refresh on schedule,
// a standard five-field cron expression.
func NewPriceScheduler(prices *PriceService, schedule string, logger *zap.Logger) (*PriceScheduler, error) {
	s := &PriceScheduler{
		prices:  prices,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: time.Minute,
		logger:  logger,
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid price refresh schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running scheduled refreshes in the background.
func (s *PriceScheduler) Start() {
	s.cron.Start()
	s.logger.Info("price scheduler started")
}

// Stop stops the schedule and waits for a running refresh to finish or ctx to end.
func (s *PriceScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("price refresh still running at shutdown")
	}
}

func (s *PriceScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.prices.Refresh(ctx); err != nil {
		s.logger.Error("scheduled price refresh failed", zap.Error(err))
	}
}
