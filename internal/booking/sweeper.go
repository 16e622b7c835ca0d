package booking

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper periodically auto-rejects PENDING bookings whose start time has
// passed. Sweeps are idempotent; running them more often than needed only
// costs a scan.
type Sweeper struct {
	service  Service
	interval time.Duration
}

// NewSweeper creates a sweeper running at the given interval.
func NewSweeper(service Service, interval time.Duration) *Sweeper {
	return &Sweeper{service: service, interval: interval}
}

// Run blocks, sweeping on every tick until the context is cancelled. It is
// meant to be started in its own goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	logrus.WithField("interval", s.interval).Info("booking expiry sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("booking expiry sweeper stopped")
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	swept, err := s.service.SweepExpired(ctx, time.Now())
	if err != nil {
		logrus.WithError(err).Error("booking expiry sweep failed")
		return
	}
	if swept > 0 {
		logrus.WithField("count", swept).Info("auto-rejected expired pending bookings")
	}
}
