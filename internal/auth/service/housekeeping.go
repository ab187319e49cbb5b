package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/daykeephq/daykeep/pkg/slogx"
)

// HousekeepingService periodically sweeps expired password reset rows so
// the table does not grow without bound. Expiry is enforced at lookup
// time regardless; this is purely hygiene.
type HousekeepingService struct {
	resets   *PasswordResetService
	logger   *slog.Logger
	interval time.Duration

	stop chan struct{}
	done chan struct{}
}

func NewHousekeepingService(resets *PasswordResetService, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	return &HousekeepingService{
		resets:   resets,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in a goroutine. One sweep runs
// immediately so a restart does not wait a full interval to clean up.
func (s *HousekeepingService) Start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.sweep()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the loop and waits for any in-flight sweep to finish.
func (s *HousekeepingService) Stop() {
	close(s.stop)
	<-s.done
}

func (s *HousekeepingService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ctx = slogx.WithContext(ctx, s.logger)
	_, _ = s.resets.PurgeExpired(ctx)
}
