package registry

import (
	"context"
	"time"

	"github.com/ak4shii/smart-parking-system/internal/logger"

	"go.uber.org/zap"
)

// StartLivenessSweep runs the offline sweep on a fixed interval until ctx
// is cancelled. A single goroutine drives the ticker, so sweeps never
// overlap even when one runs long.
func (s *Service) StartLivenessSweep(ctx context.Context, interval, offlineThreshold time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Liveness sweep started",
		zap.Duration("interval", interval),
		zap.Duration("offline_threshold", offlineThreshold),
	)

	s.sweepOffline(ctx, offlineThreshold)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Liveness sweep stopped")
			return
		case <-ticker.C:
			s.sweepOffline(ctx, offlineThreshold)
		}
	}
}

// sweepOffline flips online=false for every device whose last report is
// older than the threshold. The repository does it in one statement and
// returns the flipped rows so each transition can be logged and emitted.
func (s *Service) sweepOffline(ctx context.Context, offlineThreshold time.Duration) {
	olderThan := time.Now().UTC().Add(-offlineThreshold)
	flipped, err := s.deviceRepo.MarkStaleOffline(ctx, olderThan)
	if err != nil {
		logger.Error("Liveness sweep failed", zap.Error(err))
		return
	}

	for _, mc := range flipped {
		s.events.MicrocontrollerChanged(mc)
		logger.Warn("Device marked offline",
			zap.String("mc_code", mc.McCode),
			zap.Timep("last_seen", mc.LastSeen),
		)
	}
}
