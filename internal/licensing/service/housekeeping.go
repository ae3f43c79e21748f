package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/licensor/internal/licensing/metrics"
	"github.com/aussiebroadwan/licensor/internal/licensing/store"
)

// HousekeepingService periodically deactivates activations that have not
// been seen for IdleTTL, freeing their seats. Rows are never deleted.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Interval time.Duration
	IdleTTL  time.Duration
	Now      func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour. An idleTTL of 0 disables the sweep.
func NewHousekeepingService(
	store store.Store,
	logger *slog.Logger,
	interval, idleTTL time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		IdleTTL:  idleTTL,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "idle_ttl", s.IdleTTL)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one idle sweep and returns how many activations it released.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	if s.IdleTTL <= 0 {
		s.Logger.Debug("idle activation sweep disabled")
		return 0
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	cutoff := now.Add(-s.IdleTTL).Unix()

	n, err := s.Store.Activations().DeactivateIdleActivations(ctx, cutoff, now.Unix())
	if err != nil {
		s.Logger.Error("failed to deactivate idle activations", "error", err)
		return 0
	}

	s.Metrics.IdleSwept(n)
	s.Logger.Info("housekeeping cleanup completed", "idle_deactivated", n)
	return n
}
