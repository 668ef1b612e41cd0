package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/vphone/simshop/internal/shop/store"
)

// DefaultAuditRetention is how long a verification audit row outlives its
// provider expiry before it is purged.
const DefaultAuditRetention = 7 * 24 * time.Hour

// HousekeepingService periodically drops stale wizard sessions from memory
// and purges aged verification audit rows from the database.
type HousekeepingService struct {
	Store          store.Store
	Wizard         *WizardService
	Logger         *slog.Logger
	Interval       time.Duration
	AuditRetention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping worker. An interval of 0 or
// less defaults to 15 minutes; retention defaults to DefaultAuditRetention.
func NewHousekeepingService(st store.Store, wizard *WizardService, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if retention <= 0 {
		retention = DefaultAuditRetention
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HousekeepingService{
		Store:          st,
		Wizard:         wizard,
		Logger:         logger,
		Interval:       interval,
		AuditRetention: retention,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop() to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker. Blocks until any
// in-progress cleanup finishes.
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
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup performs one pass. Each step is independent; a failure in one
// doesn't stop the others.
func (s *HousekeepingService) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purgedSessions := s.Wizard.PurgeStale()

	cutoff := time.Now().UTC().Add(-s.AuditRetention)
	purgedAudits, err := s.Store.VerificationSessions().DeleteVerificationSessionsBefore(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to purge verification audit rows", "error", err)
	}

	s.Logger.Info("housekeeping cleanup completed",
		"purged_wizard_sessions", purgedSessions,
		"purged_audit_rows", purgedAudits)
}
