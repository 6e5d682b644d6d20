package worker

import (
	"context"
	"time"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/database"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/service"

	"github.com/sirupsen/logrus"
)

// SessionCleanupWorker tears down dashboard sessions idle for longer than ttl,
// together with the evidence uploaded in them.
type SessionCleanupWorker struct {
	sessions database.SessionRepository
	evidence service.EvidenceService
	interval time.Duration
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionCleanupWorker(sessions database.SessionRepository, evidence service.EvidenceService, interval, ttl time.Duration) *SessionCleanupWorker {
	return &SessionCleanupWorker{
		sessions: sessions,
		evidence: evidence,
		interval: interval,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (w *SessionCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("Session cleanup worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Session cleanup worker stopped")
			return
		case <-ticker.C:
			w.Cleanup(ctx)
		}
	}
}

// Cleanup returns the number of sessions removed.
func (w *SessionCleanupWorker) Cleanup(ctx context.Context) int {
	cutoff := w.now().Add(-w.ttl)
	expired := w.sessions.Expired(cutoff)
	if len(expired) == 0 {
		logrus.Debug("No idle sessions found for cleanup")
		return 0
	}

	removed, failed := 0, 0
	for _, sess := range expired {
		select {
		case <-ctx.Done():
			logrus.Info("Cleanup interrupted by context cancellation")
			return removed
		default:
		}

		// a request may have picked the session up since Expired ran
		if _, ok := w.sessions.RemoveIfIdle(sess.ID, cutoff); !ok {
			continue
		}
		removed++

		if err := w.evidence.Purge(sess); err != nil {
			logrus.Errorf("Failed to purge evidence of session %s: %v", sess.ID, err)
			failed++
		}
	}

	logrus.Infof("Idle session cleanup completed: %d removed, %d evidence purges failed", removed, failed)
	return removed
}
