package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/database"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvidence struct {
	mu     sync.Mutex
	purged []string
	err    error
}

func (f *fakeEvidence) SaveScreenshot(*database.Session, string, io.Reader) (*entity.Screenshot, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeEvidence) Open(*database.Session, string) (io.ReadCloser, error) {
	return nil, entity.ErrScreenshotNotFound
}

func (f *fakeEvidence) Purge(sess *database.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purged = append(f.purged, sess.ID)
	return f.err
}

func (f *fakeEvidence) purgedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.purged...)
}

// newAgedSessions returns one session last seen strictly before the other.
func newAgedSessions(t *testing.T, sessions database.SessionRepository) (idle, active *database.Session) {
	t.Helper()
	idle = sessions.Create()
	time.Sleep(5 * time.Millisecond)
	active = sessions.Create()
	require.True(t, idle.LastSeen().Before(active.LastSeen()))
	return idle, active
}

// cutoffBetween makes the worker's cutoff fall between the two sessions' last activity.
func cutoffBetween(w *SessionCleanupWorker, idle, active *database.Session) {
	mid := idle.LastSeen().Add(active.LastSeen().Sub(idle.LastSeen()) / 2)
	w.now = func() time.Time { return mid.Add(w.ttl) }
}

func TestCleanup_RemovesIdleSessions(t *testing.T) {
	sessions := database.NewSessionRepository()
	idle, active := newAgedSessions(t, sessions)

	evidence := &fakeEvidence{}
	w := NewSessionCleanupWorker(sessions, evidence, time.Minute, time.Hour)
	cutoffBetween(w, idle, active)

	removed := w.Cleanup(context.Background())
	assert.Equal(t, 1, removed)

	_, ok := sessions.Get(idle.ID)
	assert.False(t, ok)
	_, ok = sessions.Get(active.ID)
	assert.True(t, ok)
	assert.Equal(t, []string{idle.ID}, evidence.purgedIDs())
}

// resumingSessions marks every session returned by Expired as seen again,
// as if a request arrived before the worker got to remove it.
type resumingSessions struct {
	database.SessionRepository
}

func (r resumingSessions) Expired(before time.Time) []*database.Session {
	out := r.SessionRepository.Expired(before)
	time.Sleep(2 * time.Millisecond)
	for _, sess := range out {
		sess.Touch()
	}
	return out
}

func TestCleanup_KeepsSessionResumedAfterScan(t *testing.T) {
	sessions := database.NewSessionRepository()
	idle, active := newAgedSessions(t, sessions)

	evidence := &fakeEvidence{}
	w := NewSessionCleanupWorker(resumingSessions{sessions}, evidence, time.Minute, time.Hour)
	cutoffBetween(w, idle, active)

	assert.Equal(t, 0, w.Cleanup(context.Background()))
	_, ok := sessions.Get(idle.ID)
	assert.True(t, ok)
	assert.Empty(t, evidence.purgedIDs())
}

func TestCleanup_NothingExpired(t *testing.T) {
	sessions := database.NewSessionRepository()
	sessions.Create()

	evidence := &fakeEvidence{}
	w := NewSessionCleanupWorker(sessions, evidence, time.Minute, time.Hour)

	assert.Equal(t, 0, w.Cleanup(context.Background()))
	assert.Equal(t, 1, sessions.Len())
	assert.Empty(t, evidence.purgedIDs())
}

func TestCleanup_PurgeFailureStillRemoves(t *testing.T) {
	sessions := database.NewSessionRepository()
	sessions.Create()
	sessions.Create()

	evidence := &fakeEvidence{err: errors.New("disk full")}
	w := NewSessionCleanupWorker(sessions, evidence, time.Minute, time.Hour)
	w.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	assert.Equal(t, 2, w.Cleanup(context.Background()))
	assert.Equal(t, 0, sessions.Len())
	assert.Len(t, evidence.purgedIDs(), 2)
}

func TestCleanup_StopsOnCancelledContext(t *testing.T) {
	sessions := database.NewSessionRepository()
	sessions.Create()

	w := NewSessionCleanupWorker(sessions, &fakeEvidence{}, time.Minute, time.Hour)
	w.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, 0, w.Cleanup(ctx))
	assert.Equal(t, 1, sessions.Len())
}

func TestStart_ReturnsOnCancel(t *testing.T) {
	sessions := database.NewSessionRepository()
	w := NewSessionCleanupWorker(sessions, &fakeEvidence{}, 5*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
