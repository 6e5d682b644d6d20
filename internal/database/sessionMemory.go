package database

import (
	"context"
	"sync"
	"time"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/metrics"

	"github.com/google/uuid"
)

// Session is one operator's dashboard: its own event store plus the
// evidence files uploaded during it.
type Session struct {
	ID     string
	Events EventRepository

	mu          sync.Mutex
	lastSeen    time.Time
	load        *loadRun
	screenshots []string
}

// loadRun is one in-flight refresh of a session's events.
type loadRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func newSession(id string) *Session {
	return &Session{
		ID:       id,
		Events:   NewEventRepository(),
		lastSeen: time.Now(),
	}
}

func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// StartLoad cancels the session's in-flight load, if any, and begins a new
// one. The cancel of the old load and the new store ticket are taken under
// one lock, so the last load started is always the one whose result is kept.
// finish must be called once the load is over.
func (s *Session) StartLoad(parent context.Context) (ctx context.Context, ticket uint64, finish func()) {
	ctx, cancel := context.WithCancel(parent)
	run := &loadRun{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	if s.load != nil {
		s.load.cancel()
	}
	s.load = run
	ticket = s.Events.BeginLoad()
	s.mu.Unlock()

	var once sync.Once
	finish = func() {
		once.Do(func() {
			cancel()
			s.mu.Lock()
			if s.load == run {
				s.load = nil
			}
			s.mu.Unlock()
			close(run.done)
		})
	}
	return ctx, ticket, finish
}

// WaitLoad blocks until the session's current load, if any, is over.
func (s *Session) WaitLoad(ctx context.Context) error {
	s.mu.Lock()
	run := s.load
	s.mu.Unlock()

	if run == nil {
		return nil
	}
	select {
	case <-run.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) CancelLoad() {
	s.mu.Lock()
	if s.load != nil {
		s.load.cancel()
	}
	s.mu.Unlock()
}

func (s *Session) AddScreenshot(path string) {
	s.mu.Lock()
	s.screenshots = append(s.screenshots, path)
	s.mu.Unlock()
}

func (s *Session) Screenshots() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.screenshots))
	copy(out, s.screenshots)
	return out
}

func (s *Session) OwnsScreenshot(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.screenshots {
		if p == path {
			return true
		}
	}
	return false
}

type sessionMemory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionRepository() SessionRepository {
	return &sessionMemory{sessions: make(map[string]*Session)}
}

func (r *sessionMemory) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *sessionMemory) Create() *Session {
	s := newSession(uuid.New().String())

	r.mu.Lock()
	r.sessions[s.ID] = s
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	return s
}

// GetOrCreate reports whether a new session had to be created.
func (r *sessionMemory) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		r.mu.RLock()
		s, ok := r.sessions[id]
		if ok {
			s.Touch()
		}
		r.mu.RUnlock()
		if ok {
			return s, false
		}
	}
	return r.Create(), true
}

func (r *sessionMemory) Remove(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	delete(r.sessions, id)
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	s.CancelLoad()
	return s, true
}

// RemoveIfIdle removes the session only if it has still not been seen since
// before. The check and the removal happen under the registry lock, and
// GetOrCreate touches sessions under the same lock, so a session picked up by
// a request in between is kept.
func (r *sessionMemory) RemoveIfIdle(id string, before time.Time) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || !s.LastSeen().Before(before) {
		return nil, false
	}
	delete(r.sessions, id)
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	s.CancelLoad()
	return s, true
}

func (r *sessionMemory) Expired(before time.Time) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Session
	for _, s := range r.sessions {
		if s.LastSeen().Before(before) {
			out = append(out, s)
		}
	}
	return out
}

func (r *sessionMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
