package identity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/hr-assistant/internal/core/clock"
)

// Session is the in-process state of one linked conversation. Invocations of
// a session are serialized through its lock; different sessions run in
// parallel.
type Session struct {
	Token      string
	EmployeeID int64
	OpenedAt   time.Time

	turn        sync.Mutex
	lastSeen    time.Time
	inflight    int
	invocations int64
}

// SessionInfo is a point-in-time copy of a session for callers outside the store.
type SessionInfo struct {
	EmployeeID  int64
	OpenedAt    time.Time
	LastSeen    time.Time
	InFlight    int
	Invocations int64
}

// SessionStore owns session lifecycles: opened on link (or on the first
// resolve after a restart), evicted on unlink or after idleTimeout without
// activity. It is safe for concurrent use.
type SessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration
	clock       clock.Clock
	logger      *slog.Logger
}

func NewSessionStore(idleTimeout time.Duration, clk clock.Clock, logger *slog.Logger) *SessionStore {
	if idleTimeout <= 0 {
		idleTimeout = 30 * time.Minute
	}
	return &SessionStore{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		clock:       clk,
		logger:      logger,
	}
}

// Open creates the session for token, or rebinds it when the token now
// belongs to a different employee.
func (s *SessionStore) Open(token string, employeeID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openLocked(token, employeeID)
}

func (s *SessionStore) openLocked(token string, employeeID int64) *Session {
	if sess, ok := s.sessions[token]; ok && sess.EmployeeID == employeeID {
		sess.lastSeen = s.clock.Now()
		return sess
	}
	now := s.clock.Now()
	sess := &Session{Token: token, EmployeeID: employeeID, OpenedAt: now, lastSeen: now}
	s.sessions[token] = sess
	s.logger.Debug("session opened", "employee_id", employeeID)
	return sess
}

// Acquire waits for the session's turn and returns the function that ends it.
// The session cannot be swept while a turn is held.
func (s *SessionStore) Acquire(ctx context.Context, token string, employeeID int64) (release func(), err error) {
	s.mu.Lock()
	sess := s.openLocked(token, employeeID)
	sess.inflight++
	s.mu.Unlock()

	acquired := make(chan struct{})
	go func() {
		sess.turn.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-ctx.Done():
		go func() {
			<-acquired
			sess.turn.Unlock()
		}()
		s.finish(sess)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			sess.turn.Unlock()
			s.finish(sess)
		})
	}, nil
}

func (s *SessionStore) finish(sess *Session) {
	s.mu.Lock()
	sess.inflight--
	sess.invocations++
	sess.lastSeen = s.clock.Now()
	s.mu.Unlock()
}

// Evict drops the session for token. It reports whether one existed.
func (s *SessionStore) Evict(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return false
	}
	delete(s.sessions, token)
	return true
}

func (s *SessionStore) Get(token string) (SessionInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return SessionInfo{}, false
	}
	return SessionInfo{
		EmployeeID:  sess.EmployeeID,
		OpenedAt:    sess.OpenedAt,
		LastSeen:    sess.lastSeen,
		InFlight:    sess.inflight,
		Invocations: sess.invocations,
	}, true
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than the timeout and returns how many
// were removed. Sessions with an invocation in flight are kept.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-s.idleTimeout)
	evicted := 0
	for token, sess := range s.sessions {
		if sess.inflight == 0 && sess.lastSeen.Before(cutoff) {
			delete(s.sessions, token)
			evicted++
		}
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("evicted idle sessions", "count", n, "active", s.Len())
			}
		}
	}
}
