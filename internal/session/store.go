// Package session keeps one workflow.State per browser session in memory.
//
// Actions within a session are serialized with a busy flag: Acquire marks the
// stored state busy and hands out a snapshot; Commit stores the result and
// Release drops the flag after a failure. A second Acquire while busy fails
// with workflow.ErrBusy.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-shortscript/internal/workflow"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 2 * time.Hour

// defaultSweepInterval is how often Run looks for idle sessions.
const defaultSweepInterval = time.Minute

type entry struct {
	state    workflow.State
	lastSeen time.Time
}

// Store is a concurrency-safe in-memory session map.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	newID    func() string
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the idle lifetime of a session.
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithSweepInterval sets how often Run sweeps.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock sets the time source (for tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithIDFunc sets the session ID generator (for tests).
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*entry),
		ttl:      DefaultTTL,
		interval: defaultSweepInterval,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the configured idle lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Ensure returns id if it names a live session, otherwise creates a new
// session and returns its ID. The boolean reports whether a session was created.
func (s *Store) Ensure(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[id]; ok && id != "" {
		e.lastSeen = s.now()
		return id, false
	}
	id = s.newID()
	s.sessions[id] = &entry{lastSeen: s.now()}
	return id, true
}

// Get returns a copy of the session's state.
func (s *Store) Get(id string) (workflow.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return workflow.State{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	e.lastSeen = s.now()
	return e.state.Clone(), nil
}

// Acquire marks the session busy and returns a snapshot of its state with
// Busy cleared, ready to hand to the workflow controller. Every successful
// Acquire must be followed by Commit or Release.
func (s *Store) Acquire(id string) (workflow.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return workflow.State{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	if e.state.Busy {
		return workflow.State{}, workflow.ErrBusy
	}
	e.state.Busy = true
	e.lastSeen = s.now()

	snap := e.state.Clone()
	snap.Busy = false
	return snap, nil
}

// Commit stores st as the session's state and clears the busy flag.
// A session swept or reset in the meantime is recreated with st.
func (s *Store) Commit(id string, st workflow.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st = st.Clone()
	st.Busy = false
	s.sessions[id] = &entry{state: st, lastSeen: s.now()}
}

// Release clears the busy flag without changing the state.
func (s *Store) Release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[id]; ok {
		e.state.Busy = false
		e.lastSeen = s.now()
	}
}

// Reset replaces the session's state with an empty one.
// Returns workflow.ErrBusy if an action is running.
func (s *Store) Reset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	if e.state.Busy {
		return workflow.ErrBusy
	}
	e.state = workflow.State{}
	e.lastSeen = s.now()
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed. Busy sessions are kept.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, e := range s.sessions {
		if e.state.Busy || e.lastSeen.After(cutoff) {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	return removed
}

// Run sweeps periodically until ctx is done. onSweep, if non-nil, is called
// with the number of sessions removed by each sweep that removed any.
func (s *Store) Run(ctx context.Context, onSweep func(removed int)) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
