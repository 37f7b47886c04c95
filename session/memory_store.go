package session

import (
	"sort"
	"sync"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultMaxTurns    = 5
	DefaultMaxSessions = 1000
)

type entry struct {
	mu      sync.Mutex
	session Session
	removed bool
}

// MemoryStore keeps sessions in process memory.
//
// Lock order is entry then map. The map lock is never held while waiting on
// an entry, so a slow mutation of one session cannot stall another.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry

	maxTurns    int
	maxSessions int
	now         func() time.Time
	newID       func() string
}

type Option func(*MemoryStore)

// WithMaxTurns bounds the turns kept per session. Oldest turns go first.
func WithMaxTurns(n int) Option {
	return func(s *MemoryStore) { s.maxTurns = n }
}

// WithMaxSessions bounds the live session count. Exceeding it evicts the
// least recently active sessions down to 90% of the limit. Zero disables
// the bound.
func WithMaxSessions(n int) Option {
	return func(s *MemoryStore) { s.maxSessions = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) { s.now = now }
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		entries:     make(map[string]*entry),
		maxTurns:    DefaultMaxTurns,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) lookup(id string) *entry {
	if id == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[id]
}

func (s *MemoryStore) Resolve(id string) (Session, bool) {
	if e := s.lookup(id); e != nil {
		e.mu.Lock()
		if !e.removed {
			e.session.LastActive = s.now()
			snap := e.session.clone()
			e.mu.Unlock()
			return snap, false
		}
		e.mu.Unlock()
	}

	now := s.now()
	e := &entry{session: Session{
		ID:         s.newID(),
		Turns:      []Turn{},
		CreatedAt:  now,
		LastActive: now,
	}}
	snap := e.session.clone()

	s.mu.Lock()
	s.entries[e.session.ID] = e
	overflow := s.maxSessions > 0 && len(s.entries) > s.maxSessions
	s.mu.Unlock()

	if overflow {
		s.evictOldest(e)
	}
	return snap, true
}

func (s *MemoryStore) Append(id, query, response string) bool {
	e := s.lookup(id)
	if e == nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return false
	}

	now := s.now()
	if len(e.session.Turns) == 0 && e.session.OriginalQuery == "" {
		e.session.OriginalQuery = query
	}
	e.session.Turns = trimTurns(append(e.session.Turns, Turn{Query: query, Response: response, At: now}), s.maxTurns)
	e.session.LastActive = now
	return true
}

func (s *MemoryStore) Reset(id string) bool {
	e := s.lookup(id)
	if e == nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return false
	}
	e.session.Turns = []Turn{}
	e.session.OriginalQuery = ""
	e.session.LastActive = s.now()
	return true
}

func (s *MemoryStore) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)
	removed := 0
	for _, e := range s.snapshot() {
		// a session being mutated is active by definition
		if !e.mu.TryLock() {
			continue
		}
		if !e.removed && e.session.LastActive.Before(cutoff) {
			s.remove(e)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) snapshot() []*entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out
}

// remove deletes e from the map. Caller holds e.mu.
func (s *MemoryStore) remove(e *entry) {
	e.removed = true
	s.mu.Lock()
	if s.entries[e.session.ID] == e {
		delete(s.entries, e.session.ID)
	}
	s.mu.Unlock()
}

// evictOldest trims the store to 90% of maxSessions, least recently active
// first. keep is the session that triggered the eviction and is never chosen.
func (s *MemoryStore) evictOldest(keep *entry) {
	type candidate struct {
		e          *entry
		lastActive time.Time
	}

	var candidates []candidate
	for _, e := range s.snapshot() {
		if e == keep {
			continue
		}
		e.mu.Lock()
		if !e.removed {
			candidates = append(candidates, candidate{e: e, lastActive: e.session.LastActive})
		}
		e.mu.Unlock()
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].lastActive.Before(candidates[j].lastActive)
	})

	target := s.maxSessions * 9 / 10
	excess := s.Len() - target
	evicted := 0
	for _, c := range candidates {
		if evicted >= excess {
			break
		}
		if !c.e.mu.TryLock() {
			continue
		}
		if !c.e.removed {
			s.remove(c.e)
			evicted++
		}
		c.e.mu.Unlock()
	}

	if evicted > 0 {
		logger.Info("Evicted least recently active sessions",
			zap.Int("evicted", evicted),
			zap.Int("remaining", s.Len()))
	}
}
