package selection

import (
	"sync"
	"time"

	"github.com/Crsto22/Movitex-sub001/internal/inventory"
	"github.com/Crsto22/Movitex-sub001/internal/store"
)

// Manager is the registry of live selection sessions, one per session id.
// Sessions are created lazily on first access and evicted after sitting
// idle; the durable parts of a session (the pending reservation, the
// search criteria) live in the SessionStore and survive eviction.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	fetcher inventory.Fetcher
	store   store.SessionStore
	trips   TripMetadata
	cfg     Config
}

// NewManager builds a Manager that hands out sessions wired to the given
// collaborators.
func NewManager(fetcher inventory.Fetcher, st store.SessionStore, trips TripMetadata, cfg Config) *Manager {
	return &Manager{
		sessions: map[string]*Session{},
		fetcher:  fetcher,
		store:    st,
		trips:    trips,
		cfg:      cfg,
	}
}

// Session returns the live state machine for the given session id,
// creating it when absent.
func (m *Manager) Session(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := NewSession(id, m.fetcher, m.store, m.trips, m.cfg)
	m.sessions[id] = s
	return s
}

// EvictIdle drops sessions untouched for longer than maxIdle and returns
// how many were removed.
func (m *Manager) EvictIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastTouch.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// StartSweeper runs EvictIdle on a fixed interval until stop is closed.
func (m *Manager) StartSweeper(interval, maxIdle time.Duration, stop <-chan struct{}) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				m.EvictIdle(maxIdle)
			case <-stop:
				return
			}
		}
	}()
}
