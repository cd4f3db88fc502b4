package store

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/Crsto22/Movitex-sub001/internal/model"
)

// MemoryStore is a process-local SessionStore. It backs tests and serves
// as the degraded mode when Redis cannot be reached at startup: sessions
// then survive navigation but not a server restart.
//
// Values are kept as JSON bytes rather than live pointers so the
// serialize/deserialize contract is exercised the same way as in Redis.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	return raw, ok
}

func (s *MemoryStore) put(key string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
}

func (s *MemoryStore) del(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
}

func (s *MemoryStore) GetPendingReservation(_ context.Context, sessionID string) (*model.PendingReservation, error) {
	raw, ok := s.get(keyPendingReservation + sessionID)
	if !ok {
		return nil, nil
	}
	var r model.PendingReservation
	if err := json.Unmarshal(raw, &r); err != nil {
		log.Printf("store: discarding unparseable pending reservation for session %s: %v", sessionID, err)
		s.del(keyPendingReservation + sessionID)
		return nil, nil
	}
	return &r, nil
}

func (s *MemoryStore) PutPendingReservation(_ context.Context, sessionID string, r *model.PendingReservation) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	s.put(keyPendingReservation+sessionID, raw)
	s.del(keyPassengerForm + sessionID)
	return nil
}

func (s *MemoryStore) DeletePendingReservation(_ context.Context, sessionID string) error {
	s.del(keyPendingReservation+sessionID, keyPassengerForm+sessionID)
	return nil
}

func (s *MemoryStore) GetSearchCriteria(_ context.Context, sessionID string) (*model.SearchCriteria, error) {
	raw, ok := s.get(keySearchCriteria + sessionID)
	if !ok {
		return nil, nil
	}
	var c model.SearchCriteria
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, nil
	}
	return &c, nil
}

func (s *MemoryStore) PutSearchCriteria(_ context.Context, sessionID string, c *model.SearchCriteria) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.put(keySearchCriteria+sessionID, raw)
	return nil
}

// Corrupt overwrites a session's stored reservation with bytes that do
// not parse. Test helper for the recovery path.
func (s *MemoryStore) Corrupt(sessionID string) {
	s.put(keyPendingReservation+sessionID, []byte("{not json"))
}
