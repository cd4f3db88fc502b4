package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Crsto22/Movitex-sub001/internal/model"
)

// RedisStore persists session state in Redis. Values are stored as JSON.
// Reservation keys carry a TTL slightly longer than the reservation
// expiry so Redis reclaims abandoned checkouts on its own; search
// criteria use a fixed retention window.
type RedisStore struct {
	rdb         *redis.Client
	criteriaTTL time.Duration
	expirySlack time.Duration
}

// NewRedisStore returns a RedisStore bound to the provided client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{
		rdb:         rdb,
		criteriaTTL: 24 * time.Hour,
		expirySlack: time.Minute,
	}
}

// GetPendingReservation loads and parses the stored snapshot. A missing
// key or a payload that no longer parses both yield (nil, nil); parse
// failures are logged and the stale payload is discarded.
func (s *RedisStore) GetPendingReservation(ctx context.Context, sessionID string) (*model.PendingReservation, error) {
	raw, err := s.rdb.Get(ctx, keyPendingReservation+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var r model.PendingReservation
	if err := json.Unmarshal(raw, &r); err != nil {
		log.Printf("store: discarding unparseable pending reservation for session %s: %v", sessionID, err)
		_ = s.rdb.Del(ctx, keyPendingReservation+sessionID).Err()
		return nil, nil
	}
	return &r, nil
}

// PutPendingReservation writes a fresh snapshot and removes the passenger
// form tied to the previous one. The Redis TTL follows the snapshot's
// own expiry plus a small slack so readers can still observe an expired
// reservation briefly before it vanishes.
func (s *RedisStore) PutPendingReservation(ctx context.Context, sessionID string, r *model.PendingReservation) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	ttl := time.Until(r.ExpiresAt) + s.expirySlack
	if ttl <= 0 {
		ttl = s.expirySlack
	}
	if err := s.rdb.Set(ctx, keyPendingReservation+sessionID, raw, ttl).Err(); err != nil {
		return err
	}
	// a replaced reservation invalidates any passenger data entered for
	// the old seat set
	return s.rdb.Del(ctx, keyPassengerForm+sessionID).Err()
}

// DeletePendingReservation removes the snapshot and its passenger form.
func (s *RedisStore) DeletePendingReservation(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, keyPendingReservation+sessionID, keyPassengerForm+sessionID).Err()
}

// GetSearchCriteria loads the cached search form state, nil when absent
// or unreadable.
func (s *RedisStore) GetSearchCriteria(ctx context.Context, sessionID string) (*model.SearchCriteria, error) {
	raw, err := s.rdb.Get(ctx, keySearchCriteria+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var c model.SearchCriteria
	if err := json.Unmarshal(raw, &c); err != nil {
		log.Printf("store: discarding unparseable search criteria for session %s: %v", sessionID, err)
		return nil, nil
	}
	return &c, nil
}

// PutSearchCriteria caches the last search the session performed.
func (s *RedisStore) PutSearchCriteria(ctx context.Context, sessionID string, c *model.SearchCriteria) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keySearchCriteria+sessionID, raw, s.criteriaTTL).Err()
}
