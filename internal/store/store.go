// Package store persists session-scoped state that must survive page
// navigation: the pending reservation snapshot, the cached search
// criteria and the in-progress passenger form. The production backend is
// Redis; a process-local memory store exists for tests and for degraded
// startup when Redis is unreachable.
package store

import (
	"context"

	"github.com/Crsto22/Movitex-sub001/internal/model"
)

// SessionStore is the durable key-value contract consumed by the
// selection state machine and the checkout flow.
//
// Read semantics are deliberately forgiving: a missing key returns
// (nil, nil) and so does a value that fails to parse. A corrupt stored
// reservation is treated as "no existing reservation", which makes the
// next confirmation perform an unconditional fresh write instead of
// crashing the flow.
type SessionStore interface {
	// GetPendingReservation returns the stored snapshot, or nil when
	// absent or unreadable. The error is reserved for backend failures.
	GetPendingReservation(ctx context.Context, sessionID string) (*model.PendingReservation, error)
	// PutPendingReservation overwrites the snapshot and clears the
	// dependent passenger form left over from a previous selection.
	PutPendingReservation(ctx context.Context, sessionID string, r *model.PendingReservation) error
	// DeletePendingReservation removes the snapshot, if any.
	DeletePendingReservation(ctx context.Context, sessionID string) error

	GetSearchCriteria(ctx context.Context, sessionID string) (*model.SearchCriteria, error)
	PutSearchCriteria(ctx context.Context, sessionID string, c *model.SearchCriteria) error
}

// Key prefixes used by every backend so that a session's state can be
// inspected and expired as a unit.
const (
	keyPendingReservation = "pending_reservation:"
	keySearchCriteria     = "search_criteria:"
	keyPassengerForm      = "passenger_form:"
)
