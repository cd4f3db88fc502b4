// Package inventory loads the authoritative seat list for a trip from the
// remote procedure layer and normalizes it into SeatRecord values. It is a
// leaf dependency of the selection state machine: one attempt per call, no
// retry policy, and no state of its own.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/Crsto22/Movitex-sub001/internal/model"
)

// ErrInvalidTripID is returned for an empty trip identifier. The fetcher
// fails fast and never reaches the remote procedure in this case.
var ErrInvalidTripID = errors.New("invalid trip id")

// FetchError wraps a transient remote-procedure or driver failure. Callers
// surface it as a dismissable error state and own any retry policy; the
// fetcher itself never retries.
type FetchError struct {
	TripID string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("seat inventory fetch for trip %q failed: %v", e.TripID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher is the contract consumed by the selection state machine. A
// successful call with zero rows returns an empty slice, not an error:
// "trip has no seat data" is a valid, displayable state.
type Fetcher interface {
	FetchSeatsForTrip(ctx context.Context, tripID string) ([]model.SeatRecord, error)
}

// NormalizeOccupancy maps source occupancy values onto the two states the
// selection core understands. "preselected" means another buyer grabbed
// the seat moments ago and collapses to occupied; unknown values degrade
// to available rather than blocking a sellable seat.
func NormalizeOccupancy(state string) string {
	switch state {
	case model.OccupancyOccupied, model.OccupancyPreselected:
		return model.OccupancyOccupied
	default:
		return model.OccupancyAvailable
	}
}
