// Package selection owns the seat selection state machine. A Session holds
// the seat map for every floor of the trip a user is looking at, enforces
// the selection cap and the occupied-seat rule, and turns a confirmed
// selection into a durable pending reservation snapshot.
//
// All mutating operations serialize behind the session mutex: the
// selection cap is a global invariant across floors and needs atomic
// check-and-set, and confirmation keeps the lock across its store round
// trip so the persisted snapshot always matches the selection it froze.
// The inventory fetch is the one suspending operation that runs outside
// the lock; responses are tagged with a request sequence number so that
// only the most recently issued load can apply ("last request wins",
// never "last response wins").
package selection

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Crsto22/Movitex-sub001/internal/inventory"
	"github.com/Crsto22/Movitex-sub001/internal/layout"
	"github.com/Crsto22/Movitex-sub001/internal/model"
	"github.com/Crsto22/Movitex-sub001/internal/store"
)

// ErrNothingSelected is returned by ConfirmSelection when no seat is
// selected. The UI disables the confirm action in that state, so hitting
// this path means a stale client; nothing is persisted.
var ErrNothingSelected = errors.New("no seats selected")

// TripMetadata resolves the trip details embedded into a reservation
// snapshot. Implementations must degrade: a missing trip or field yields
// empty values, never an error that would abort a confirmation.
type TripMetadata interface {
	TripDetail(ctx context.Context, tripID string) (model.TripDetail, error)
}

// Config carries the tunables of the state machine. The selection cap and
// the reservation TTL are configuration, not structural constants.
type Config struct {
	MaxSelected    int           // most seats one session may select across all floors
	ReservationTTL time.Duration // pending reservation lifetime from confirmation
	Layout         layout.Params // grid geometry handed to the layout generator
}

// ToggleOutcome classifies the result of a ToggleSeat call. Only Applied
// changed state; the other outcomes are deliberate no-ops.
type ToggleOutcome int

const (
	// ToggleApplied means the seat changed between available and selected.
	ToggleApplied ToggleOutcome = iota
	// ToggleCapReached means selecting would exceed the cap; the caller
	// should show a blocking notice. State is unchanged.
	ToggleCapReached
	// ToggleIgnored covers occupied seats and stale seat ids that no
	// longer exist in the current inventory.
	ToggleIgnored
)

// seatState is a positioned seat plus the status owned by this machine.
type seatState struct {
	model.PositionedSeat
	Status string
}

// SeatView is the per-seat projection handed to the HTTP layer.
type SeatView struct {
	model.PositionedSeat
	Status string `json:"status"`
}

// View is the full observable state after any operation: the visible
// floor's seats plus the cross-floor aggregates, recomputed at the end of
// every mutating call rather than inferred by the caller.
type View struct {
	TripID        string                  `json:"trip_id"`
	Floors        []int                   `json:"floors"`
	ActiveFloor   int                     `json:"active_floor"`
	Seats         []SeatView              `json:"seats"`
	SelectedSeats []model.ReservationSeat `json:"selected_seats"`
	SelectedCount int                     `json:"selected_count"`
	TotalPrice    float64                 `json:"total_price"`
}

// Session is one user's selection state machine. Create through a Manager.
type Session struct {
	mu sync.Mutex

	id      string
	fetcher inventory.Fetcher
	store   store.SessionStore
	trips   TripMetadata
	cfg     Config
	now     func() time.Time

	tripID      string
	seats       map[string]*seatState
	order       []string // seat ids in inventory order, drives snapshot and view order
	floors      []int
	activeFloor int

	loadSeq   uint64 // sequence of the most recently issued load
	lastTouch time.Time
}

// NewSession builds an empty session. Until the first inventory load the
// floor list defaults to [1].
func NewSession(id string, fetcher inventory.Fetcher, st store.SessionStore, trips TripMetadata, cfg Config) *Session {
	if cfg.MaxSelected <= 0 {
		cfg.MaxSelected = 8
	}
	if cfg.ReservationTTL <= 0 {
		cfg.ReservationTTL = 10 * time.Minute
	}
	return &Session{
		id:          id,
		fetcher:     fetcher,
		store:       st,
		trips:       trips,
		cfg:         cfg,
		now:         time.Now,
		seats:       map[string]*seatState{},
		floors:      []int{1},
		activeFloor: 1,
		lastTouch:   time.Now(),
	}
}

// LoadInventory fetches the seat list for tripID and replaces the seat map
// atomically. Selected status survives the reload for seats whose id still
// exists and whose new occupancy is not occupied; everything else resets.
// A fetch failure leaves the previous state untouched so a transient
// network blip does not cost the user an in-progress selection. A response
// that lost the race to a newer load is discarded entirely.
func (s *Session) LoadInventory(ctx context.Context, tripID string) (View, error) {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.lastTouch = s.now()
	s.mu.Unlock()

	records, err := s.fetcher.FetchSeatsForTrip(ctx, tripID)
	if err != nil {
		return s.Snapshot(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.loadSeq {
		// a newer load was issued while this fetch was in flight
		return s.viewLocked(), nil
	}
	s.applyInventoryLocked(tripID, records)
	return s.viewLocked(), nil
}

// applyInventoryLocked performs the merge-then-replace step under the lock.
func (s *Session) applyInventoryLocked(tripID string, records []model.SeatRecord) {
	prev := s.seats

	byFloor := map[int][]model.SeatRecord{}
	floors := []int{}
	for _, r := range records {
		if _, ok := byFloor[r.Floor]; !ok {
			floors = append(floors, r.Floor)
		}
		byFloor[r.Floor] = append(byFloor[r.Floor], r)
	}
	sort.Ints(floors)

	next := make(map[string]*seatState, len(records))
	order := make([]string, 0, len(records))
	for _, f := range floors {
		for _, ps := range layout.Generate(byFloor[f], s.cfg.Layout) {
			st := model.StatusAvailable
			if ps.Occupancy == model.OccupancyOccupied {
				st = model.StatusOccupied
			} else if old, ok := prev[ps.ID]; ok && old.Status == model.StatusSelected {
				// selections survive the reload when the seat id still
				// exists and is not newly occupied
				st = model.StatusSelected
			}
			next[ps.ID] = &seatState{PositionedSeat: ps, Status: st}
			order = append(order, ps.ID)
		}
	}

	s.tripID = tripID
	s.seats = next
	s.order = order
	if len(floors) == 0 {
		s.floors = []int{1}
		s.activeFloor = 1
		return
	}
	s.floors = floors
	if !containsInt(floors, s.activeFloor) {
		s.activeFloor = floors[0]
	}
}

// SetActiveFloor changes which floor is rendered. It is a pure view
// change: unknown floors are ignored and no seat status is touched.
func (s *Session) SetActiveFloor(floor int) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTouch = s.now()
	if containsInt(s.floors, floor) {
		s.activeFloor = floor
	}
	return s.viewLocked()
}

// ToggleSeat flips a seat between available and selected. Deselection is
// always allowed; selection is rejected once the cap is reached.
// Occupied seats and ids not present in the current inventory are
// silently ignored.
func (s *Session) ToggleSeat(seatID string) (View, ToggleOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTouch = s.now()
	st, ok := s.seats[seatID]
	if !ok || st.Status == model.StatusOccupied {
		return s.viewLocked(), ToggleIgnored
	}
	switch st.Status {
	case model.StatusSelected:
		st.Status = model.StatusAvailable
	default:
		if s.selectedCountLocked() >= s.cfg.MaxSelected {
			return s.viewLocked(), ToggleCapReached
		}
		st.Status = model.StatusSelected
	}
	return s.viewLocked(), ToggleApplied
}

// ConfirmSelection freezes the current selection into a pending
// reservation. Confirming the exact seat set already stored for the same
// trip is idempotent and preserves the running countdown; anything else
// overwrites the old snapshot (and its dependent passenger form) with a
// fresh expiry.
//
// The whole confirm path, store round trip included, runs under the
// session mutex: a toggle racing a confirm must not slip in between
// snapshotting the selection and persisting it, or the stored snapshot
// would no longer match the selection it claims to freeze.
//
// The returned bool reports whether a fresh snapshot was written.
func (s *Session) ConfirmSelection(ctx context.Context) (*model.PendingReservation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTouch = s.now()

	tripID := s.tripID
	seats := s.selectedSeatsLocked()
	if len(seats) == 0 {
		return nil, false, ErrNothingSelected
	}
	total := 0.0
	ids := make([]string, 0, len(seats))
	for _, rs := range seats {
		total += rs.Price
		ids = append(ids, rs.SeatID)
	}

	existing, err := s.store.GetPendingReservation(ctx, s.id)
	if err != nil {
		return nil, false, err
	}
	if existing.Matches(tripID, ids) {
		return existing, false, nil
	}

	created := s.now().UTC()
	snap := &model.PendingReservation{
		TripID:     tripID,
		Seats:      seats,
		TotalPrice: total,
		CreatedAt:  created,
		ExpiresAt:  created.Add(s.cfg.ReservationTTL),
	}
	if s.trips != nil {
		// metadata is best effort: a failed lookup leaves the fields empty
		if d, derr := s.trips.TripDetail(ctx, tripID); derr == nil {
			snap.ServiceType = d.ServiceType
			snap.TripDate = d.TripDate
			snap.DepartureTime = d.DepartureTime
			snap.ArrivalTime = d.ArrivalTime
			snap.OriginCity = d.OriginCity
			snap.DestCity = d.DestCity
			snap.OriginTerminal = d.OriginTerminal
			snap.DestTerminal = d.DestTerminal
		}
	}
	if err := s.store.PutPendingReservation(ctx, s.id, snap); err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

// Snapshot returns the current view without mutating anything.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	v := View{
		TripID:        s.tripID,
		Floors:        append([]int(nil), s.floors...),
		ActiveFloor:   s.activeFloor,
		Seats:         []SeatView{},
		SelectedSeats: s.selectedSeatsLocked(),
	}
	for _, id := range s.order {
		st := s.seats[id]
		if st.Floor != s.activeFloor {
			continue
		}
		v.Seats = append(v.Seats, SeatView{PositionedSeat: st.PositionedSeat, Status: st.Status})
	}
	v.SelectedCount = len(v.SelectedSeats)
	for _, rs := range v.SelectedSeats {
		v.TotalPrice += rs.Price
	}
	return v
}

func (s *Session) selectedSeatsLocked() []model.ReservationSeat {
	out := []model.ReservationSeat{}
	for _, id := range s.order {
		st := s.seats[id]
		if st.Status != model.StatusSelected {
			continue
		}
		out = append(out, model.ReservationSeat{
			SeatID:       st.ID,
			SeatNumber:   st.Number,
			Price:        st.Price,
			ReclineAngle: st.ReclineAngle,
			Floor:        st.Floor,
		})
	}
	return out
}

func (s *Session) selectedCountLocked() int {
	n := 0
	for _, st := range s.seats {
		if st.Status == model.StatusSelected {
			n++
		}
	}
	return n
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
