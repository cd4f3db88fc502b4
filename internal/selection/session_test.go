package selection

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Crsto22/Movitex-sub001/internal/layout"
	"github.com/Crsto22/Movitex-sub001/internal/model"
	"github.com/Crsto22/Movitex-sub001/internal/store"
)

// fakeFetcher serves canned seat lists per trip id and can be set to fail.
type fakeFetcher struct {
	byTrip map[string][]model.SeatRecord
	err    error
	calls  int
}

func (f *fakeFetcher) FetchSeatsForTrip(_ context.Context, tripID string) ([]model.SeatRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byTrip[tripID], nil
}

type fakeTrips struct{ detail model.TripDetail }

func (f *fakeTrips) TripDetail(context.Context, string) (model.TripDetail, error) {
	return f.detail, nil
}

func seatRow(id string, number, floor int, price float64, occupancy string) model.SeatRecord {
	return model.SeatRecord{ID: id, Number: number, Floor: floor, ReclineAngle: 160, Price: price, Occupancy: occupancy}
}

func availableSeats(floor, n int) []model.SeatRecord {
	out := make([]model.SeatRecord, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, seatRow(fmt.Sprintf("f%ds%d", floor, i), i, floor, 10, model.OccupancyAvailable))
	}
	return out
}

func newTestSession(t *testing.T, f *fakeFetcher) (*Session, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	s := NewSession("sess1", f, st, &fakeTrips{}, Config{
		MaxSelected:    8,
		ReservationTTL: 10 * time.Minute,
		Layout:         layout.DefaultParams(),
	})
	return s, st
}

func mustLoad(t *testing.T, s *Session, trip string) View {
	t.Helper()
	v, err := s.LoadInventory(context.Background(), trip)
	if err != nil {
		t.Fatalf("LoadInventory(%s): %v", trip, err)
	}
	return v
}

func TestSelectionCapNeverExceeded(t *testing.T) {
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": availableSeats(1, 12)}}
	s, _ := newTestSession(t, f)
	mustLoad(t, s, "T1")

	selected := 0
	for i := 1; i <= 12; i++ {
		v, out := s.ToggleSeat(fmt.Sprintf("f1s%d", i))
		if out == ToggleApplied {
			selected++
		}
		if v.SelectedCount > 8 {
			t.Fatalf("selected count %d exceeds the cap", v.SelectedCount)
		}
	}
	if selected != 8 {
		t.Fatalf("expected exactly 8 applied toggles, got %d", selected)
	}
	// the 9th and later attempts were rejected without partial mutation
	v, out := s.ToggleSeat("f1s12")
	if out != ToggleCapReached {
		t.Fatalf("expected ToggleCapReached, got %v", out)
	}
	if v.SelectedCount != 8 {
		t.Fatalf("rejection must leave exactly 8 selected, got %d", v.SelectedCount)
	}
	// deselection is never blocked, even at the cap
	if _, out := s.ToggleSeat("f1s1"); out != ToggleApplied {
		t.Fatal("deselection at the cap must be allowed")
	}
}

func TestOccupiedSeatNeverSelectable(t *testing.T) {
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": {
		seatRow("a", 1, 1, 10, model.OccupancyAvailable),
		seatRow("b", 2, 1, 10, model.OccupancyOccupied),
	}}}
	s, _ := newTestSession(t, f)
	mustLoad(t, s, "T1")

	for i := 0; i < 3; i++ {
		v, out := s.ToggleSeat("b")
		if out != ToggleIgnored {
			t.Fatalf("toggle on occupied seat: got %v, want ToggleIgnored", out)
		}
		for _, sv := range v.Seats {
			if sv.ID == "b" && sv.Status != model.StatusOccupied {
				t.Fatalf("occupied seat drifted to %q", sv.Status)
			}
		}
	}
}

func TestStaleSeatReferenceIgnored(t *testing.T) {
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": availableSeats(1, 2)}}
	s, _ := newTestSession(t, f)
	mustLoad(t, s, "T1")

	v, out := s.ToggleSeat("no-such-seat")
	if out != ToggleIgnored {
		t.Fatalf("stale seat id: got %v, want ToggleIgnored", out)
	}
	if v.SelectedCount != 0 {
		t.Fatal("stale toggle must not change state")
	}
}

func TestFloorSwitchPurity(t *testing.T) {
	records := append(availableSeats(1, 4), availableSeats(2, 4)...)
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": records}}
	s, _ := newTestSession(t, f)
	mustLoad(t, s, "T1")

	s.ToggleSeat("f1s1")
	s.ToggleSeat("f2s3")

	for _, floor := range []int{2, 1, 2, 2, 1, 7} {
		v := s.SetActiveFloor(floor)
		if v.SelectedCount != 2 || v.TotalPrice != 20 {
			t.Fatalf("floor switch altered aggregates: count=%d total=%v", v.SelectedCount, v.TotalPrice)
		}
		if floor == 7 && v.ActiveFloor == 7 {
			t.Fatal("unknown floor must be ignored")
		}
	}
	// visible subset tracks the active floor
	v := s.SetActiveFloor(2)
	for _, sv := range v.Seats {
		if sv.Floor != 2 {
			t.Fatalf("floor 2 view leaked a floor %d seat", sv.Floor)
		}
	}
}

func TestReloadPreservesSurvivingSelections(t *testing.T) {
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": {
		seatRow("A", 1, 1, 10, model.OccupancyAvailable),
		seatRow("B", 2, 1, 10, model.OccupancyAvailable),
		seatRow("C", 3, 1, 10, model.OccupancyAvailable),
	}}}
	s, _ := newTestSession(t, f)
	mustLoad(t, s, "T1")
	s.ToggleSeat("A")
	s.ToggleSeat("B")

	// new inventory: B gone, D new, A still free, C untouched
	f.byTrip["T1"] = []model.SeatRecord{
		seatRow("A", 1, 1, 10, model.OccupancyAvailable),
		seatRow("C", 3, 1, 10, model.OccupancyAvailable),
		seatRow("D", 4, 1, 10, model.OccupancyAvailable),
	}
	v := mustLoad(t, s, "T1")

	status := map[string]string{}
	for _, sv := range v.Seats {
		status[sv.ID] = sv.Status
	}
	if status["A"] != model.StatusSelected {
		t.Errorf("A = %q, want selected", status["A"])
	}
	if status["C"] != model.StatusAvailable || status["D"] != model.StatusAvailable {
		t.Errorf("C/D must be available, got %q/%q", status["C"], status["D"])
	}
	if _, ok := status["B"]; ok {
		t.Error("B must not be carried over")
	}
	if v.SelectedCount != 1 {
		t.Errorf("selected count = %d, want 1", v.SelectedCount)
	}
}

func TestReloadDropsSelectionWhenSeatBecomesOccupied(t *testing.T) {
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": {
		seatRow("A", 1, 1, 10, model.OccupancyAvailable),
	}}}
	s, _ := newTestSession(t, f)
	mustLoad(t, s, "T1")
	s.ToggleSeat("A")

	f.byTrip["T1"] = []model.SeatRecord{seatRow("A", 1, 1, 10, model.OccupancyOccupied)}
	v := mustLoad(t, s, "T1")
	if v.SelectedCount != 0 {
		t.Fatal("a seat sold elsewhere must lose its local selection on reload")
	}
	if _, out := s.ToggleSeat("A"); out != ToggleIgnored {
		t.Fatal("the now-occupied seat must not be selectable")
	}
}

func TestFetchFailureLeavesStateUntouched(t *testing.T) {
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": availableSeats(1, 3)}}
	s, _ := newTestSession(t, f)
	mustLoad(t, s, "T1")
	s.ToggleSeat("f1s1")

	f.err = errors.New("network down")
	v, err := s.LoadInventory(context.Background(), "T1")
	if err == nil {
		t.Fatal("expected fetch error to surface")
	}
	if v.SelectedCount != 1 || len(v.Seats) != 3 {
		t.Fatal("fetch failure must not clear existing selections")
	}
}

func TestEmptyInventoryClearsState(t *testing.T) {
	records := append(availableSeats(1, 2), availableSeats(2, 2)...)
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": records}}
	s, _ := newTestSession(t, f)
	mustLoad(t, s, "T1")
	s.SetActiveFloor(2)

	f.byTrip["T1"] = nil
	v := mustLoad(t, s, "T1")
	if len(v.Seats) != 0 || v.SelectedCount != 0 {
		t.Fatal("empty inventory must clear all seat state")
	}
	if len(v.Floors) != 1 || v.Floors[0] != 1 || v.ActiveFloor != 1 {
		t.Fatalf("empty inventory must default floors to [1], got %v/%d", v.Floors, v.ActiveFloor)
	}
}

func TestSingleFloorInventoryResetsActiveFloor(t *testing.T) {
	records := append(availableSeats(1, 2), availableSeats(2, 2)...)
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": records}}
	s, _ := newTestSession(t, f)
	mustLoad(t, s, "T1")
	s.SetActiveFloor(2)

	// new trip has a single floor; the floor-2 selector must snap back
	f.byTrip["T2"] = availableSeats(1, 4)
	v := mustLoad(t, s, "T2")
	if v.ActiveFloor != 1 {
		t.Fatalf("active floor = %d, want 1", v.ActiveFloor)
	}
}

func TestConfirmSelectionTotals(t *testing.T) {
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": {
		seatRow("a", 1, 1, 10.00, model.OccupancyAvailable),
		seatRow("b", 2, 1, 15.50, model.OccupancyAvailable),
		seatRow("c", 3, 1, 12.25, model.OccupancyAvailable),
	}}}
	s, _ := newTestSession(t, f)
	mustLoad(t, s, "T1")
	s.ToggleSeat("a")
	s.ToggleSeat("b")
	s.ToggleSeat("c")

	snap, written, err := s.ConfirmSelection(context.Background())
	if err != nil {
		t.Fatalf("ConfirmSelection: %v", err)
	}
	if !written {
		t.Fatal("first confirmation must write a snapshot")
	}
	if snap.TotalPrice != 37.75 {
		t.Fatalf("total = %v, want 37.75", snap.TotalPrice)
	}
	if len(snap.Seats) != 3 {
		t.Fatalf("snapshot has %d seats, want 3", len(snap.Seats))
	}
	if got := snap.ExpiresAt.Sub(snap.CreatedAt); got != 10*time.Minute {
		t.Fatalf("expiry window = %v, want 10m", got)
	}
}

func TestConfirmSelectionIdempotent(t *testing.T) {
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": availableSeats(1, 4)}}
	s, _ := newTestSession(t, f)
	mustLoad(t, s, "T1")
	s.ToggleSeat("f1s1")
	s.ToggleSeat("f1s2")

	first, written, err := s.ConfirmSelection(context.Background())
	if err != nil || !written {
		t.Fatalf("first confirm: written=%v err=%v", written, err)
	}

	second, written, err := s.ConfirmSelection(context.Background())
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	if written {
		t.Fatal("identical confirmation must not rewrite the snapshot")
	}
	if !second.ExpiresAt.Equal(first.ExpiresAt) {
		t.Fatal("idempotent confirmation must preserve the stored expiry")
	}
}

func TestConfirmSelectionOverwritesOnDifferentSeats(t *testing.T) {
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": availableSeats(1, 4)}}
	s, _ := newTestSession(t, f)
	mustLoad(t, s, "T1")
	s.ToggleSeat("f1s1")

	first, _, err := s.ConfirmSelection(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	s.ToggleSeat("f1s2")
	second, written, err := s.ConfirmSelection(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !written {
		t.Fatal("a changed seat set must overwrite the snapshot")
	}
	if !second.ExpiresAt.After(first.ExpiresAt) && !second.ExpiresAt.Equal(first.ExpiresAt) {
		t.Fatal("fresh snapshot must carry a fresh expiry")
	}
	if second.ExpiresAt.Sub(second.CreatedAt) != 10*time.Minute {
		t.Fatalf("fresh expiry window = %v, want 10m", second.ExpiresAt.Sub(second.CreatedAt))
	}
}

func TestConfirmSelectionOrderIndependent(t *testing.T) {
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": availableSeats(1, 4)}}
	s, _ := newTestSession(t, f)
	mustLoad(t, s, "T1")
	s.ToggleSeat("f1s1")
	s.ToggleSeat("f1s2")
	if _, _, err := s.ConfirmSelection(context.Background()); err != nil {
		t.Fatal(err)
	}

	// reselect the same seats in the opposite click order
	s.ToggleSeat("f1s1")
	s.ToggleSeat("f1s2")
	s.ToggleSeat("f1s2")
	s.ToggleSeat("f1s1")
	_, written, err := s.ConfirmSelection(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if written {
		t.Fatal("seat-set comparison must be order independent")
	}
}

func TestConfirmSelectionRequiresSeats(t *testing.T) {
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": availableSeats(1, 2)}}
	s, st := newTestSession(t, f)
	mustLoad(t, s, "T1")

	if _, _, err := s.ConfirmSelection(context.Background()); !errors.Is(err, ErrNothingSelected) {
		t.Fatalf("expected ErrNothingSelected, got %v", err)
	}
	if r, _ := st.GetPendingReservation(context.Background(), "sess1"); r != nil {
		t.Fatal("nothing may be persisted without a selection")
	}
}

func TestConfirmSelectionRecoversFromCorruptSnapshot(t *testing.T) {
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": availableSeats(1, 2)}}
	s, st := newTestSession(t, f)
	mustLoad(t, s, "T1")
	s.ToggleSeat("f1s1")
	if _, _, err := s.ConfirmSelection(context.Background()); err != nil {
		t.Fatal(err)
	}

	st.Corrupt("sess1")
	snap, written, err := s.ConfirmSelection(context.Background())
	if err != nil {
		t.Fatalf("corrupt stored snapshot must not fail confirmation: %v", err)
	}
	if !written {
		t.Fatal("a corrupt snapshot counts as absent and forces a fresh write")
	}
	if snap == nil || len(snap.Seats) != 1 {
		t.Fatalf("unexpected snapshot after recovery: %#v", snap)
	}
}

func TestConfirmSelectionEmbedsTripMetadata(t *testing.T) {
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": availableSeats(1, 1)}}
	st := store.NewMemoryStore()
	trips := &fakeTrips{detail: model.TripDetail{
		Trip:           model.Trip{ServiceType: "VIP 160", TripDate: "2026-09-01", DepartureTime: "21:30", ArrivalTime: "06:10"},
		OriginCity:     "Lima",
		DestCity:       "Trujillo",
		OriginTerminal: "Terminal Plaza Norte",
		DestTerminal:   "Terminal Santa Cruz",
	}}
	s := NewSession("sess1", f, st, trips, Config{MaxSelected: 8, ReservationTTL: 10 * time.Minute, Layout: layout.DefaultParams()})
	mustLoad(t, s, "T1")
	s.ToggleSeat("f1s1")

	snap, _, err := s.ConfirmSelection(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.OriginCity != "Lima" || snap.DestTerminal != "Terminal Santa Cruz" || snap.ServiceType != "VIP 160" {
		t.Fatalf("trip metadata not embedded: %#v", snap)
	}
	if snap.Passenger != (model.PassengerForm{}) {
		t.Fatal("passenger form must be an empty placeholder")
	}
}

// slowFetcher lets a test interleave two in-flight loads.
type slowFetcher struct {
	responses map[string][]model.SeatRecord
	started   map[string]chan struct{}
	release   map[string]chan struct{}
}

func (f *slowFetcher) FetchSeatsForTrip(_ context.Context, tripID string) ([]model.SeatRecord, error) {
	if ch, ok := f.started[tripID]; ok {
		close(ch)
	}
	if ch, ok := f.release[tripID]; ok {
		<-ch
	}
	return f.responses[tripID], nil
}

func TestStaleLoadResponseDiscarded(t *testing.T) {
	slowStarted := make(chan struct{})
	slowDone := make(chan struct{})
	f := &slowFetcher{
		responses: map[string][]model.SeatRecord{
			"OLD": {seatRow("old1", 1, 1, 10, model.OccupancyAvailable)},
			"NEW": {seatRow("new1", 1, 1, 20, model.OccupancyAvailable)},
		},
		started: map[string]chan struct{}{"OLD": slowStarted},
		release: map[string]chan struct{}{"OLD": slowDone},
	}
	st := store.NewMemoryStore()
	s := NewSession("sess1", f, st, &fakeTrips{}, Config{MaxSelected: 8, ReservationTTL: 10 * time.Minute, Layout: layout.DefaultParams()})

	oldApplied := make(chan View)
	go func() {
		v, _ := s.LoadInventory(context.Background(), "OLD")
		oldApplied <- v
	}()
	<-slowStarted
	// the newer request is issued second but completes first
	if _, err := s.LoadInventory(context.Background(), "NEW"); err != nil {
		t.Fatal(err)
	}
	close(slowDone)
	<-oldApplied

	v := s.Snapshot()
	if v.TripID != "NEW" {
		t.Fatalf("trip id = %q, stale response must not win", v.TripID)
	}
	if len(v.Seats) != 1 || v.Seats[0].ID != "new1" {
		t.Fatalf("stale inventory applied: %#v", v.Seats)
	}
}

func TestScenarioEightSeatsThenRejection(t *testing.T) {
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": availableSeats(1, 9)}}
	s, _ := newTestSession(t, f)
	mustLoad(t, s, "T1")

	for i := 1; i <= 8; i++ {
		if _, out := s.ToggleSeat(fmt.Sprintf("f1s%d", i)); out != ToggleApplied {
			t.Fatalf("seat %d should select, got %v", i, out)
		}
	}
	v, out := s.ToggleSeat("f1s9")
	if out != ToggleCapReached {
		t.Fatalf("9th toggle: got %v, want ToggleCapReached", out)
	}
	if v.SelectedCount != 8 {
		t.Fatalf("exactly 8 must stay selected, got %d", v.SelectedCount)
	}
}

func TestConfigurableCap(t *testing.T) {
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": availableSeats(1, 4)}}
	st := store.NewMemoryStore()
	s := NewSession("sess1", f, st, &fakeTrips{}, Config{MaxSelected: 2, ReservationTTL: time.Minute, Layout: layout.DefaultParams()})
	mustLoad(t, s, "T1")
	s.ToggleSeat("f1s1")
	s.ToggleSeat("f1s2")
	if _, out := s.ToggleSeat("f1s3"); out != ToggleCapReached {
		t.Fatalf("cap of 2: got %v, want ToggleCapReached", out)
	}
}

// gateStore blocks the confirm path inside its store read so a test can
// attempt a toggle while the confirmation is mid-flight.
type gateStore struct {
	store.SessionStore
	entered chan struct{}
	release chan struct{}
}

func (g *gateStore) GetPendingReservation(ctx context.Context, sessionID string) (*model.PendingReservation, error) {
	close(g.entered)
	<-g.release
	return g.SessionStore.GetPendingReservation(ctx, sessionID)
}

func TestConfirmSelectionExcludesConcurrentToggle(t *testing.T) {
	f := &fakeFetcher{byTrip: map[string][]model.SeatRecord{"T1": availableSeats(1, 4)}}
	gs := &gateStore{
		SessionStore: store.NewMemoryStore(),
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	s := NewSession("sess1", f, gs, &fakeTrips{}, Config{MaxSelected: 8, ReservationTTL: 10 * time.Minute, Layout: layout.DefaultParams()})
	mustLoad(t, s, "T1")
	s.ToggleSeat("f1s1")

	confirmed := make(chan *model.PendingReservation)
	go func() {
		res, _, err := s.ConfirmSelection(context.Background())
		if err != nil {
			t.Errorf("ConfirmSelection: %v", err)
		}
		confirmed <- res
	}()
	<-gs.entered

	toggled := make(chan struct{})
	go func() {
		s.ToggleSeat("f1s2")
		close(toggled)
	}()
	select {
	case <-toggled:
		t.Fatal("toggle completed while the confirmation was still persisting its snapshot")
	case <-time.After(50 * time.Millisecond):
	}

	close(gs.release)
	res := <-confirmed
	<-toggled

	if len(res.Seats) != 1 || res.Seats[0].SeatID != "f1s1" {
		t.Fatalf("snapshot seats = %v, want exactly the seats held at confirm time", res.Seats)
	}
	if v := s.Snapshot(); v.SelectedCount != 2 {
		t.Fatalf("post-confirm selected count = %d, want 2", v.SelectedCount)
	}
}
