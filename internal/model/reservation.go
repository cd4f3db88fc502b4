package model

import "time"

// ReservationSeat is one selected seat inside a pending reservation
// snapshot.  It carries everything the checkout page needs to render
// the seat without re-querying the inventory.
type ReservationSeat struct {
    SeatID       string  `json:"seat_id"`
    SeatNumber   int     `json:"seat_number"`
    Price        float64 `json:"price"`
    ReclineAngle int     `json:"recline_angle"`
    Floor        int     `json:"floor"`
}

// PassengerForm is the placeholder for passenger data collected later in
// the checkout flow.  Confirmation always embeds an empty form; the
// downstream checkout page fills it in.
type PassengerForm struct {
    FullName string `json:"full_name"`
    Document string `json:"document"`
    Email    string `json:"email"`
    Phone    string `json:"phone"`
}

// PendingReservation is the durable snapshot produced when a seat
// selection is confirmed.  It survives page navigation in the session
// store and is consumed by the checkout flow.  The expiry is absolute
// wall-clock time: CreatedAt plus the configured reservation TTL.
//
// Fields:
//  TripID         – trip the seats belong to.
//  Seats          – selected seats with per-seat pricing.
//  TotalPrice     – sum of all seat prices.
//  ServiceType    – trip service class, empty when lookup failed.
//  TripDate       – departure date, YYYY-MM-DD.
//  DepartureTime  – local departure time.
//  ArrivalTime    – local arrival time.
//  OriginCity     – origin city name.
//  DestCity       – destination city name.
//  OriginTerminal – boarding terminal name.
//  DestTerminal   – arrival terminal name.
//  Passenger      – empty placeholder filled in at checkout.
//  CreatedAt      – when the snapshot was written.
//  ExpiresAt      – CreatedAt + reservation TTL.
type PendingReservation struct {
    TripID         string            `json:"trip_id"`
    Seats          []ReservationSeat `json:"seats"`
    TotalPrice     float64           `json:"total_price"`
    ServiceType    string            `json:"service_type"`
    TripDate       string            `json:"trip_date"`
    DepartureTime  string            `json:"departure_time"`
    ArrivalTime    string            `json:"arrival_time"`
    OriginCity     string            `json:"origin_city"`
    DestCity       string            `json:"destination_city"`
    OriginTerminal string            `json:"origin_terminal"`
    DestTerminal   string            `json:"dest_terminal"`
    Passenger      PassengerForm     `json:"passenger"`
    CreatedAt      time.Time         `json:"created_at"`
    ExpiresAt      time.Time         `json:"expires_at"`
}

// Matches reports whether the snapshot covers exactly the given trip and
// seat-id set.  Comparison is order-independent: confirming the same seats
// in a different click order must not reset the reservation countdown.
func (p *PendingReservation) Matches(tripID string, seatIDs []string) bool {
    if p == nil || p.TripID != tripID || len(p.Seats) != len(seatIDs) {
        return false
    }
    have := make(map[string]bool, len(p.Seats))
    for _, s := range p.Seats {
        have[s.SeatID] = true
    }
    for _, id := range seatIDs {
        if !have[id] {
            return false
        }
    }
    return true
}

// SearchCriteria is the last trip search a session performed.  It is
// cached in the session store so the search form can be re-populated
// after navigation.
type SearchCriteria struct {
    OriginCityID uint64    `json:"origin_city_id"`
    DestCityID   uint64    `json:"destination_city_id"`
    TravelDate   string    `json:"travel_date"`
    SavedAt      time.Time `json:"saved_at"`
}
