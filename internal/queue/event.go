// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationPendingEvent is published when a seat selection is confirmed and
// a pending reservation snapshot is written. It contains enough information
// for downstream consumers to log, notify, or trigger analytics without
// querying the primary database.
type ReservationPendingEvent struct {
    SessionID     string   `json:"session_id"`
    TripID        string   `json:"trip_id"`
    OriginCity    string   `json:"origin_city"`
    DestCity      string   `json:"destination_city"`
    ServiceType   string   `json:"service_type"`
    TripDate      string   `json:"trip_date"`
    DepartureTime string   `json:"departure_time"`
    SeatNumbers   []string `json:"seats"`
    TotalPrice    float64  `json:"total_price"`
    ExpiresAt     string   `json:"expires_at"`
    ConfirmedAt   string   `json:"confirmed_at"`
}
