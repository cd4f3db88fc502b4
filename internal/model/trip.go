package model

import "time"

// City represents a city served by the carrier.  Cities are the
// endpoints of routes and are referenced by name in reservation
// snapshots.  This struct corresponds to a row in the `cities` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique city name.
//  Region    – administrative region the city belongs to.
//  IsActive  – whether the city is selectable in searches.
//  CreatedAt – timestamp when the city was created.
type City struct {
    ID        uint64    // cities.id
    Name      string    // cities.name
    Region    string    // cities.region
    IsActive  bool      // cities.is_active
    CreatedAt time.Time // cities.created_at
}

// Route links an origin city to a destination city together with the
// terminal used at each end.  A route can carry many scheduled trips.
//
// Fields:
//  ID                – primary key identifier.
//  OriginCityID      – city where the route starts.
//  DestinationCityID – city where the route ends.
//  OriginTerminal    – name of the boarding terminal.
//  DestTerminal      – name of the arrival terminal.
//  DurationMinutes   – scheduled travel time in minutes.
//  IsActive          – whether the route is offered for sale.
type Route struct {
    ID                uint64 // routes.id
    OriginCityID      uint64 // routes.origin_city_id
    DestinationCityID uint64 // routes.destination_city_id
    OriginTerminal    string // routes.origin_terminal
    DestTerminal      string // routes.dest_terminal
    DurationMinutes   uint32 // routes.duration_minutes
    IsActive          bool   // routes.is_active
}

// Trip is a scheduled departure on a route.  Seat inventory is tracked
// per trip in the trip_seats table; this struct only carries scheduling
// and pricing metadata.
//
// Fields:
//  ID            – primary key identifier (opaque string, matches the
//                  trip id used by the inventory source).
//  RouteID       – route being served.
//  ServiceType   – service class marketed for the trip (e.g. "Economy",
//                  "VIP 160", "Premium 180").
//  TripDate      – calendar date of departure, YYYY-MM-DD.
//  DepartureTime – local departure time, HH:MM.
//  ArrivalTime   – local arrival time, HH:MM.
//  BasePrice     – default seat price before per-seat overrides.
//  Status        – SCHEDULED, CANCELLED or DEPARTED.
type Trip struct {
    ID            string  // trips.id
    RouteID       uint64  // trips.route_id
    ServiceType   string  // trips.service_type
    TripDate      string  // trips.trip_date
    DepartureTime string  // trips.departure_time
    ArrivalTime   string  // trips.arrival_time
    BasePrice     float64 // trips.base_price
    Status        string  // trips.status
}

// TripDetail is a Trip joined with route and city names.  It is the
// metadata block embedded into reservation snapshots; any field the
// lookup cannot resolve is left empty rather than failing the caller.
type TripDetail struct {
    Trip
    OriginCity     string `json:"origin_city"`
    DestCity       string `json:"destination_city"`
    OriginTerminal string `json:"origin_terminal"`
    DestTerminal   string `json:"dest_terminal"`
}
