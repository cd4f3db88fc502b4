package model

// Occupancy values reported by the seat inventory source.  The source may
// report a third "preselected" value meaning the seat was grabbed by another
// buyer moments ago; for selection purposes it is indistinguishable from
// occupied and is normalized away by the inventory loader.
const (
    OccupancyAvailable   = "available"   // seat can be selected
    OccupancyOccupied    = "occupied"    // seat is sold or blocked
    OccupancyPreselected = "preselected" // held by another buyer; treated as occupied
)

// Seat status values owned by the selection state machine.  A seat loaded
// as occupied never leaves that status until the next inventory reload.
const (
    StatusAvailable = "available"
    StatusSelected  = "selected"
    StatusOccupied  = "occupied"
)

// SeatRecord is the raw seat row returned by the inventory source for a
// trip.  IDs are opaque and stable across reloads; numbers are display
// labels and are not necessarily contiguous.
//
// Fields:
//  ID           – opaque unique identifier, stable across reloads.
//  Number       – display label printed on the seat glyph.
//  Floor        – seating deck, 1 or 2.
//  ReclineAngle – seat class attribute in degrees (140/160/180); display only.
//  Price        – non-negative price in currency units.
//  Occupancy    – one of the Occupancy* constants above.
type SeatRecord struct {
    ID           string  // trip_seats.seat_id
    Number       int     // trip_seats.seat_number
    Floor        int     // trip_seats.floor
    ReclineAngle int     // trip_seats.recline_angle
    Price        float64 // trip_seats.price
    Occupancy    string  // trip_seats.occupancy_state
}

// PositionedSeat is a SeatRecord enriched with the deterministic grid
// position assigned by the layout generator.  Positions are derived purely
// from input order, never from seat numbers, and carry pixel offsets for
// the seat glyph and its number label.
type PositionedSeat struct {
    SeatRecord
    Column      int // 1-based column index in the floor grid
    RowInColumn int // 1-based slot within the column, 1..4
    GlyphX      int // horizontal pixel offset of the seat glyph
    GlyphY      int // vertical pixel offset of the seat glyph
    LabelX      int // horizontal pixel offset of the number label
    LabelY      int // vertical pixel offset of the number label
}
