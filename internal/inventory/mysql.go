package inventory

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Crsto22/Movitex-sub001/internal/model"
)

// MySQLFetcher reads seat inventory from the trip_seats table. The query
// mirrors the hosted stored procedure the web client calls: one row per
// seat with its display number, floor, recline class, price and occupancy.
type MySQLFetcher struct {
	db *sql.DB
}

// NewMySQLFetcher returns a MySQLFetcher bound to the provided database.
func NewMySQLFetcher(db *sql.DB) *MySQLFetcher { return &MySQLFetcher{db: db} }

// FetchSeatsForTrip returns every seat row for the trip in stable storage
// order. Ordering matters: the layout generator assigns grid positions
// from input order, so the query orders by floor and then by row id.
func (f *MySQLFetcher) FetchSeatsForTrip(ctx context.Context, tripID string) ([]model.SeatRecord, error) {
	if strings.TrimSpace(tripID) == "" {
		return nil, ErrInvalidTripID
	}
	const q = `SELECT seat_id, seat_number, floor, recline_angle, price, occupancy_state
	           FROM trip_seats
	           WHERE trip_id = ?
	           ORDER BY floor ASC, id ASC`
	rows, err := f.db.QueryContext(ctx, q, tripID)
	if err != nil {
		return nil, &FetchError{TripID: tripID, Err: err}
	}
	defer rows.Close()
	out := []model.SeatRecord{}
	for rows.Next() {
		var s model.SeatRecord
		if err := rows.Scan(&s.ID, &s.Number, &s.Floor, &s.ReclineAngle, &s.Price, &s.Occupancy); err != nil {
			return nil, &FetchError{TripID: tripID, Err: err}
		}
		s.Occupancy = NormalizeOccupancy(s.Occupancy)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &FetchError{TripID: tripID, Err: err}
	}
	return out, nil
}
