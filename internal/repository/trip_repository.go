package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Crsto22/Movitex-sub001/internal/model"
)

// TripRepo encapsulates queries against the trips, routes and cities
// tables. Besides powering the public trip search, it resolves the
// metadata embedded into pending reservation snapshots.
type TripRepo struct {
	db *sql.DB
}

// NewTripRepo constructs a TripRepo with the provided DB handle.
func NewTripRepo(db *sql.DB) *TripRepo { return &TripRepo{db: db} }

// TripSearchRow is one result of a public trip search: the trip joined
// with its route endpoints plus the count of seats still reported
// available by the inventory.
type TripSearchRow struct {
	model.TripDetail
	SeatsAvailable int `json:"seats_available"`
}

// Search returns scheduled trips between two cities on a given date,
// ordered by departure time.
func (r *TripRepo) Search(ctx context.Context, originCityID, destCityID uint64, date string) ([]TripSearchRow, error) {
	const q = `SELECT
			t.id, t.route_id, t.service_type, t.trip_date, t.departure_time, t.arrival_time,
			t.base_price, t.status,
			co.name, cd.name, rt.origin_terminal, rt.dest_terminal,
			(SELECT COUNT(*) FROM trip_seats ts
			 WHERE ts.trip_id = t.id AND ts.occupancy_state = 'available')
		FROM trips t
		JOIN routes rt ON rt.id = t.route_id
		JOIN cities co ON co.id = rt.origin_city_id
		JOIN cities cd ON cd.id = rt.destination_city_id
		WHERE rt.origin_city_id = ? AND rt.destination_city_id = ?
		  AND t.trip_date = ? AND t.status = 'SCHEDULED'
		ORDER BY t.departure_time ASC`
	rows, err := r.db.QueryContext(ctx, q, originCityID, destCityID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []TripSearchRow{}
	for rows.Next() {
		var d TripSearchRow
		if err := rows.Scan(
			&d.ID, &d.RouteID, &d.ServiceType, &d.TripDate, &d.DepartureTime, &d.ArrivalTime,
			&d.BasePrice, &d.Status,
			&d.OriginCity, &d.DestCity, &d.OriginTerminal, &d.DestTerminal,
			&d.SeatsAvailable,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetByID fetches a trip without joins. Returns ErrTripNotFound when the
// id does not exist.
func (r *TripRepo) GetByID(ctx context.Context, id string) (model.Trip, error) {
	const q = `SELECT id, route_id, service_type, trip_date, departure_time, arrival_time,
	                  base_price, status
	           FROM trips WHERE id = ?`
	var t model.Trip
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.RouteID, &t.ServiceType, &t.TripDate, &t.DepartureTime, &t.ArrivalTime,
		&t.BasePrice, &t.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrTripNotFound
	}
	return t, err
}

// TripDetail resolves the full metadata block for a reservation snapshot.
// It is deliberately forgiving: city or terminal names the join cannot
// resolve come back empty, and an unknown trip yields a detail carrying
// only the trip id, never an error. Confirmation must not fail because a
// metadata lookup did.
func (r *TripRepo) TripDetail(ctx context.Context, tripID string) (model.TripDetail, error) {
	const q = `SELECT
			t.id, t.route_id, t.service_type, t.trip_date, t.departure_time, t.arrival_time,
			t.base_price, t.status,
			COALESCE(co.name, ''), COALESCE(cd.name, ''),
			COALESCE(rt.origin_terminal, ''), COALESCE(rt.dest_terminal, '')
		FROM trips t
		LEFT JOIN routes rt ON rt.id = t.route_id
		LEFT JOIN cities co ON co.id = rt.origin_city_id
		LEFT JOIN cities cd ON cd.id = rt.destination_city_id
		WHERE t.id = ?`
	var d model.TripDetail
	err := r.db.QueryRowContext(ctx, q, tripID).Scan(
		&d.ID, &d.RouteID, &d.ServiceType, &d.TripDate, &d.DepartureTime, &d.ArrivalTime,
		&d.BasePrice, &d.Status,
		&d.OriginCity, &d.DestCity, &d.OriginTerminal, &d.DestTerminal)
	if err != nil {
		return model.TripDetail{Trip: model.Trip{ID: tripID}}, nil
	}
	return d, nil
}
