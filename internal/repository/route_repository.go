package repository

import (
	"context"
	"database/sql"

	"github.com/Crsto22/Movitex-sub001/internal/model"
)

// RouteRepo provides access to the routes table.
type RouteRepo struct {
	db *sql.DB
}

// NewRouteRepo returns a RouteRepo bound to the provided database.
func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

// RouteRow is one sellable route joined with its endpoint city names.
type RouteRow struct {
	model.Route
	OriginCity string `json:"origin_city"`
	DestCity   string `json:"destination_city"`
}

// ListActive returns every route offered for sale, ordered by origin and
// destination city name so the result renders directly in a picker.
func (r *RouteRepo) ListActive(ctx context.Context) ([]RouteRow, error) {
	const q = `SELECT rt.id, rt.origin_city_id, rt.destination_city_id,
	                  rt.origin_terminal, rt.dest_terminal, rt.duration_minutes, rt.is_active,
	                  co.name, cd.name
	           FROM routes rt
	           JOIN cities co ON co.id = rt.origin_city_id
	           JOIN cities cd ON cd.id = rt.destination_city_id
	           WHERE rt.is_active = 1
	           ORDER BY co.name ASC, cd.name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []RouteRow{}
	for rows.Next() {
		var rr RouteRow
		if err := rows.Scan(
			&rr.ID, &rr.OriginCityID, &rr.DestinationCityID,
			&rr.OriginTerminal, &rr.DestTerminal, &rr.DurationMinutes, &rr.IsActive,
			&rr.OriginCity, &rr.DestCity,
		); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}
