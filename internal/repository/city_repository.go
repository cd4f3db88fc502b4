package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Crsto22/Movitex-sub001/internal/model"
)

// CityRepo encapsulates queries against the cities table. Cities are
// reference data maintained out of band; this service only reads them.
type CityRepo struct {
	db *sql.DB
}

// NewCityRepo constructs a CityRepo with the provided DB handle.
func NewCityRepo(db *sql.DB) *CityRepo { return &CityRepo{db: db} }

// ListActive returns every city available for trip searches, ordered by
// name so the search form can render them directly.
func (r *CityRepo) ListActive(ctx context.Context) ([]model.City, error) {
	const q = `SELECT id, name, region, is_active, created_at
	           FROM cities
	           WHERE is_active = 1
	           ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.City{}
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Region, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID fetches a city by its ID. Returns ErrCityNotFound when absent.
func (r *CityRepo) GetByID(ctx context.Context, id uint64) (model.City, error) {
	const q = "SELECT id, name, region, is_active, created_at FROM cities WHERE id = ?"
	var c model.City
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Region, &c.IsActive, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrCityNotFound
	}
	return c, err
}
