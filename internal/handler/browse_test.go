package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/Crsto22/Movitex-sub001/internal/model"
	"github.com/Crsto22/Movitex-sub001/internal/repository"
	"github.com/Crsto22/Movitex-sub001/internal/store"
)

func browseRequest(h echo.HandlerFunc, target, sessionID string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sessionID != "" {
		c.Set("session_id", sessionID)
	}
	_ = h(c)
	return rec
}

func TestSearchTripsValidatesQuery(t *testing.T) {
	h := NewBrowseHandler(nil, nil, nil, store.NewMemoryStore())

	for _, target := range []string{
		"/v1/trips/search",
		"/v1/trips/search?origin=1&destination=2",
		"/v1/trips/search?origin=1&destination=2&date=01-06-2026",
		"/v1/trips/search?origin=0&destination=2&date=2026-06-01",
		"/v1/trips/search?origin=x&destination=2&date=2026-06-01",
	} {
		if rec := browseRequest(h.SearchTrips, target, ""); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestSearchTripsSavesCriteriaForSessions(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	cols := []string{"id", "route_id", "service_type", "trip_date", "departure_time", "arrival_time",
		"base_price", "status", "origin_city", "dest_city", "origin_terminal", "dest_terminal", "seats_available"}
	mock.ExpectQuery("FROM trips t").WithArgs(uint64(1), uint64(2), "2026-06-01").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("T1", 4, "Premium", "2026-06-01", "08:30", "18:00",
				35.00, "SCHEDULED", "Lima", "Trujillo", "Plaza Norte", "Santa Cruz", 12))

	st := store.NewMemoryStore()
	h := NewBrowseHandler(nil, nil, repository.NewTripRepo(db), st)

	rec := browseRequest(h.SearchTrips, "/v1/trips/search?origin=1&destination=2&date=2026-06-01", "sess-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Trips []repository.TripSearchRow `json:"trips"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Trips) != 1 || body.Trips[0].ID != "T1" || body.Trips[0].SeatsAvailable != 12 {
		t.Fatalf("unexpected rows: %+v", body.Trips)
	}

	// The criteria survive for the session that searched.
	crit, err := st.GetSearchCriteria(t.Context(), "sess-1")
	if err != nil || crit == nil {
		t.Fatalf("expected saved criteria, got (%v, %v)", crit, err)
	}
	if crit.OriginCityID != 1 || crit.DestCityID != 2 || crit.TravelDate != "2026-06-01" {
		t.Fatalf("criteria mangled: %+v", crit)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLastSearch(t *testing.T) {
	st := store.NewMemoryStore()
	h := NewBrowseHandler(nil, nil, nil, st)

	if rec := browseRequest(h.LastSearch, "/v1/trips/search/last", "sess-1"); rec.Code != http.StatusNotFound {
		t.Fatalf("no criteria: expected 404, got %d", rec.Code)
	}

	_ = st.PutSearchCriteria(t.Context(), "sess-1", &model.SearchCriteria{
		OriginCityID: 3, DestCityID: 9, TravelDate: "2026-07-15",
	})
	rec := browseRequest(h.LastSearch, "/v1/trips/search/last", "sess-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("saved criteria: expected 200, got %d", rec.Code)
	}
	var crit model.SearchCriteria
	if err := json.Unmarshal(rec.Body.Bytes(), &crit); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if crit.OriginCityID != 3 || crit.TravelDate != "2026-07-15" {
		t.Fatalf("unexpected criteria: %+v", crit)
	}
}

func TestListRoutes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	cols := []string{"id", "origin_city_id", "destination_city_id",
		"origin_terminal", "dest_terminal", "duration_minutes", "is_active", "origin_city", "dest_city"}
	mock.ExpectQuery("FROM routes rt").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(4, 1, 2, "Plaza Norte", "Santa Cruz", 560, true, "Lima", "Trujillo"))

	h := NewBrowseHandler(nil, repository.NewRouteRepo(db), nil, store.NewMemoryStore())
	rec := browseRequest(h.ListRoutes, "/v1/routes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("routes: expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Routes []repository.RouteRow `json:"routes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Routes) != 1 || body.Routes[0].OriginCity != "Lima" || body.Routes[0].DestCity != "Trujillo" {
		t.Fatalf("unexpected routes: %+v", body.Routes)
	}
}

func TestListCities(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM cities").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "region", "is_active", "created_at"}).
			AddRow(1, "Lima", "Lima", true, created).
			AddRow(2, "Trujillo", "La Libertad", true, created))

	h := NewBrowseHandler(repository.NewCityRepo(db), nil, nil, store.NewMemoryStore())
	rec := browseRequest(h.ListCities, "/v1/cities", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cities: expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Cities []PublicCity `json:"cities"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Cities) != 2 || body.Cities[0].Name != "Lima" || body.Cities[1].Region != "La Libertad" {
		t.Fatalf("unexpected cities: %+v", body.Cities)
	}
}
