// This file defines handlers for the public browsing API. These routes allow
// unauthenticated users to list cities, search scheduled trips between two
// cities, and inspect a single trip. Sessions that carry a token also get
// their last search criteria remembered so the search form can be
// re-populated after navigation.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Crsto22/Movitex-sub001/internal/middleware"
	"github.com/Crsto22/Movitex-sub001/internal/model"
	"github.com/Crsto22/Movitex-sub001/internal/repository"
	"github.com/Crsto22/Movitex-sub001/internal/store"
)

// BrowseHandler aggregates repositories needed for unauthenticated browsing.
type BrowseHandler struct {
	Cities *repository.CityRepo  // provides access to city data
	Routes *repository.RouteRepo // provides access to route data
	Trips  *repository.TripRepo  // provides access to trip data
	Store  store.SessionStore    // remembers search criteria per session
}

func NewBrowseHandler(cities *repository.CityRepo, routes *repository.RouteRepo, trips *repository.TripRepo, st store.SessionStore) *BrowseHandler {
	return &BrowseHandler{Cities: cities, Routes: routes, Trips: trips, Store: st}
}

// PublicCity represents a city exposed via the public API. It contains
// only safe fields.
type PublicCity struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// ListCities handles GET /v1/cities. Only active cities are returned.
func (h *BrowseHandler) ListCities(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cities, err := h.Cities.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list cities failed"})
	}
	out := make([]PublicCity, 0, len(cities))
	for _, city := range cities {
		out = append(out, PublicCity{ID: city.ID, Name: city.Name, Region: city.Region})
	}
	return c.JSON(http.StatusOK, echo.Map{"cities": out})
}

// ListRoutes handles GET /v1/routes. Only routes offered for sale are
// returned, joined with their endpoint city names.
func (h *BrowseHandler) ListRoutes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	routes, err := h.Routes.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list routes failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"routes": routes})
}

// SearchTrips handles GET /v1/trips/search?origin=&destination=&date=.
// Results are ordered by departure time. When the caller presented a
// session token the criteria are stored so the form survives navigation;
// a store failure only loses that convenience, never the search itself.
func (h *BrowseHandler) SearchTrips(c echo.Context) error {
	origin, err1 := strconv.ParseUint(c.QueryParam("origin"), 10, 64)
	dest, err2 := strconv.ParseUint(c.QueryParam("destination"), 10, 64)
	date := c.QueryParam("date")
	if err1 != nil || err2 != nil || origin == 0 || dest == 0 || date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin, destination and date required"})
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Trips.Search(ctx, origin, dest, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}

	if sid := middleware.SessionID(c); sid != "anon" {
		_ = h.Store.PutSearchCriteria(ctx, sid, &model.SearchCriteria{
			OriginCityID: origin,
			DestCityID:   dest,
			TravelDate:   date,
			SavedAt:      time.Now().UTC(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"trips": rows})
}

// LastSearch handles GET /v1/trips/search/last. It returns the criteria
// saved by the caller's most recent search, or 404 when none survive.
func (h *BrowseHandler) LastSearch(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	crit, err := h.Store.GetSearchCriteria(ctx, middleware.SessionID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load criteria failed"})
	}
	if crit == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no saved search"})
	}
	return c.JSON(http.StatusOK, crit)
}

// GetTrip handles GET /v1/trips/:id. It returns the trip joined with its
// route and city names.
func (h *BrowseHandler) GetTrip(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "trip id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Trips.GetByID(ctx, id); err != nil {
		if err == repository.ErrTripNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load trip failed"})
	}
	detail, err := h.Trips.TripDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load trip failed"})
	}
	return c.JSON(http.StatusOK, detail)
}
