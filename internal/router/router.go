package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/Crsto22/Movitex-sub001/internal/handler"    // import the handlers that implement business logic
	"github.com/Crsto22/Movitex-sub001/internal/middleware" // import middleware for session authentication
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication and session routes.  Unauthenticated
// operations live under /v1/auth; the guest session endpoint also requires
// no token since it is how a guest obtains one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	// Register a POST endpoint to handle user registration at /v1/auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle user login at /v1/auth/login.
	g.POST("/login", a.Login)
	// Anonymous visitors obtain a session token here before picking seats.
	e.POST("/v1/session/guest", a.GuestSession)
}

// RegisterBrowse registers browse endpoints that work without a token.  A
// Bearer session token is still resolved when present so that trip searches
// can be remembered per session; the optional extra middleware (response
// cache, rate limiter) is applied to the whole group after that.
func RegisterBrowse(e *echo.Echo, b *handler.BrowseHandler, jwtSecret string, mws ...echo.MiddlewareFunc) {
	g := e.Group("/v1", append([]echo.MiddlewareFunc{middleware.OptionalSession(jwtSecret)}, mws...)...)
	// Expose the list of active cities for the search form.
	g.GET("/cities", b.ListCities)
	// Routes offered for sale, with endpoint city names.
	g.GET("/routes", b.ListRoutes)
	// Search scheduled trips between two cities on a date.
	g.GET("/trips/search", b.SearchTrips)
	// Re-populate the search form from the session's last search.
	g.GET("/trips/search/last", b.LastSearch)
	// Trip details by trip id.
	g.GET("/trips/:id", b.GetTrip)
}

// RegisterSelection registers the seat selection flow.  Every route
// requires a session token because the selection state machine is keyed by
// the token's subject.
func RegisterSelection(e *echo.Echo, s *handler.SelectionHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.SessionAuth(jwtSecret))
	// Load (or reload) the seat map of a trip into the session.
	g.GET("/trips/:id/seats", s.LoadSeats)
	// Switch the rendered floor without touching any seat status.
	g.POST("/selection/floor", s.SetFloor)
	// Flip one seat between available and selected.
	g.POST("/selection/toggle", s.Toggle)
	// Freeze the selection into a pending reservation snapshot.
	g.POST("/selection/confirm", s.Confirm)
	// Inspect the pending reservation and its remaining hold time.
	g.GET("/reservation", s.GetReservation)
	// Download the pending reservation as a PDF e-ticket.
	g.GET("/reservation/ticket", s.GetTicket)
}
