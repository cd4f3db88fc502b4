// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines the seat selection flow: loading a trip's seat map,
// switching floors, toggling seats, and confirming the selection into a
// pending reservation.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Crsto22/Movitex-sub001/internal/inventory"
	"github.com/Crsto22/Movitex-sub001/internal/middleware"
	"github.com/Crsto22/Movitex-sub001/internal/model"
	"github.com/Crsto22/Movitex-sub001/internal/queue"
	"github.com/Crsto22/Movitex-sub001/internal/selection"
	queue_publisher "github.com/Crsto22/Movitex-sub001/internal/service"
	"github.com/Crsto22/Movitex-sub001/internal/store"
	"github.com/Crsto22/Movitex-sub001/internal/ticket"
)

// SelectionHandler drives per-session seat selection state machines.
// PublishEvents controls whether confirmations emit a broker event; tests
// leave it off.
type SelectionHandler struct {
	Sessions      *selection.Manager
	Store         store.SessionStore
	MaxSeats      int
	PublishEvents bool
}

func NewSelectionHandler(m *selection.Manager, st store.SessionStore, maxSeats int, publish bool) *SelectionHandler {
	return &SelectionHandler{Sessions: m, Store: st, MaxSeats: maxSeats, PublishEvents: publish}
}

// ----- DTOs -----

type floorReq struct {
	Floor int `json:"floor"`
}
type toggleReq struct {
	SeatID string `json:"seat_id"`
}

// LoadSeats handles GET /v1/trips/:id/seats.  It (re)loads the seat
// inventory for the trip into the caller's session and returns the full
// rendered view.  Stale responses from earlier loads are discarded inside
// the session, so rapid re-navigation is safe.
func (h *SelectionHandler) LoadSeats(c echo.Context) error {
	tripID := c.Param("id")
	sess := h.Sessions.Session(middleware.SessionID(c))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	view, err := sess.LoadInventory(ctx, tripID)
	if err != nil {
		if errors.Is(err, inventory.ErrInvalidTripID) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
		}
		var fe *inventory.FetchError
		if errors.As(err, &fe) {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "seat inventory unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}
	return c.JSON(http.StatusOK, view)
}

// SetFloor handles POST /v1/selection/floor.  Unknown floors leave the
// view untouched; the response always carries the current state.
func (h *SelectionHandler) SetFloor(c echo.Context) error {
	var req floorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	sess := h.Sessions.Session(middleware.SessionID(c))
	return c.JSON(http.StatusOK, sess.SetActiveFloor(req.Floor))
}

// Toggle handles POST /v1/selection/toggle.  Occupied and stale seat ids
// are silently ignored and return the unchanged view.  Hitting the
// selection cap is not an error status: the response stays 200 and
// carries a rejected flag plus the notice the client should show, because
// the selection itself is still intact.
func (h *SelectionHandler) Toggle(c echo.Context) error {
	var req toggleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SeatID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id required"})
	}
	sess := h.Sessions.Session(middleware.SessionID(c))
	view, outcome := sess.ToggleSeat(req.SeatID)
	if outcome == selection.ToggleCapReached {
		return c.JSON(http.StatusOK, echo.Map{
			"rejected":  true,
			"notice":    fmt.Sprintf("you can select up to %d seats", h.MaxSeats),
			"max_seats": h.MaxSeats,
			"view":      view,
		})
	}
	return c.JSON(http.StatusOK, view)
}

// Confirm handles POST /v1/selection/confirm.  Confirming an empty
// selection fails with 400.  A fresh snapshot returns 201; re-confirming
// the identical seat set returns 200 with the countdown untouched.
func (h *SelectionHandler) Confirm(c echo.Context) error {
	sid := middleware.SessionID(c)
	sess := h.Sessions.Session(sid)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, written, err := sess.ConfirmSelection(ctx)
	if err != nil {
		if errors.Is(err, selection.ErrNothingSelected) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats selected"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm failed"})
	}

	if written && h.PublishEvents {
		ev := reservationEvent(sid, res)
		// Fire and forget; a broker outage must not block the checkout flow.
		go func() {
			pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pubCancel()
			_ = queue_publisher.PublishReservationPending(pubCtx, ev)
		}()
	}

	status := http.StatusOK
	if written {
		status = http.StatusCreated
	}
	return c.JSON(status, echo.Map{"reservation": res, "written": written})
}

// GetReservation handles GET /v1/reservation.  It returns the pending
// snapshot for the caller's session along with the remaining seconds of
// the hold, or 404 when nothing is pending or the hold already lapsed.
func (h *SelectionHandler) GetReservation(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Store.GetPendingReservation(ctx, middleware.SessionID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
	}
	remaining := remainingSeconds(res)
	if res == nil || remaining <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no pending reservation"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reservation":       res,
		"remaining_seconds": remaining,
	})
}

// GetTicket handles GET /v1/reservation/ticket.  It renders the pending
// reservation as a PDF e-ticket for download.
func (h *SelectionHandler) GetTicket(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Store.GetPendingReservation(ctx, middleware.SessionID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
	}
	if res == nil || remainingSeconds(res) <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no pending reservation"})
	}

	data, filename, err := ticket.Build(res)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render ticket failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/pdf", data)
}

func remainingSeconds(res *model.PendingReservation) int64 {
	if res == nil {
		return 0
	}
	return int64(time.Until(res.ExpiresAt).Seconds())
}

func reservationEvent(sessionID string, res *model.PendingReservation) queue.ReservationPendingEvent {
	seats := make([]string, 0, len(res.Seats))
	for _, s := range res.Seats {
		seats = append(seats, strconv.Itoa(s.SeatNumber))
	}
	return queue.ReservationPendingEvent{
		SessionID:     sessionID,
		TripID:        res.TripID,
		OriginCity:    res.OriginCity,
		DestCity:      res.DestCity,
		ServiceType:   res.ServiceType,
		TripDate:      res.TripDate,
		DepartureTime: res.DepartureTime,
		SeatNumbers:   seats,
		TotalPrice:    res.TotalPrice,
		ExpiresAt:     res.ExpiresAt.UTC().Format(time.RFC3339),
		ConfirmedAt:   res.CreatedAt.UTC().Format(time.RFC3339),
	}
}
