package config

import "time"

// SelectionConfig carries the tunables of the seat selection core.  The
// selection cap and the reservation lifetime are product knobs, not
// structural constants, so they load from the environment with the
// historical defaults (8 seats, 10 minutes).
type SelectionConfig struct {
    MaxSeats       int           // most seats one session may select at once
    ReservationTTL time.Duration // pending reservation lifetime
    SessionIdleTTL time.Duration // idle time before an in-memory session is evicted
    SweepInterval  time.Duration // how often idle sessions are swept
}

// LoadSelectionConfig reads selection tunables with defaults.  Unlike
// Load(), nothing here is required: every value falls back to the
// defaults the product shipped with.
func LoadSelectionConfig() SelectionConfig {
    return SelectionConfig{
        MaxSeats:       envInt("SELECTION_MAX_SEATS", 8),
        ReservationTTL: time.Duration(envInt("RESERVATION_TTL_MIN", 10)) * time.Minute,
        SessionIdleTTL: envDur("SELECTION_SESSION_IDLE_TTL", 30*time.Minute),
        SweepInterval:  envDur("SELECTION_SWEEP_INTERVAL", 5*time.Minute),
    }
}
