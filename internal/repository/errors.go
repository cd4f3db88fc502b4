// Package repository contains data access logic separated from HTTP
// handlers. This file defines sentinel errors reused across repositories
// so that handlers can distinguish failure scenarios, for example
// translating ErrTripNotFound into an HTTP 404 response.
package repository

import "errors"

// ErrTripNotFound is returned when a trip id does not exist.
var ErrTripNotFound = errors.New("trip not found")

// ErrCityNotFound is returned when a city id does not exist.
var ErrCityNotFound = errors.New("city not found")

// ErrEmailExists is returned when registering an email that is already
// taken. Handlers should translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")
