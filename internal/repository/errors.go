// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the catalog loader to tell failure scenarios apart.
package repository

import "errors"

// ErrVehicleNotFound is returned when no vehicle row matches the
// requested id (or, for ReadFirst, when the table is empty).
var ErrVehicleNotFound = errors.New("vehicle not found")

// ErrLeadNotFound is returned when a lead id does not exist.
var ErrLeadNotFound = errors.New("lead not found")

// ErrForbidden is returned when the caller attempts an operation
// they are not allowed to perform. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot be performed because of
// conflicting state, such as deleting a vehicle that still has leads
// pointing at it. Handlers should translate this into an HTTP 409.
var ErrConflict = errors.New("conflict")
