// Package repository defines the storage contracts used by the booking core
// and their implementations: an in-memory store for tests and single-node
// setups, and MySQL repositories for production.  The sentinel values below
// allow higher layers such as the booking manager and handlers to
// distinguish between different failure scenarios without depending on a
// particular driver.
package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist.  Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrDuplicateCode is returned when an insert collides with an existing
// confirmation code.  Callers are expected to regenerate the code and retry.
var ErrDuplicateCode = errors.New("duplicate confirmation code")

// ErrStaleStatus is returned by TransitionStatus when the reservation exists
// but is no longer in one of the expected source states, e.g. because a
// concurrent request or the expiry sweeper already moved it.
var ErrStaleStatus = errors.New("reservation status changed")

// ErrAdminExists is returned by CreateFirstAdmin once any admin account
// exists, including when a concurrent setup got there first.
var ErrAdminExists = errors.New("admin already exists")
