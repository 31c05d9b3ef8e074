// Package repository implements data access for the flight reservation
// schema. Each entity gets its own repository over *sql.DB; lookup misses
// are reported with per-entity sentinel errors so handlers can translate
// them into HTTP statuses with errors.Is. This file holds the sentinels
// shared by more than one repository.
package repository

import "errors"

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as cancelling an already-cancelled reservation.
// Handlers translate it into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrSeatConflict is returned by the reservation commit path when a seat
// chosen during the booking session was taken by another reservation before
// the transaction could complete. The whole reservation fails; nothing is
// written.
var ErrSeatConflict = errors.New("seat already reserved")
