package services

import "errors"

var (
	// ErrInvalidRequest marks missing or malformed input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound marks a referenced client, service or appointment that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks an operation blocked by dependent or duplicate records.
	ErrConflict = errors.New("conflict")
	// ErrSlotTaken is returned when overlap prevention is enabled and the
	// requested window intersects an existing appointment.
	ErrSlotTaken = errors.New("time slot already booked")
)
