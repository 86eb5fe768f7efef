package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrTaskNotFound        = errors.New("housekeeping task not found")
	ErrRequestNotFound     = errors.New("maintenance request not found")

	// ErrVersionConflict signals a lost race on a versioned room write.
	// Callers retry the whole room-scoped unit once before surfacing it.
	ErrVersionConflict = errors.New("stale room version")

	// ErrConfirmationTaken signals a collision on the unique confirmation
	// number. The booking flow regenerates and retries the insert.
	ErrConfirmationTaken = errors.New("confirmation number already in use")
)

// ValidationError is returned for malformed or missing input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// OverlapError is returned when a candidate interval collides with an
// existing blocking reservation on the same room.
type OverlapError struct {
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("room %s is already booked within [%s, %s)",
		e.RoomID, e.CheckIn.Format("2006-01-02"), e.CheckOut.Format("2006-01-02"))
}

// OccupancyError is returned when a party exceeds the room's capacity.
type OccupancyError struct {
	RoomID       string
	Guests       int
	MaxOccupancy int
}

func (e *OccupancyError) Error() string {
	return fmt.Sprintf("room %s holds at most %d guests, requested %d",
		e.RoomID, e.MaxOccupancy, e.Guests)
}

// TransitionError is returned when a state transition is not allowed.
type TransitionError struct {
	Event   string
	Current string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %q is not valid from state %q", e.Event, e.Current)
}

// UnauthorizedError is returned when an actor lacks permission for the
// requested mutation.
type UnauthorizedError struct {
	ActorID string
	Action  string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("actor %q may not %s", e.ActorID, e.Action)
}
