package domain

import "time"

// ReservationStatus represents the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
)

// ReservationEvent represents an action that triggers a reservation
// state transition.
type ReservationEvent string

const (
	ReservationEventCheckIn  ReservationEvent = "check_in"
	ReservationEventCheckOut ReservationEvent = "check_out"
	ReservationEventCancel   ReservationEvent = "cancel"
)

// ReservationTransitions defines all valid reservation state changes.
// Checked-in reservations cannot be cancelled; checked_out and cancelled
// are terminal.
var ReservationTransitions = []Transition[ReservationStatus, ReservationEvent]{
	{Event: ReservationEventCheckIn, Src: ReservationConfirmed, Dst: ReservationCheckedIn},
	{Event: ReservationEventCheckOut, Src: ReservationCheckedIn, Dst: ReservationCheckedOut},
	{Event: ReservationEventCancel, Src: ReservationConfirmed, Dst: ReservationCancelled},
}

// Reservation books a room for a guest over a half-open [CheckIn, CheckOut)
// interval. Reservations are never deleted; terminal states are kept for
// history. GuestEmail is the delivery address captured at booking time.
type Reservation struct {
	ID              string
	Confirmation    string
	RoomID          string
	GuestID         string
	GuestEmail      string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	Status          ReservationStatus
	AmountCents     int64
	SpecialRequests string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewReservation creates a reservation in the initial "confirmed" state.
func NewReservation(id, confirmation, roomID, guestID, guestEmail string, checkIn, checkOut time.Time, guests int, amountCents int64, specialRequests string) Reservation {
	now := time.Now().UTC()
	return Reservation{
		ID:              id,
		Confirmation:    confirmation,
		RoomID:          roomID,
		GuestID:         guestID,
		GuestEmail:      guestEmail,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          guests,
		Status:          ReservationConfirmed,
		AmountCents:     amountCents,
		SpecialRequests: specialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Blocks reports whether the reservation takes part in conflict detection.
// Only confirmed and checked-in reservations hold their interval.
func (r Reservation) Blocks() bool {
	return r.Status == ReservationConfirmed || r.Status == ReservationCheckedIn
}
