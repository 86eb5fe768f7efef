package domain

import (
	"context"
	"time"
)

// RoomFilter holds optional criteria for listing rooms.
type RoomFilter struct {
	Status *RoomStatus
	Limit  int
	Offset int
}

// ReservationFilter holds optional criteria for listing reservations.
type ReservationFilter struct {
	RoomID  string
	GuestID string
	Status  *ReservationStatus
	Limit   int
	Offset  int
}

// Store defines the persistence contract for all core entities.
//
// SaveRoom enforces optimistic concurrency: it fails with
// ErrVersionConflict when expectedVersion no longer matches the stored
// row. Atomic runs fn inside a single transaction; everything fn writes
// commits or rolls back together, which is what makes the room-scoped
// unit (conflict check + reservation write + status update) all-or-nothing.
type Store interface {
	CreateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context, filter RoomFilter) ([]Room, error)
	SaveRoom(ctx context.Context, room Room, expectedVersion int64) error

	CreateReservation(ctx context.Context, r Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	ListReservations(ctx context.Context, filter ReservationFilter) ([]Reservation, error)
	BlockingReservations(ctx context.Context, roomID string) ([]Reservation, error)
	UpdateReservation(ctx context.Context, r Reservation) error

	CreateTask(ctx context.Context, t HousekeepingTask) error
	GetTask(ctx context.Context, id string) (HousekeepingTask, error)
	UpdateTask(ctx context.Context, t HousekeepingTask) error

	CreateRequest(ctx context.Context, r MaintenanceRequest) error
	GetRequest(ctx context.Context, id string) (MaintenanceRequest, error)
	UpdateRequest(ctx context.Context, r MaintenanceRequest) error

	Atomic(ctx context.Context, fn func(Store) error) error
}

// SideEffect identifies a delivery intent recorded after a unit commits.
type SideEffect string

const (
	EffectReservationConfirmed  SideEffect = "reservation.confirmed"
	EffectReservationCheckedIn  SideEffect = "reservation.checked_in"
	EffectReservationCheckedOut SideEffect = "reservation.checked_out"
	EffectReservationCancelled  SideEffect = "reservation.cancelled"
	EffectUrgentIssueOpened     SideEffect = "maintenance.urgent_opened"
	EffectIssueResolved         SideEffect = "maintenance.resolved"
)

// Effect is a side-effect intent: a snapshot of the committed change,
// handed to an async consumer for notification and email delivery.
// Delivery is best-effort and its failure never unwinds the commit.
type Effect struct {
	Kind          SideEffect
	RoomID        string
	ReservationID string
	RequestID     string
	GuestID       string
	GuestEmail    string
	Confirmation  string
	AmountCents   int64
	CheckIn       time.Time
	CheckOut      time.Time
	Priority      Priority
}

// EventPublisher defines the contract for recording side-effect intents.
type EventPublisher interface {
	Publish(ctx context.Context, effect Effect) error
}
