package domain

import "time"

// RoomStatus represents the derived state of a physical room.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomReserved    RoomStatus = "reserved"
	RoomOccupied    RoomStatus = "occupied"
	RoomCleaning    RoomStatus = "cleaning"
	RoomMaintenance RoomStatus = "maintenance"
)

// RoomEvent is a lifecycle event that can change a room's derived status.
type RoomEvent string

const (
	RoomEventClaimed      RoomEvent = "room_claimed"
	RoomEventOccupied     RoomEvent = "room_occupied"
	RoomEventVacated      RoomEvent = "room_vacated"
	RoomEventReleased     RoomEvent = "room_released"
	RoomEventCleaningDone RoomEvent = "cleaning_done"
	RoomEventUrgentIssue  RoomEvent = "urgent_issue_opened"
	RoomEventResolved     RoomEvent = "issue_resolved"
)

// Room is a physical unit of inventory. Its Status is derived from
// lifecycle events by the room status synchronizer; no other component
// writes it. Version supports optimistic concurrency on writes.
type Room struct {
	ID           string
	Number       string
	Status       RoomStatus
	MaxOccupancy int
	PriceCents   int64
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewRoom creates an available room at version 1.
func NewRoom(id, number string, maxOccupancy int, priceCents int64) Room {
	now := time.Now().UTC()
	return Room{
		ID:           id,
		Number:       number,
		Status:       RoomAvailable,
		MaxOccupancy: maxOccupancy,
		PriceCents:   priceCents,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// DeriveStatus computes the next room status for a lifecycle event.
// It returns the new status and true when the event applies, or the
// current status and false when the event is stale and must be ignored.
//
// The claim/occupy/vacate chain always applies: those events track the
// guest actually holding the room. Terminal events (cleaning done, issue
// resolved, reservation released) only apply when the room is still in
// the state they conclude, so a late-arriving completion cannot clobber
// a status that has since moved on.
func DeriveStatus(current RoomStatus, event RoomEvent) (RoomStatus, bool) {
	switch event {
	case RoomEventClaimed:
		return RoomReserved, true
	case RoomEventOccupied:
		return RoomOccupied, true
	case RoomEventVacated:
		return RoomCleaning, true
	case RoomEventCleaningDone:
		if current == RoomCleaning {
			return RoomAvailable, true
		}
	case RoomEventReleased:
		if current == RoomReserved {
			return RoomAvailable, true
		}
	case RoomEventUrgentIssue:
		return RoomMaintenance, true
	case RoomEventResolved:
		if current == RoomMaintenance {
			return RoomAvailable, true
		}
	}
	return current, false
}
