package app

import (
	"context"
	"fmt"

	"github.com/roomledger/roomledger/internal/domain"
)

// RoomStatusSynchronizer is the exclusive owner of Room.Status. Every
// lifecycle transition that affects a room funnels through Apply, inside
// the same transaction as the transition itself; no other code path
// writes the status field.
type RoomStatusSynchronizer struct{}

// NewRoomStatusSynchronizer creates the synchronizer.
func NewRoomStatusSynchronizer() *RoomStatusSynchronizer {
	return &RoomStatusSynchronizer{}
}

// Apply derives the room's next status for the given lifecycle event and
// persists it with an optimistic version check. Stale terminal events
// (cleaning done, issue resolved, reservation released after the room
// moved on) are ignored without error.
func (s *RoomStatusSynchronizer) Apply(ctx context.Context, store domain.Store, roomID string, event domain.RoomEvent) error {
	room, err := store.GetRoom(ctx, roomID)
	if err != nil {
		return fmt.Errorf("loading room for %s: %w", event, err)
	}

	next, applied := domain.DeriveStatus(room.Status, event)
	if !applied {
		return nil
	}

	room.Status = next
	if err := store.SaveRoom(ctx, room, room.Version); err != nil {
		return fmt.Errorf("saving room status %s: %w", next, err)
	}
	return nil
}
