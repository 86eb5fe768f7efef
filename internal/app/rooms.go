package app

import (
	"context"
	"fmt"

	"github.com/roomledger/roomledger/internal/domain"
)

// RoomService handles inventory setup and reads. Room status is never
// written here; that belongs to the RoomStatusSynchronizer.
type RoomService struct {
	store domain.Store
}

// NewRoomService creates a service over the given store.
func NewRoomService(store domain.Store) *RoomService {
	return &RoomService{store: store}
}

// Create adds a room to the inventory, available and at version 1.
func (s *RoomService) Create(ctx context.Context, number string, maxOccupancy int, priceCents int64) (domain.Room, error) {
	if number == "" {
		return domain.Room{}, &domain.ValidationError{Field: "number", Reason: "must not be empty"}
	}
	if maxOccupancy < 1 {
		return domain.Room{}, &domain.ValidationError{Field: "max_occupancy", Reason: "must be at least 1"}
	}
	if priceCents < 0 {
		return domain.Room{}, &domain.ValidationError{Field: "price_cents", Reason: "must not be negative"}
	}

	id, err := generateID()
	if err != nil {
		return domain.Room{}, fmt.Errorf("generating room id: %w", err)
	}

	room := domain.NewRoom(id, number, maxOccupancy, priceCents)
	if err := s.store.CreateRoom(ctx, room); err != nil {
		return domain.Room{}, fmt.Errorf("creating room: %w", err)
	}
	return room, nil
}

// GetByID returns a room by its unique identifier.
func (s *RoomService) GetByID(ctx context.Context, id string) (domain.Room, error) {
	return s.store.GetRoom(ctx, id)
}

// List returns rooms matching the given filter.
func (s *RoomService) List(ctx context.Context, filter domain.RoomFilter) ([]domain.Room, error) {
	return s.store.ListRooms(ctx, filter)
}
