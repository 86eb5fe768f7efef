package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roomledger/roomledger/internal/domain"
)

// ReservationService orchestrates the reservation lifecycle. Every
// operation that touches room state runs as one room-scoped unit: the
// per-room lock is taken, the conflict check, reservation write, and
// status update commit in a single transaction, and side effects are
// dispatched only after the commit.
type ReservationService struct {
	store     domain.Store
	publisher domain.EventPublisher
	validator domain.TransitionValidator[domain.ReservationStatus, domain.ReservationEvent]
	sync      *RoomStatusSynchronizer
	locks     *RoomLocks
}

// NewReservationService creates a service with the given adapters.
func NewReservationService(
	store domain.Store,
	publisher domain.EventPublisher,
	validator domain.TransitionValidator[domain.ReservationStatus, domain.ReservationEvent],
	sync *RoomStatusSynchronizer,
	locks *RoomLocks,
) *ReservationService {
	return &ReservationService{
		store:     store,
		publisher: publisher,
		validator: validator,
		sync:      sync,
		locks:     locks,
	}
}

// CreateReservationParams carries the caller input for a new reservation.
type CreateReservationParams struct {
	RoomID          string
	GuestID         string
	GuestEmail      string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	SpecialRequests string
}

// Create books a room for the given half-open interval. It validates the
// dates and party size, rejects overlapping blocking reservations, prices
// the stay, persists the reservation as confirmed, and marks the room
// reserved, all in one unit.
func (s *ReservationService) Create(ctx context.Context, p CreateReservationParams) (domain.Reservation, error) {
	if !p.CheckOut.After(p.CheckIn) {
		return domain.Reservation{}, &domain.ValidationError{Field: "check_out", Reason: "must be after check_in"}
	}
	if p.Guests < 1 {
		return domain.Reservation{}, &domain.ValidationError{Field: "guests", Reason: "must be at least 1"}
	}

	unlock := s.locks.Lock(p.RoomID)
	defer unlock()

	var res domain.Reservation
	err := runUnit(ctx, s.store, func(tx domain.Store) error {
		room, err := tx.GetRoom(ctx, p.RoomID)
		if err != nil {
			return err
		}
		if p.Guests > room.MaxOccupancy {
			return &domain.OccupancyError{RoomID: room.ID, Guests: p.Guests, MaxOccupancy: room.MaxOccupancy}
		}

		blocking, err := tx.BlockingReservations(ctx, p.RoomID)
		if err != nil {
			return fmt.Errorf("loading blocking reservations: %w", err)
		}
		if domain.HasConflict(p.CheckIn, p.CheckOut, blocking, "") {
			return &domain.OverlapError{RoomID: room.ID, CheckIn: p.CheckIn, CheckOut: p.CheckOut}
		}

		id, err := generateID()
		if err != nil {
			return fmt.Errorf("generating reservation id: %w", err)
		}

		amount := domain.StayAmountCents(p.CheckIn, p.CheckOut, room.PriceCents)

		// A fresh confirmation number on each attempt; collisions on the
		// unique column are regenerated rather than surfaced.
		for attempt := 0; ; attempt++ {
			confirmation, err := newConfirmation()
			if err != nil {
				return fmt.Errorf("generating confirmation number: %w", err)
			}
			res = domain.NewReservation(id, confirmation, room.ID, p.GuestID, p.GuestEmail,
				p.CheckIn, p.CheckOut, p.Guests, amount, p.SpecialRequests)

			err = tx.CreateReservation(ctx, res)
			if errors.Is(err, domain.ErrConfirmationTaken) && attempt < 2 {
				continue
			}
			if err != nil {
				return fmt.Errorf("creating reservation: %w", err)
			}
			break
		}
		return s.sync.Apply(ctx, tx, room.ID, domain.RoomEventClaimed)
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	emit(ctx, s.publisher, effectFor(domain.EffectReservationConfirmed, res))
	return res, nil
}

// CheckIn moves a confirmed reservation to checked-in and the room to
// occupied. Only staff roles may check guests in.
func (s *ReservationService) CheckIn(ctx context.Context, id string, actor domain.Actor) (domain.Reservation, error) {
	if !actor.Privileged() {
		return domain.Reservation{}, &domain.UnauthorizedError{ActorID: actor.ID, Action: "check in a reservation"}
	}
	return s.transition(ctx, id, domain.ReservationEventCheckIn, domain.RoomEventOccupied, domain.EffectReservationCheckedIn)
}

// CheckOut moves a checked-in reservation to checked-out and the room to
// cleaning. Only staff roles may check guests out.
func (s *ReservationService) CheckOut(ctx context.Context, id string, actor domain.Actor) (domain.Reservation, error) {
	if !actor.Privileged() {
		return domain.Reservation{}, &domain.UnauthorizedError{ActorID: actor.ID, Action: "check out a reservation"}
	}
	return s.transition(ctx, id, domain.ReservationEventCheckOut, domain.RoomEventVacated, domain.EffectReservationCheckedOut)
}

// Cancel cancels a confirmed reservation. Guests may cancel only their
// own; cancelling releases the room back to available if it was still
// only reserved.
func (s *ReservationService) Cancel(ctx context.Context, id string, actor domain.Actor) (domain.Reservation, error) {
	res, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if err := actor.CanCancelReservation(res); err != nil {
		return domain.Reservation{}, err
	}
	return s.transition(ctx, id, domain.ReservationEventCancel, domain.RoomEventReleased, domain.EffectReservationCancelled)
}

// transition applies one lifecycle event and the matching room event as a
// single room-scoped unit, then emits the side-effect intent.
func (s *ReservationService) transition(ctx context.Context, id string, event domain.ReservationEvent, roomEvent domain.RoomEvent, effect domain.SideEffect) (domain.Reservation, error) {
	res, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}

	unlock := s.locks.Lock(res.RoomID)
	defer unlock()

	var out domain.Reservation
	err = runUnit(ctx, s.store, func(tx domain.Store) error {
		cur, err := tx.GetReservation(ctx, id)
		if err != nil {
			return err
		}

		next, err := s.validator.Apply(ctx, cur.Status, event)
		if err != nil {
			return err
		}

		cur.Status = next
		cur.UpdatedAt = time.Now().UTC()
		if err := tx.UpdateReservation(ctx, cur); err != nil {
			return fmt.Errorf("updating reservation: %w", err)
		}
		if err := s.sync.Apply(ctx, tx, cur.RoomID, roomEvent); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	emit(ctx, s.publisher, effectFor(effect, out))
	return out, nil
}

// Update applies whitelisted field changes to a reservation. No room
// state is involved, so no room lock is taken.
func (s *ReservationService) Update(ctx context.Context, id string, actor domain.Actor, update domain.ReservationUpdate) (domain.Reservation, error) {
	if err := actor.AuthorizeReservationUpdate(update); err != nil {
		return domain.Reservation{}, err
	}

	res, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}

	if update.SpecialRequests != nil {
		res.SpecialRequests = *update.SpecialRequests
	}
	res.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateReservation(ctx, res); err != nil {
		return domain.Reservation{}, fmt.Errorf("updating reservation: %w", err)
	}
	return res, nil
}

// GetByID returns a reservation by its unique identifier.
func (s *ReservationService) GetByID(ctx context.Context, id string) (domain.Reservation, error) {
	return s.store.GetReservation(ctx, id)
}

// List returns reservations matching the given filter.
func (s *ReservationService) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	return s.store.ListReservations(ctx, filter)
}

func effectFor(kind domain.SideEffect, res domain.Reservation) domain.Effect {
	return domain.Effect{
		Kind:          kind,
		RoomID:        res.RoomID,
		ReservationID: res.ID,
		GuestID:       res.GuestID,
		GuestEmail:    res.GuestEmail,
		Confirmation:  res.Confirmation,
		AmountCents:   res.AmountCents,
		CheckIn:       res.CheckIn,
		CheckOut:      res.CheckOut,
	}
}
