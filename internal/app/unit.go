package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roomledger/roomledger/internal/domain"
)

// runUnit executes a room-scoped unit atomically. When the unit lost a
// concurrent version race it is retried exactly once against fresh state
// before the conflict surfaces to the caller.
func runUnit(ctx context.Context, store domain.Store, fn func(domain.Store) error) error {
	err := store.Atomic(ctx, fn)
	if errors.Is(err, domain.ErrVersionConflict) {
		err = store.Atomic(ctx, fn)
	}
	return err
}

// emit records a side-effect intent after the unit has committed.
// Delivery is best-effort: a publish failure is logged and never makes
// the committed operation report failure.
func emit(ctx context.Context, pub domain.EventPublisher, e domain.Effect) {
	if err := pub.Publish(ctx, e); err != nil {
		slog.ErrorContext(ctx, "publishing side effect",
			"kind", string(e.Kind),
			"room_id", e.RoomID,
			"error", err,
		)
	}
}
