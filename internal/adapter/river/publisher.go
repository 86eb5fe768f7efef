package river

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/riverqueue/river"

	"github.com/roomledger/roomledger/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// EffectJobArgs carries the data needed to process a side effect
// asynchronously. River serializes this as JSON into its job queue table.
// It is a snapshot of the committed change, so the worker never needs to
// query the database.
type EffectJobArgs struct {
	Effect        string    `json:"effect"`
	RoomID        string    `json:"room_id"`
	ReservationID string    `json:"reservation_id,omitempty"`
	RequestID     string    `json:"request_id,omitempty"`
	GuestID       string    `json:"guest_id,omitempty"`
	GuestEmail    string    `json:"guest_email,omitempty"`
	Confirmation  string    `json:"confirmation,omitempty"`
	AmountCents   int64     `json:"amount_cents,omitempty"`
	CheckIn       time.Time `json:"check_in,omitempty"`
	CheckOut      time.Time `json:"check_out,omitempty"`
	Priority      string    `json:"priority,omitempty"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (EffectJobArgs) Kind() string { return "effect.recorded" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues a side effect as an async job in River.
func (p *Publisher) Publish(ctx context.Context, e domain.Effect) error {
	_, err := p.client.Insert(ctx, EffectJobArgs{
		Effect:        string(e.Kind),
		RoomID:        e.RoomID,
		ReservationID: e.ReservationID,
		RequestID:     e.RequestID,
		GuestID:       e.GuestID,
		GuestEmail:    e.GuestEmail,
		Confirmation:  e.Confirmation,
		AmountCents:   e.AmountCents,
		CheckIn:       e.CheckIn,
		CheckOut:      e.CheckOut,
		Priority:      string(e.Priority),
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing effect job: %w", err)
	}
	return nil
}
