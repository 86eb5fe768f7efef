package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/roomledger/roomledger/internal/domain"
)

// ConfirmationMailer sends guest-facing mail for a recorded side effect.
// The river adapter stays decoupled from the SMTP details.
type ConfirmationMailer interface {
	Enabled() bool
	SendConfirmation(ctx context.Context, e domain.Effect) error
}

// EffectWorker processes side-effect jobs from the River queue. It logs
// every effect and, when a mailer is configured, sends the guest email
// for reservation effects. Mail failures are logged and swallowed so a
// flaky SMTP server never poisons the queue.
type EffectWorker struct {
	river.WorkerDefaults[EffectJobArgs]

	Mailer ConfirmationMailer
}

// Work processes a single side-effect job.
func (w *EffectWorker) Work(ctx context.Context, job *river.Job[EffectJobArgs]) error {
	slog.InfoContext(ctx, "processing side effect",
		"effect", job.Args.Effect,
		"room_id", job.Args.RoomID,
		"reservation_id", job.Args.ReservationID,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)

	if w.Mailer == nil || !w.Mailer.Enabled() || job.Args.GuestEmail == "" {
		return nil
	}

	e := domain.Effect{
		Kind:          domain.SideEffect(job.Args.Effect),
		RoomID:        job.Args.RoomID,
		ReservationID: job.Args.ReservationID,
		GuestID:       job.Args.GuestID,
		GuestEmail:    job.Args.GuestEmail,
		Confirmation:  job.Args.Confirmation,
		AmountCents:   job.Args.AmountCents,
		CheckIn:       job.Args.CheckIn,
		CheckOut:      job.Args.CheckOut,
	}
	if err := w.Mailer.SendConfirmation(ctx, e); err != nil {
		slog.ErrorContext(ctx, "sending guest mail",
			"effect", job.Args.Effect,
			"reservation_id", job.Args.ReservationID,
			"error", err,
		)
	}
	return nil
}
