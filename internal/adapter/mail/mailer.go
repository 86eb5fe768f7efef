// Package mail sends guest-facing email over SMTP using go-mail.
package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/roomledger/roomledger/internal/domain"
)

// Config holds SMTP settings. An empty Host disables mail entirely,
// which is the default for local development and tests.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends reservation lifecycle notifications to guests.
type Mailer struct {
	cfg Config
}

// New creates a mailer from the given configuration.
func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether an SMTP host has been configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != ""
}

// SendConfirmation delivers the email matching the effect's kind. Kinds
// with no guest-facing mail are skipped.
func (m *Mailer) SendConfirmation(ctx context.Context, e domain.Effect) error {
	subject, body, ok := compose(e)
	if !ok {
		return nil
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(e.GuestEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

const dateFormat = "Monday, 2 January 2006"

func compose(e domain.Effect) (subject, body string, ok bool) {
	switch e.Kind {
	case domain.EffectReservationConfirmed:
		return fmt.Sprintf("Reservation confirmed: %s", e.Confirmation),
			fmt.Sprintf(
				"Your reservation is confirmed.\n\nConfirmation: %s\nCheck-in: %s\nCheck-out: %s\nTotal: $%.2f\n",
				e.Confirmation,
				e.CheckIn.Format(dateFormat),
				e.CheckOut.Format(dateFormat),
				float64(e.AmountCents)/100,
			), true
	case domain.EffectReservationCancelled:
		return fmt.Sprintf("Reservation cancelled: %s", e.Confirmation),
			fmt.Sprintf("Your reservation %s has been cancelled.\n", e.Confirmation), true
	case domain.EffectReservationCheckedOut:
		return fmt.Sprintf("Thanks for staying with us: %s", e.Confirmation),
			fmt.Sprintf(
				"You have checked out.\n\nConfirmation: %s\nTotal charged: $%.2f\n",
				e.Confirmation,
				float64(e.AmountCents)/100,
			), true
	default:
		return "", "", false
	}
}
