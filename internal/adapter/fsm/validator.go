package fsm

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"github.com/roomledger/roomledger/internal/domain"
)

// Compile-time checks: one Validator type serves all three lifecycles.
var (
	_ domain.TransitionValidator[domain.ReservationStatus, domain.ReservationEvent] = (*Validator[domain.ReservationStatus, domain.ReservationEvent])(nil)
	_ domain.TransitionValidator[domain.TaskStatus, domain.TaskEvent]               = (*Validator[domain.TaskStatus, domain.TaskEvent])(nil)
	_ domain.TransitionValidator[domain.RequestStatus, domain.RequestEvent]         = (*Validator[domain.RequestStatus, domain.RequestEvent])(nil)
)

// Validator implements domain.TransitionValidator using looplab/fsm.
// It creates a short-lived FSM instance per Apply call, initialized with
// the entity's current state. This is necessary because looplab/fsm is
// stateful (it tracks the current state internally).
type Validator[S ~string, E ~string] struct {
	events []loopfsm.EventDesc
}

// New creates an FSM-backed validator from a domain transition table.
func New[S ~string, E ~string](transitions []domain.Transition[S, E]) *Validator[S, E] {
	return &Validator[S, E]{events: buildEvents(transitions)}
}

// buildEvents converts a domain transition table into looplab/fsm
// EventDesc format. It consolidates transitions with the same event and
// destination into a single EventDesc with multiple source states (e.g.,
// a cancel event from "pending" and "in_progress" both go to "cancelled").
func buildEvents[S ~string, E ~string](transitions []domain.Transition[S, E]) []loopfsm.EventDesc {
	type key struct {
		event string
		dst   string
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range transitions {
		k := key{event: string(t.Event), dst: string(t.Dst)}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], string(t.Src))
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{
			Name: k.event,
			Src:  grouped[k],
			Dst:  k.dst,
		})
	}
	return out
}

// Apply checks if the given event is valid from the current status and
// returns the destination status. Returns a domain.TransitionError if
// the transition is not allowed.
func (v *Validator[S, E]) Apply(ctx context.Context, current S, event E) (S, error) {
	machine := loopfsm.NewFSM(string(current), v.events, nil)

	if err := machine.Event(ctx, string(event)); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &noTransition) {
			return "", &domain.TransitionError{
				Event:   string(event),
				Current: string(current),
			}
		}
		return "", err
	}

	return S(machine.Current()), nil
}
