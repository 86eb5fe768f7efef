package domain

import "context"

// Transition defines a valid state change: an event moves an entity from
// Src to Dst. Each lifecycle declares its own table; anything not listed
// is rejected.
type Transition[S ~string, E ~string] struct {
	Event E
	Src   S
	Dst   S
}

// TransitionValidator checks and applies a lifecycle event against an
// entity's current status.
type TransitionValidator[S ~string, E ~string] interface {
	Apply(ctx context.Context, current S, event E) (S, error)
}
