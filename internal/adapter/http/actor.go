package http

import "github.com/roomledger/roomledger/internal/domain"

// ActorParams extracts the acting user from request headers. An absent
// or unknown role gets no privileges.
type ActorParams struct {
	ActorID   string `header:"X-Actor-ID" doc:"Acting user ID"`
	ActorRole string `header:"X-Actor-Role" doc:"Acting user role" enum:"guest,staff,manager,admin" required:"false"`
}

func (p ActorParams) actor() domain.Actor {
	role := domain.Role(p.ActorRole)
	if role == "" {
		role = domain.RoleGuest
	}
	return domain.Actor{ID: p.ActorID, Role: role}
}
