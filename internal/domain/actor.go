package domain

import "time"

// Role is the privilege level of the actor performing an operation.
// Authentication is external; the role arrives with the request.
type Role string

const (
	RoleGuest   Role = "guest"
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Actor identifies who is performing an operation.
type Actor struct {
	ID   string
	Role Role
}

// Privileged reports whether the actor is hotel personnel of any level.
func (a Actor) Privileged() bool {
	return a.Role == RoleStaff || a.Role == RoleManager || a.Role == RoleAdmin
}

// CanManage reports whether the actor may perform management-only
// mutations (reassignment, maintenance status changes).
func (a Actor) CanManage() bool {
	return a.Role == RoleManager || a.Role == RoleAdmin
}

// CanCancelReservation checks whether the actor may cancel the given
// reservation. Guests may cancel only their own; any staff role may
// cancel any reservation.
func (a Actor) CanCancelReservation(r Reservation) error {
	if a.Privileged() {
		return nil
	}
	if a.Role == RoleGuest && a.ID == r.GuestID {
		return nil
	}
	return &UnauthorizedError{ActorID: a.ID, Action: "cancel reservation"}
}

// ReservationUpdate carries the mutable reservation fields a caller may
// supply. Fields are applied only when the actor's whitelist permits them.
type ReservationUpdate struct {
	SpecialRequests *string
}

// TaskUpdate carries the mutable housekeeping task fields a caller may
// supply.
type TaskUpdate struct {
	Notes        *string
	AssignedTo   *string
	ScheduledFor *time.Time
}

// Caller-supplied updates are applied through explicit per-role field
// whitelists. A field absent from the actor's whitelist rejects the whole
// update; nothing is applied field-by-field on a best-effort basis.
var (
	reservationFieldWhitelist = map[Role][]string{
		RoleStaff:   {"special_requests"},
		RoleManager: {"special_requests"},
		RoleAdmin:   {"special_requests"},
	}
	taskFieldWhitelist = map[Role][]string{
		RoleStaff:   {"notes"},
		RoleManager: {"notes", "assigned_to", "scheduled_for"},
		RoleAdmin:   {"notes", "assigned_to", "scheduled_for"},
	}
)

func (u ReservationUpdate) fields() []string {
	var out []string
	if u.SpecialRequests != nil {
		out = append(out, "special_requests")
	}
	return out
}

func (u TaskUpdate) fields() []string {
	var out []string
	if u.Notes != nil {
		out = append(out, "notes")
	}
	if u.AssignedTo != nil {
		out = append(out, "assigned_to")
	}
	if u.ScheduledFor != nil {
		out = append(out, "scheduled_for")
	}
	return out
}

// AuthorizeReservationUpdate checks every field in the update against the
// actor's whitelist. Guests have no writable reservation fields; they can
// only cancel.
func (a Actor) AuthorizeReservationUpdate(u ReservationUpdate) error {
	return checkWhitelist(a, "update reservation", u.fields(), reservationFieldWhitelist[a.Role])
}

// AuthorizeTaskUpdate checks every field in the update against the actor's
// whitelist. Staff may touch their own task's notes; managers may also
// reassign and reschedule.
func (a Actor) AuthorizeTaskUpdate(task HousekeepingTask, u TaskUpdate) error {
	if a.Role == RoleStaff && task.AssignedTo != a.ID {
		return &UnauthorizedError{ActorID: a.ID, Action: "update task assigned to someone else"}
	}
	return checkWhitelist(a, "update task", u.fields(), taskFieldWhitelist[a.Role])
}

// CanCompleteTask checks whether the actor may change the status of the
// given task. Managers and admins may act on any task; staff only on a
// task assigned to them.
func (a Actor) CanCompleteTask(task HousekeepingTask) error {
	if a.CanManage() {
		return nil
	}
	if a.Role == RoleStaff && task.AssignedTo == a.ID {
		return nil
	}
	return &UnauthorizedError{ActorID: a.ID, Action: "change task status"}
}

// CanChangeRequestStatus checks whether the actor may transition a
// maintenance request. Only managers and admins may; reporters and other
// unprivileged actors are read-only.
func (a Actor) CanChangeRequestStatus() error {
	if a.CanManage() {
		return nil
	}
	return &UnauthorizedError{ActorID: a.ID, Action: "change maintenance request status"}
}

func checkWhitelist(a Actor, action string, requested, allowed []string) error {
	for _, f := range requested {
		permitted := false
		for _, w := range allowed {
			if f == w {
				permitted = true
				break
			}
		}
		if !permitted {
			return &UnauthorizedError{ActorID: a.ID, Action: action + " field " + f}
		}
	}
	return nil
}
