package domain

import "github.com/google/uuid"

// Role is the relationship between a user and a trip.
// It is always derived — never stored — from the trip's OwnerUID and
// collaborator set, so there is exactly one source of truth for access.
type Role string

const (
	// RoleOwner: the user created the trip. Sole holder of edit/delete/invite rights.
	RoleOwner Role = "owner"
	// RoleCollaborator: the user was granted shared place-management rights
	// via the invite-acceptance flow.
	RoleCollaborator Role = "collaborator"
	// RoleNone: the user has no relationship to the trip. Callers must treat
	// the trip as not found for such users, not merely forbidden.
	RoleNone Role = "none"
)

// Action is a permission gate checked before a mutation or read.
type Action string

const (
	ActionViewTrip            Action = "viewTrip"
	ActionEditTrip            Action = "editTrip"
	ActionDeleteTrip          Action = "deleteTrip"
	ActionManageCollaborators Action = "manageCollaborators"
	ActionManagePlaces        Action = "managePlaces"
)

// RoleFor computes the role of uid on trip.
//
// Owner wins over collaborator: even if uid were erroneously present in the
// collaborator set, the owner is reported as owner. Pure function — no I/O,
// no side effects — so it is independently unit-testable.
func RoleFor(uid uuid.UUID, trip Trip) Role {
	switch {
	case uid == trip.OwnerUID:
		return RoleOwner
	case trip.HasCollaborator(uid):
		return RoleCollaborator
	default:
		return RoleNone
	}
}

// PermittedActions returns the set of actions a role may perform.
// The owner holds all five actions; a collaborator may view the trip and
// manage its places; everyone else gets nothing.
func PermittedActions(role Role) []Action {
	switch role {
	case RoleOwner:
		return []Action{
			ActionViewTrip,
			ActionEditTrip,
			ActionDeleteTrip,
			ActionManageCollaborators,
			ActionManagePlaces,
		}
	case RoleCollaborator:
		return []Action{ActionViewTrip, ActionManagePlaces}
	default:
		return nil
	}
}

// Permits reports whether role may perform action.
func Permits(role Role, action Action) bool {
	for _, a := range PermittedActions(role) {
		if a == action {
			return true
		}
	}
	return false
}
