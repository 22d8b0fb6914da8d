// Package workflow implements the ticket status transition rules: which
// statuses are reachable from which, and which roles may drive each
// transition. A transition returns a new record and never mutates its input;
// a refused transition has no effect at all.
package workflow

import (
	"fmt"
	"time"

	"gestiogastos/internal/model"
)

// Actor identifies who is attempting a transition.
type Actor struct {
	Email string
	Role  model.Role
}

// Permissions maps a target status to the roles allowed to move a ticket
// there. The role sets are configuration, not hardcoded policy: callers may
// load them alongside the view permission table.
type Permissions map[model.TicketStatus][]model.Role

// DefaultPermissions returns the built-in transition role sets: validate and
// reject are open to supervisor, comptabilitat and admin; pay is restricted
// to comptabilitat and admin. Operari can never drive a transition.
func DefaultPermissions() Permissions {
	return Permissions{
		model.StatusValidated: {model.RoleSupervisor, model.RoleComptabilitat, model.RoleAdmin},
		model.StatusPaid:      {model.RoleComptabilitat, model.RoleAdmin},
		model.StatusRejected:  {model.RoleSupervisor, model.RoleComptabilitat, model.RoleAdmin},
	}
}

// Rules decides transitions against a fixed permission configuration.
type Rules struct {
	perms Permissions
}

// NewRules validates that every reachable target status has a non-empty role
// set and returns the transition rules.
func NewRules(perms Permissions) (*Rules, error) {
	if perms == nil {
		perms = DefaultPermissions()
	}
	for _, target := range []model.TicketStatus{model.StatusValidated, model.StatusPaid, model.StatusRejected} {
		if len(perms[target]) == 0 {
			return nil, fmt.Errorf("transition permissions: no roles may move tickets to %q", target)
		}
	}
	return &Rules{perms: perms}, nil
}

// reachable reports whether to is a legal next status after from. Statuses
// move forward (pending -> validated -> paid) or sideways to rejected from
// pending/validated.
func reachable(from, to model.TicketStatus) bool {
	switch from {
	case model.StatusPending:
		return to == model.StatusValidated || to == model.StatusRejected
	case model.StatusValidated:
		return to == model.StatusPaid || to == model.StatusRejected
	}
	// paid and rejected are terminal
	return false
}

func (r *Rules) authorized(to model.TicketStatus, role model.Role) bool {
	for _, allowed := range r.perms[to] {
		if allowed == role {
			return true
		}
	}
	return false
}

// Transition applies newStatus to a copy of the ticket on behalf of the
// actor. Rejections must carry a reason. On failure the original ticket is
// untouched and either model.ErrInvalidTransition or model.ErrUnauthorized
// is returned.
func (r *Rules) Transition(t model.Ticket, newStatus model.TicketStatus, actor Actor, reason string) (model.Ticket, error) {
	if !newStatus.Valid() {
		return model.Ticket{}, fmt.Errorf("%w: unknown status %q", model.ErrInvalidTransition, newStatus)
	}
	if !reachable(t.Status, newStatus) {
		return model.Ticket{}, fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, t.Status, newStatus)
	}
	if !r.authorized(newStatus, actor.Role) {
		return model.Ticket{}, fmt.Errorf("%w: role %s may not move tickets to %s", model.ErrUnauthorized, actor.Role, newStatus)
	}
	if newStatus == model.StatusRejected && reason == "" {
		return model.Ticket{}, &model.ValidationError{Field: "reason", Reason: "a reason is required to reject a ticket"}
	}

	next := t.Clone()
	next.Status = newStatus
	switch newStatus {
	case model.StatusValidated:
		next.ValidatedBy = actor.Email
	case model.StatusPaid:
		next.PaidBy = actor.Email
	case model.StatusRejected:
		next.RejectedBy = actor.Email
		next.RejectionReason = reason
	}
	next.UpdatedAt = time.Now().UTC()
	return next, nil
}
