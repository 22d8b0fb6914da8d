package workflow

import (
	"errors"
	"testing"

	"gestiogastos/internal/model"

	"github.com/shopspring/decimal"
)

func pendingTicket() model.Ticket {
	return model.Ticket{
		ID:        1,
		Type:      model.TypeMeal,
		Total:     decimal.RequireFromString("45.50"),
		Status:    model.StatusPending,
		CreatedBy: "marc@gruplomi.com",
	}
}

func mustRules(t *testing.T) *Rules {
	t.Helper()
	rules, err := NewRules(nil)
	if err != nil {
		t.Fatalf("NewRules() error: %v", err)
	}
	return rules
}

func TestOperariCannotValidate(t *testing.T) {
	rules := mustRules(t)
	actor := Actor{Email: "marc@gruplomi.com", Role: model.RoleOperari}

	_, err := rules.Transition(pendingTicket(), model.StatusValidated, actor, "")
	if !errors.Is(err, model.ErrUnauthorized) {
		t.Fatalf("Transition() = %v, want ErrUnauthorized", err)
	}
}

func TestSupervisorValidatesPending(t *testing.T) {
	rules := mustRules(t)
	original := pendingTicket()
	actor := Actor{Email: "anna@gruplomi.com", Role: model.RoleSupervisor}

	next, err := rules.Transition(original, model.StatusValidated, actor, "")
	if err != nil {
		t.Fatalf("Transition() error: %v", err)
	}
	if next.Status != model.StatusValidated {
		t.Errorf("got status %q, want validated", next.Status)
	}
	if next.ValidatedBy != actor.Email {
		t.Errorf("got validated_by %q, want %q", next.ValidatedBy, actor.Email)
	}
	if original.Status != model.StatusPending {
		t.Error("Transition mutated its input")
	}
}

func TestTerminalStatesRefuseEverything(t *testing.T) {
	rules := mustRules(t)
	admin := Actor{Email: "admin@gruplomi.com", Role: model.RoleAdmin}

	for _, from := range []model.TicketStatus{model.StatusPaid, model.StatusRejected} {
		for _, to := range []model.TicketStatus{model.StatusPending, model.StatusValidated, model.StatusPaid, model.StatusRejected} {
			ticket := pendingTicket()
			ticket.Status = from
			_, err := rules.Transition(ticket, to, admin, "motiu")
			if !errors.Is(err, model.ErrInvalidTransition) {
				t.Errorf("%s -> %s: got %v, want ErrInvalidTransition", from, to, err)
			}
		}
	}
}

func TestTransitionMatrix(t *testing.T) {
	rules := mustRules(t)

	cases := []struct {
		name    string
		from    model.TicketStatus
		to      model.TicketStatus
		role    model.Role
		reason  string
		wantErr error
	}{
		{"pay needs validated", model.StatusPending, model.StatusPaid, model.RoleComptabilitat, "", model.ErrInvalidTransition},
		{"validated can be paid by comptabilitat", model.StatusValidated, model.StatusPaid, model.RoleComptabilitat, "", nil},
		{"supervisor cannot pay", model.StatusValidated, model.StatusPaid, model.RoleSupervisor, "", model.ErrUnauthorized},
		{"admin can pay", model.StatusValidated, model.StatusPaid, model.RoleAdmin, "", nil},
		{"comptabilitat can validate", model.StatusPending, model.StatusValidated, model.RoleComptabilitat, "", nil},
		{"supervisor rejects pending", model.StatusPending, model.StatusRejected, model.RoleSupervisor, "sense justificant", nil},
		{"comptabilitat rejects validated", model.StatusValidated, model.StatusRejected, model.RoleComptabilitat, "import excessiu", nil},
		{"operari cannot reject", model.StatusPending, model.StatusRejected, model.RoleOperari, "x", model.ErrUnauthorized},
		{"no backwards move", model.StatusValidated, model.StatusPending, model.RoleAdmin, "", model.ErrInvalidTransition},
		{"no self transition", model.StatusPending, model.StatusPending, model.RoleAdmin, "", model.ErrInvalidTransition},
		{"unknown status", model.StatusPending, model.TicketStatus("archived"), model.RoleAdmin, "", model.ErrInvalidTransition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ticket := pendingTicket()
			ticket.Status = tc.from
			actor := Actor{Email: "user@gruplomi.com", Role: tc.role}

			next, err := rules.Transition(ticket, tc.to, actor, tc.reason)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("got %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Transition() error: %v", err)
			}
			if next.Status != tc.to {
				t.Errorf("got status %q, want %q", next.Status, tc.to)
			}
		})
	}
}

func TestRejectRequiresReason(t *testing.T) {
	rules := mustRules(t)
	actor := Actor{Email: "anna@gruplomi.com", Role: model.RoleSupervisor}

	_, err := rules.Transition(pendingTicket(), model.StatusRejected, actor, "")
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError for missing reason", err)
	}

	next, err := rules.Transition(pendingTicket(), model.StatusRejected, actor, "justificant il·legible")
	if err != nil {
		t.Fatalf("Transition() error: %v", err)
	}
	if next.RejectedBy != actor.Email || next.RejectionReason == "" {
		t.Errorf("rejection attribution missing: %+v", next)
	}
}

func TestNewRulesRejectsEmptyRoleSet(t *testing.T) {
	perms := DefaultPermissions()
	perms[model.StatusPaid] = nil
	if _, err := NewRules(perms); err == nil {
		t.Fatal("NewRules accepted an empty role set for paid")
	}
}
