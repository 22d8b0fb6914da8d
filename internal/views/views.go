// Package views maps view identifiers to the roles allowed to see them and
// decides navigation. The router is a pure function of (role, requested
// view): it has no network or storage side effects, and a refused navigation
// leaves the caller on its previous view.
package views

import (
	"fmt"
	"os"

	"gestiogastos/internal/model"

	"gopkg.in/yaml.v3"
)

// View identifiers, in sidebar order.
const (
	ViewDashboard     = "dashboard"
	ViewCreateTicket  = "create-ticket"
	ViewMyTickets     = "my-tickets"
	ViewManageTickets = "manage-tickets"
	ViewAccounting    = "accounting"
	ViewUsers         = "users"
	ViewRoles         = "roles"
	ViewSettings      = "settings"
)

// Order is the display order of the menu. Every identifier listed here must
// have an entry in the permission table.
var Order = []string{
	ViewDashboard,
	ViewCreateTicket,
	ViewMyTickets,
	ViewManageTickets,
	ViewAccounting,
	ViewUsers,
	ViewRoles,
	ViewSettings,
}

// Table maps each view identifier to the set of roles allowed to see it.
type Table map[string][]model.Role

// DefaultTable returns the built-in view permission table.
func DefaultTable() Table {
	all := []model.Role{model.RoleOperari, model.RoleSupervisor, model.RoleComptabilitat, model.RoleAdmin}
	return Table{
		ViewDashboard:     all,
		ViewCreateTicket:  {model.RoleOperari, model.RoleSupervisor, model.RoleAdmin},
		ViewMyTickets:     {model.RoleOperari, model.RoleSupervisor, model.RoleAdmin},
		ViewManageTickets: {model.RoleSupervisor, model.RoleComptabilitat, model.RoleAdmin},
		ViewAccounting:    {model.RoleComptabilitat, model.RoleAdmin},
		ViewUsers:         {model.RoleAdmin},
		ViewRoles:         {model.RoleAdmin},
		ViewSettings:      {model.RoleAdmin},
	}
}

// LoadTable reads a permission table override from a YAML file mapping view
// identifiers to role lists. Views not present in the file keep their
// default entry.
func LoadTable(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read view table: %w", err)
	}

	var override map[string][]string
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return nil, fmt.Errorf("parse view table: %w", err)
	}

	table := DefaultTable()
	for view, roles := range override {
		entry := make([]model.Role, 0, len(roles))
		for _, r := range roles {
			role := model.NormalizeRole(r)
			if !role.Valid() {
				return nil, fmt.Errorf("view table: unknown role %q for view %q", r, view)
			}
			entry = append(entry, role)
		}
		table[view] = entry
	}
	return table, nil
}

// Validate checks table completeness: every identifier the router can be
// asked to navigate to must have a non-empty role entry.
func (t Table) Validate() error {
	for _, id := range Order {
		roles, ok := t[id]
		if !ok || len(roles) == 0 {
			return fmt.Errorf("view %q has no permission entry", id)
		}
	}
	return nil
}

// allows reports whether the table grants the role access to the view.
func (t Table) allows(view string, role model.Role) bool {
	for _, r := range t[view] {
		if r == role {
			return true
		}
	}
	return false
}

// Router decides view visibility and navigation for a role.
type Router struct {
	table Table
}

// NewRouter builds a Router after validating the table. A table missing an
// entry for a routed view is a startup error, not a runtime surprise.
func NewRouter(table Table) (*Router, error) {
	if table == nil {
		table = DefaultTable()
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Router{table: table}, nil
}

// Menu returns the view identifiers visible to the role, in display order.
func (r *Router) Menu(role model.Role) []string {
	visible := make([]string, 0, len(Order))
	for _, id := range Order {
		if r.table.allows(id, role) {
			visible = append(visible, id)
		}
	}
	return visible
}

// Navigate decides whether the role may move to the requested view. On
// refusal it returns the current view unchanged with allowed=false: there is
// no silent fallback to a default view.
func (r *Router) Navigate(current, requested string, role model.Role) (next string, allowed bool) {
	if r.table.allows(requested, role) {
		return requested, true
	}
	return current, false
}
