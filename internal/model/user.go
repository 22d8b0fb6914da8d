package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Role determines which views a user can see and which ticket transitions
// they may perform. Exactly four roles exist, with no implicit hierarchy:
// every permission is an explicit per-view or per-transition list.
type Role string

const (
	RoleOperari       Role = "operari"
	RoleSupervisor    Role = "supervisor"
	RoleComptabilitat Role = "comptabilitat"
	RoleAdmin         Role = "admin"
)

// Roles lists every known role in a stable order.
func Roles() []Role {
	return []Role{RoleOperari, RoleSupervisor, RoleComptabilitat, RoleAdmin}
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOperari, RoleSupervisor, RoleComptabilitat, RoleAdmin:
		return true
	}
	return false
}

// roleAliases maps legacy and localized role spellings the backend has used
// over time onto the canonical role names.
var roleAliases = map[string]Role{
	"operario":       RoleOperari,
	"operaria":       RoleOperari,
	"contabilidad":   RoleComptabilitat,
	"comptable":      RoleComptabilitat,
	"contable":       RoleComptabilitat,
	"finance":        RoleComptabilitat,
	"administrador":  RoleAdmin,
	"administradora": RoleAdmin,
	"supervisora":    RoleSupervisor,
}

// NormalizeRole lowercases and trims a role string and resolves known
// aliases. Unknown values are returned as-is so callers can reject them.
func NormalizeRole(v string) Role {
	r := Role(strings.ToLower(strings.TrimSpace(v)))
	if canonical, ok := roleAliases[string(r)]; ok {
		return canonical
	}
	return r
}

// User is the authenticated identity of the current session. Email is the
// unique identity key. PendingAmount is the server-supplied balance of
// not-yet-paid tickets; the client also derives it locally from the ticket
// store (see the ticket service reconciliation).
type User struct {
	Email         string
	Name          string
	Role          Role
	PendingAmount decimal.Decimal
}
