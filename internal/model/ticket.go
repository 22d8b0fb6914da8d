package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketStatus enumerates the lifecycle states of an expense ticket.
// Statuses only move forward (pending -> validated -> paid) or sideways to
// rejected from pending/validated. Paid and rejected are terminal.
type TicketStatus string

const (
	StatusPending   TicketStatus = "pending"
	StatusValidated TicketStatus = "validated"
	StatusPaid      TicketStatus = "paid"
	StatusRejected  TicketStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s TicketStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusRejected
}

// Valid reports whether s is one of the known statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case StatusPending, StatusValidated, StatusPaid, StatusRejected:
		return true
	}
	return false
}

// TicketType enumerates the expense categories. The values are the wire
// values the remote API uses.
type TicketType string

const (
	TypeMeal    TicketType = "Dieta"
	TypeParking TicketType = "Parking"
	TypeFuel    TicketType = "Gasolina"
)

// Valid reports whether t is one of the known ticket types.
func (t TicketType) Valid() bool {
	switch t {
	case TypeMeal, TypeParking, TypeFuel:
		return true
	}
	return false
}

// Ticket represents a single expense claim awaiting validation and payment.
type Ticket struct {
	ID          int64
	Date        time.Time
	Type        TicketType
	Description string
	Project     string
	Total       decimal.Decimal

	// Kilometers and PricePerKm are set only for fuel tickets, where
	// Total = Kilometers * PricePerKm.
	Kilometers *decimal.Decimal
	PricePerKm *decimal.Decimal

	// Image holds the server-side path of the attached photo, empty if none.
	Image string

	Status    TicketStatus
	CreatedBy string

	ValidatedBy     string
	PaidBy          string
	RejectedBy      string
	RejectionReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPhoto reports whether a photo is attached to the ticket.
func (t Ticket) HasPhoto() bool {
	return t.Image != ""
}

// Clone returns a deep copy of the ticket. Pointer fields are duplicated so
// the copy can be modified without touching the original record.
func (t Ticket) Clone() Ticket {
	c := t
	if t.Kilometers != nil {
		km := *t.Kilometers
		c.Kilometers = &km
	}
	if t.PricePerKm != nil {
		p := *t.PricePerKm
		c.PricePerKm = &p
	}
	return c
}

// Validate checks the structural invariants of a ticket: a known type and
// status, a fuel ticket carrying both kilometers and price-per-km with a
// consistent total, and a non-fuel ticket carrying neither.
func (t Ticket) Validate() error {
	if !t.Type.Valid() {
		return &ValidationError{Field: "tipus", Reason: "unknown ticket type: " + string(t.Type)}
	}
	if !t.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown status: " + string(t.Status)}
	}
	if t.Type == TypeFuel {
		if t.Kilometers == nil || t.PricePerKm == nil {
			return &ValidationError{Field: "kilometers", Reason: "fuel tickets require kilometers and price per km"}
		}
		want := t.Kilometers.Mul(*t.PricePerKm)
		// The remote API stores totals with two decimal places.
		if !t.Total.Round(2).Equal(want.Round(2)) {
			return &ValidationError{Field: "total", Reason: "total does not match kilometers * price per km"}
		}
		return nil
	}
	if t.Kilometers != nil || t.PricePerKm != nil {
		return &ValidationError{Field: "kilometers", Reason: "only fuel tickets carry kilometers and price per km"}
	}
	if !t.Total.IsPositive() {
		return &ValidationError{Field: "total", Reason: "a positive total is required"}
	}
	return nil
}

// TicketFilter narrows ticket listings. Zero values match everything.
type TicketFilter struct {
	Status    TicketStatus
	CreatedBy string
	Project   string
}

// Matches reports whether the ticket passes every set filter field.
func (f TicketFilter) Matches(t Ticket) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.CreatedBy != "" && t.CreatedBy != f.CreatedBy {
		return false
	}
	if f.Project != "" && t.Project != f.Project {
		return false
	}
	return true
}

// TicketStats is the global status breakdown over a ticket collection.
type TicketStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Validated int `json:"validated"`
	Paid      int `json:"paid"`
	Rejected  int `json:"rejected"`
}
