// Package dashboard derives the dashboard metrics from the ticket
// collection. Compute is a pure function recomputed on every call: at the
// data volumes involved, correctness beats caching.
package dashboard

import (
	"math"
	"sort"

	"gestiogastos/internal/model"

	"github.com/shopspring/decimal"
)

// RecentTicketLimit caps the recent-tickets list shown on the dashboard.
const RecentTicketLimit = 5

// Metrics is the derived dashboard view-model for one user.
type Metrics struct {
	// MyTickets are the current user's tickets, collection order preserved.
	MyTickets []model.Ticket
	// PendingCount and PendingTotal cover tickets still awaiting payment
	// (status pending or validated).
	PendingCount int
	PendingTotal decimal.Decimal
	// PaidPercentage is round(100 * paid / len(MyTickets)), 0 when the user
	// has no tickets.
	PaidPercentage int
	// RecentTickets are MyTickets ordered by date descending, truncated to
	// RecentTicketLimit.
	RecentTickets []model.Ticket
}

// Compute derives the metrics for the given user over the full ticket
// collection. The input slice is never modified.
func Compute(tickets []model.Ticket, user model.User) Metrics {
	m := Metrics{PendingTotal: decimal.Zero}

	for i := range tickets {
		if tickets[i].CreatedBy != user.Email {
			continue
		}
		m.MyTickets = append(m.MyTickets, tickets[i].Clone())
	}

	paid := 0
	for i := range m.MyTickets {
		switch m.MyTickets[i].Status {
		case model.StatusPending, model.StatusValidated:
			m.PendingCount++
			m.PendingTotal = m.PendingTotal.Add(m.MyTickets[i].Total)
		case model.StatusPaid:
			paid++
		}
	}

	if len(m.MyTickets) > 0 {
		m.PaidPercentage = int(math.Round(100 * float64(paid) / float64(len(m.MyTickets))))
	}

	recent := make([]model.Ticket, len(m.MyTickets))
	copy(recent, m.MyTickets)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > RecentTicketLimit {
		recent = recent[:RecentTicketLimit]
	}
	m.RecentTickets = recent

	return m
}

// Stats returns the global status breakdown over the whole collection, as
// shown on the manage-tickets and accounting views.
func Stats(tickets []model.Ticket) model.TicketStats {
	s := model.TicketStats{Total: len(tickets)}
	for i := range tickets {
		switch tickets[i].Status {
		case model.StatusPending:
			s.Pending++
		case model.StatusValidated:
			s.Validated++
		case model.StatusPaid:
			s.Paid++
		case model.StatusRejected:
			s.Rejected++
		}
	}
	return s
}
