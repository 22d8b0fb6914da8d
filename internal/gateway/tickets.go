package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"gestiogastos/internal/model"

	"github.com/shopspring/decimal"
)

// ticketPayload is the ticket record as the remote API serializes it.
type ticketPayload struct {
	ID              int64            `json:"id"`
	Date            string           `json:"date"`
	Tipus           string           `json:"tipus"`
	Description     string           `json:"description"`
	Project         string           `json:"project"`
	Total           decimal.Decimal  `json:"total"`
	Kilometers      *decimal.Decimal `json:"kilometers"`
	PricePerKm      *decimal.Decimal `json:"price_per_km"`
	Image           *string          `json:"image"`
	Status          string           `json:"status"`
	CreatedBy       string           `json:"created_by"`
	ValidatedBy     *string          `json:"validated_by"`
	PaidBy          *string          `json:"paid_by"`
	RejectedBy      *string          `json:"rejected_by"`
	RejectionReason *string          `json:"rejection_reason"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

// createTicketPayload is the body of POST /tickets. The API accepts a list
// of type labels; this client always sends exactly one.
type createTicketPayload struct {
	Tipus       []string         `json:"tipus"`
	Description string           `json:"description"`
	Project     string           `json:"project"`
	Total       *decimal.Decimal `json:"total,omitempty"`
	Kilometers  *decimal.Decimal `json:"kilometers,omitempty"`
	PricePerKm  *decimal.Decimal `json:"price_per_km,omitempty"`
}

type statusPayload struct {
	Status string `json:"status"`
}

type actionPayload struct {
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
}

type pendingAmountResponse struct {
	PendingAmount decimal.Decimal `json:"pending_amount"`
	User          string          `json:"user"`
}

const wireDateLayout = "2006-01-02"

// parseTimestamp accepts the isoformat variants the API emits, with or
// without a zone offset.
func parseTimestamp(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", wireDateLayout} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (p ticketPayload) toModel() model.Ticket {
	t := model.Ticket{
		ID:              p.ID,
		Date:            parseTimestamp(p.Date),
		Type:            model.TicketType(p.Tipus),
		Description:     p.Description,
		Project:         p.Project,
		Total:           p.Total,
		Kilometers:      p.Kilometers,
		PricePerKm:      p.PricePerKm,
		Image:           deref(p.Image),
		Status:          model.TicketStatus(p.Status),
		CreatedBy:       p.CreatedBy,
		ValidatedBy:     deref(p.ValidatedBy),
		PaidBy:          deref(p.PaidBy),
		RejectedBy:      deref(p.RejectedBy),
		RejectionReason: deref(p.RejectionReason),
		CreatedAt:       parseTimestamp(p.CreatedAt),
		UpdatedAt:       parseTimestamp(p.UpdatedAt),
	}
	return t
}

// ListTickets fetches GET /tickets with the filter mapped to query
// parameters. The server already scopes results to the caller's role.
func (c *Client) ListTickets(ctx context.Context, filter model.TicketFilter) ([]model.Ticket, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.CreatedBy != "" {
		query.Set("user", filter.CreatedBy)
	}
	if filter.Project != "" {
		query.Set("project", filter.Project)
	}

	var payload []ticketPayload
	if err := c.do(ctx, http.MethodGet, "/tickets", query, nil, &payload); err != nil {
		return nil, err
	}
	tickets := make([]model.Ticket, 0, len(payload))
	for _, p := range payload {
		tickets = append(tickets, p.toModel())
	}
	return tickets, nil
}

// GetTicket fetches a single ticket by id.
func (c *Client) GetTicket(ctx context.Context, id int64) (model.Ticket, error) {
	var payload ticketPayload
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tickets/%d", id), nil, nil, &payload); err != nil {
		return model.Ticket{}, err
	}
	return payload.toModel(), nil
}

// CreateTicket submits a new ticket and returns the server-assigned record.
func (c *Client) CreateTicket(ctx context.Context, t model.Ticket) (model.Ticket, error) {
	body := createTicketPayload{
		Tipus:       []string{string(t.Type)},
		Description: t.Description,
		Project:     t.Project,
		Kilometers:  t.Kilometers,
		PricePerKm:  t.PricePerKm,
	}
	if t.Type != model.TypeFuel {
		total := t.Total
		body.Total = &total
	}

	var payload ticketPayload
	if err := c.do(ctx, http.MethodPost, "/tickets", nil, body, &payload); err != nil {
		return model.Ticket{}, err
	}
	return payload.toModel(), nil
}

// UpdateTicket replaces a ticket's editable fields via PUT /tickets/:id.
func (c *Client) UpdateTicket(ctx context.Context, t model.Ticket) (model.Ticket, error) {
	body := createTicketPayload{
		Tipus:       []string{string(t.Type)},
		Description: t.Description,
		Project:     t.Project,
		Kilometers:  t.Kilometers,
		PricePerKm:  t.PricePerKm,
	}
	if t.Type != model.TypeFuel {
		total := t.Total
		body.Total = &total
	}

	var payload ticketPayload
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tickets/%d", t.ID), nil, body, &payload); err != nil {
		return model.Ticket{}, err
	}
	return payload.toModel(), nil
}

// DeleteTicket removes a ticket. The server only allows deleting pending
// tickets owned by the caller (or by an admin).
func (c *Client) DeleteTicket(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tickets/%d", id), nil, nil, nil)
}

// UpdateTicketStatus applies a status change via PATCH /tickets/:id/status.
func (c *Client) UpdateTicketStatus(ctx context.Context, id int64, status model.TicketStatus) (model.Ticket, error) {
	var payload ticketPayload
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/tickets/%d/status", id), nil, statusPayload{Status: string(status)}, &payload); err != nil {
		return model.Ticket{}, err
	}
	return payload.toModel(), nil
}

// RejectTicket uses the action endpoint, which is the only status call that
// carries a rejection reason.
func (c *Client) RejectTicket(ctx context.Context, id int64, reason string) (model.Ticket, error) {
	var payload ticketPayload
	body := actionPayload{Action: "reject", Reason: reason}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tickets/%d/action", id), nil, body, &payload); err != nil {
		return model.Ticket{}, err
	}
	return payload.toModel(), nil
}

// PendingAmount fetches the server-computed pending-payment balance of the
// current user.
func (c *Client) PendingAmount(ctx context.Context) (decimal.Decimal, error) {
	var body pendingAmountResponse
	if err := c.do(ctx, http.MethodGet, "/tickets/pending-amount", nil, nil, &body); err != nil {
		return decimal.Zero, err
	}
	return body.PendingAmount, nil
}

// Stats fetches the global ticket status breakdown.
func (c *Client) Stats(ctx context.Context) (model.TicketStats, error) {
	var stats model.TicketStats
	if err := c.do(ctx, http.MethodGet, "/tickets/stats", nil, nil, &stats); err != nil {
		return model.TicketStats{}, err
	}
	return stats, nil
}
