package service

import (
	"context"
	"fmt"
	"time"

	"gestiogastos/internal/config"
	"gestiogastos/internal/model"
	"gestiogastos/internal/store"
	"gestiogastos/internal/workflow"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateTicketRequest is the payload for a new expense ticket. Fuel tickets
// carry kilometers and price-per-km and have their total computed; all
// other types carry a positive total and no kilometer fields.
type CreateTicketRequest struct {
	Date        time.Time        `validate:"-"`
	Type        model.TicketType `validate:"required"`
	Description string           `validate:"required"`
	Project     string           `validate:"required"`
	Total       decimal.Decimal  `validate:"-"`
	Kilometers  *decimal.Decimal `validate:"-"`
	PricePerKm  *decimal.Decimal `validate:"-"`
	// PhotoAttached marks that the caller has a receipt photo ready to
	// upload. Some ticket types require one (site config).
	PhotoAttached bool `validate:"-"`
}

// Reconciliation compares the two sources of the pending-payment balance:
// the locally derived sum over the ticket store and the server-computed
// aggregate. The server value is authoritative for display; a drift is
// surfaced, never silently patched.
type Reconciliation struct {
	Local  decimal.Decimal
	Server decimal.Decimal
	InSync bool
}

// TicketGateway is the slice of the remote API the ticket service consumes.
type TicketGateway interface {
	ListTickets(ctx context.Context, filter model.TicketFilter) ([]model.Ticket, error)
	CreateTicket(ctx context.Context, t model.Ticket) (model.Ticket, error)
	DeleteTicket(ctx context.Context, id int64) error
	UpdateTicketStatus(ctx context.Context, id int64, status model.TicketStatus) (model.Ticket, error)
	RejectTicket(ctx context.Context, id int64, reason string) (model.Ticket, error)
	PendingAmount(ctx context.Context) (decimal.Decimal, error)
}

// TicketService holds the ticket business rules on top of the local store
// and the remote gateway.
type TicketService interface {
	Create(ctx context.Context, actor model.User, req CreateTicketRequest) (model.Ticket, error)
	List(actor model.User, filter model.TicketFilter) []model.Ticket
	Delete(ctx context.Context, actor model.User, id int64) error
	ApplyTransition(ctx context.Context, actor model.User, id int64, newStatus model.TicketStatus, reason string) (model.Ticket, error)
	Sync(ctx context.Context) error
	LocalPendingAmount(email string) decimal.Decimal
	ReconcilePendingAmount(ctx context.Context, actor model.User) (Reconciliation, error)
}

type ticketService struct {
	store    store.TicketStore
	gateway  TicketGateway
	rules    *workflow.Rules
	site     config.SiteConfig
	validate *validator.Validate
	log      *zap.Logger
}

// NewTicketService wires the ticket rules. A nil site config falls back to
// the built-in defaults.
func NewTicketService(st store.TicketStore, gw TicketGateway, rules *workflow.Rules, site config.SiteConfig, log *zap.Logger) TicketService {
	if site == nil {
		site = config.DefaultSiteConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ticketService{
		store:    st,
		gateway:  gw,
		rules:    rules,
		site:     site,
		validate: validator.New(),
		log:      log,
	}
}

// validateCreate applies the payload rules: required fields, the fuel
// kilometer invariant, a positive total for other types, and the
// photo-requirement from site config. Rejected payloads never reach the
// remote service.
func (s *ticketService) validateCreate(req CreateTicketRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return &model.ValidationError{Reason: err.Error()}
	}
	if !req.Type.Valid() {
		return &model.ValidationError{Field: "tipus", Reason: fmt.Sprintf("unknown ticket type %q", req.Type)}
	}
	if req.Type == model.TypeFuel {
		if req.Kilometers == nil || req.PricePerKm == nil {
			return &model.ValidationError{Field: "kilometers", Reason: "fuel tickets require kilometers and price per km"}
		}
		if !req.Kilometers.IsPositive() || !req.PricePerKm.IsPositive() {
			return &model.ValidationError{Field: "kilometers", Reason: "kilometers and price per km must be positive"}
		}
	} else {
		if req.Kilometers != nil || req.PricePerKm != nil {
			return &model.ValidationError{Field: "kilometers", Reason: "only fuel tickets carry kilometers and price per km"}
		}
		if !req.Total.IsPositive() {
			return &model.ValidationError{Field: "total", Reason: "a positive total is required"}
		}
	}
	if s.site.PhotoRequired(req.Type) && !req.PhotoAttached {
		return &model.ValidationError{Field: "image", Reason: fmt.Sprintf("a photo is required for %s tickets", req.Type)}
	}
	return nil
}

func (s *ticketService) Create(ctx context.Context, actor model.User, req CreateTicketRequest) (model.Ticket, error) {
	if err := s.validateCreate(req); err != nil {
		return model.Ticket{}, err
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC().Truncate(24 * time.Hour)
	}

	ticket := model.Ticket{
		Date:        date,
		Type:        req.Type,
		Description: req.Description,
		Project:     req.Project,
		Total:       req.Total,
		Kilometers:  req.Kilometers,
		PricePerKm:  req.PricePerKm,
		Status:      model.StatusPending,
		CreatedBy:   actor.Email,
	}
	if req.Type == model.TypeFuel {
		ticket.Total = req.Kilometers.Mul(*req.PricePerKm).Round(2)
	}
	if err := ticket.Validate(); err != nil {
		return model.Ticket{}, err
	}

	created, err := s.gateway.CreateTicket(ctx, ticket)
	if err != nil {
		return model.Ticket{}, err
	}
	s.store.Upsert(created)
	s.log.Info("ticket created",
		zap.Int64("id", created.ID),
		zap.String("type", string(created.Type)),
		zap.String("total", created.Total.StringFixed(2)))
	return created, nil
}

// List returns tickets from the local store, scoped by role: operari only
// ever sees their own tickets, every other role sees the whole collection.
func (s *ticketService) List(actor model.User, filter model.TicketFilter) []model.Ticket {
	if actor.Role == model.RoleOperari {
		filter.CreatedBy = actor.Email
	}
	return s.store.List(filter)
}

// Delete removes a ticket. Only pending tickets can go, and only their
// creator or an admin may remove them. The local record is dropped only
// after the remote delete succeeds.
func (s *ticketService) Delete(ctx context.Context, actor model.User, id int64) error {
	ticket, err := s.store.GetByID(id)
	if err != nil {
		return err
	}
	if ticket.CreatedBy != actor.Email && actor.Role != model.RoleAdmin {
		return fmt.Errorf("%w: only the creator or an admin may delete a ticket", model.ErrUnauthorized)
	}
	if ticket.Status != model.StatusPending {
		return fmt.Errorf("%w: only pending tickets can be deleted", model.ErrInvalidTransition)
	}
	if err := s.gateway.DeleteTicket(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(id)
}

// ApplyTransition runs the local transition rules first, so an unauthorized
// or unreachable change is refused before any network call, then pushes the
// change to the server and replaces the local record wholesale with the
// server's response.
func (s *ticketService) ApplyTransition(ctx context.Context, actor model.User, id int64, newStatus model.TicketStatus, reason string) (model.Ticket, error) {
	ticket, err := s.store.GetByID(id)
	if err != nil {
		return model.Ticket{}, err
	}

	if _, err := s.rules.Transition(ticket, newStatus, workflow.Actor{Email: actor.Email, Role: actor.Role}, reason); err != nil {
		return model.Ticket{}, err
	}

	var updated model.Ticket
	if newStatus == model.StatusRejected {
		updated, err = s.gateway.RejectTicket(ctx, id, reason)
	} else {
		updated, err = s.gateway.UpdateTicketStatus(ctx, id, newStatus)
	}
	if err != nil {
		return model.Ticket{}, err
	}

	if err := s.store.Replace(updated); err != nil {
		return model.Ticket{}, err
	}
	s.log.Info("ticket transitioned",
		zap.Int64("id", id),
		zap.String("from", string(ticket.Status)),
		zap.String("to", string(newStatus)),
		zap.String("actor", actor.Email))
	return updated, nil
}

// Sync replaces the local collection with the server's current listing.
func (s *ticketService) Sync(ctx context.Context) error {
	tickets, err := s.gateway.ListTickets(ctx, model.TicketFilter{})
	if err != nil {
		return err
	}
	s.store.ReplaceAll(tickets)
	return nil
}

// LocalPendingAmount derives the pending balance from the store: the sum of
// the user's tickets that are neither paid nor rejected.
func (s *ticketService) LocalPendingAmount(email string) decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.store.List(model.TicketFilter{CreatedBy: email}) {
		if t.Status == model.StatusPending || t.Status == model.StatusValidated {
			total = total.Add(t.Total)
		}
	}
	return total
}

// ReconcilePendingAmount fetches the server balance and compares it with
// the local derivation. Which one is authoritative is a product decision
// made upstream: callers display Server and may warn on drift.
func (s *ticketService) ReconcilePendingAmount(ctx context.Context, actor model.User) (Reconciliation, error) {
	server, err := s.gateway.PendingAmount(ctx)
	if err != nil {
		return Reconciliation{}, err
	}
	local := s.LocalPendingAmount(actor.Email)
	rec := Reconciliation{Local: local, Server: server, InSync: local.Equal(server)}
	if !rec.InSync {
		s.log.Warn("pending amount drift",
			zap.String("user", actor.Email),
			zap.String("local", local.StringFixed(2)),
			zap.String("server", server.StringFixed(2)))
	}
	return rec, nil
}
