// Package store holds the in-memory ticket collection. It is the sole owner
// of local ticket records: every read hands out copies, and every write
// replaces a record wholesale, so a failed operation never leaves a record
// half-updated.
package store

import (
	"sync"

	"gestiogastos/internal/model"
)

// TicketStore is the ordered in-memory collection of ticket records.
type TicketStore interface {
	// Create assigns the next local identifier, stamps the ticket as pending
	// and appends it to the collection. Returns the stored record.
	Create(t model.Ticket) model.Ticket
	// GetByID returns a copy of the record, or model.ErrNotFound.
	GetByID(id int64) (model.Ticket, error)
	// List returns copies of all records matching the filter,
	// creation-order preserved.
	List(filter model.TicketFilter) []model.Ticket
	// Replace swaps the record with the given ID for the new one, as a
	// single atomic replace-or-nothing. Returns model.ErrNotFound when the
	// record does not exist.
	Replace(t model.Ticket) error
	// Upsert replaces the record if it exists or appends it otherwise,
	// keeping server-assigned IDs intact during syncs.
	Upsert(t model.Ticket)
	// Delete removes the record, or returns model.ErrNotFound.
	Delete(id int64) error
	// ReplaceAll swaps the whole collection for the given records, in order.
	ReplaceAll(tickets []model.Ticket)
	// Len returns the number of records held.
	Len() int
}

type ticketStore struct {
	mu      sync.RWMutex
	tickets []model.Ticket
	nextID  int64
}

// NewTicketStore returns an empty TicketStore.
func NewTicketStore() TicketStore {
	return &ticketStore{nextID: 1}
}

func (s *ticketStore) Create(t model.Ticket) model.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextID
	s.nextID++
	if t.Status == "" {
		t.Status = model.StatusPending
	}
	s.tickets = append(s.tickets, t.Clone())
	return t
}

func (s *ticketStore) GetByID(id int64) (model.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.tickets {
		if s.tickets[i].ID == id {
			return s.tickets[i].Clone(), nil
		}
	}
	return model.Ticket{}, model.ErrNotFound
}

func (s *ticketStore) List(filter model.TicketFilter) []model.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Ticket, 0, len(s.tickets))
	for i := range s.tickets {
		if filter.Matches(s.tickets[i]) {
			out = append(out, s.tickets[i].Clone())
		}
	}
	return out
}

func (s *ticketStore) Replace(t model.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tickets {
		if s.tickets[i].ID == t.ID {
			s.tickets[i] = t.Clone()
			return nil
		}
	}
	return model.ErrNotFound
}

func (s *ticketStore) Upsert(t model.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tickets {
		if s.tickets[i].ID == t.ID {
			s.tickets[i] = t.Clone()
			return
		}
	}
	s.tickets = append(s.tickets, t.Clone())
	if t.ID >= s.nextID {
		s.nextID = t.ID + 1
	}
}

func (s *ticketStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tickets {
		if s.tickets[i].ID == id {
			s.tickets = append(s.tickets[:i], s.tickets[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

func (s *ticketStore) ReplaceAll(tickets []model.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickets = make([]model.Ticket, 0, len(tickets))
	maxID := int64(0)
	for i := range tickets {
		s.tickets = append(s.tickets, tickets[i].Clone())
		if tickets[i].ID > maxID {
			maxID = tickets[i].ID
		}
	}
	s.nextID = maxID + 1
}

func (s *ticketStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tickets)
}
