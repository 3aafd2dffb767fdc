// Package session holds the authenticated identity, the in-memory invoice
// collection and the pending-review slot, and applies optimistic updates
// through a single state-transition function.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/entity"
)

// Store is the slice of the record store the session depends on.
type Store interface {
	SignIn(ctx context.Context, email, password string) (entity.User, error)
	ListInvoices(ctx context.Context, token string) ([]entity.Invoice, error)
	CreateInvoice(ctx context.Context, user entity.User, inv entity.Invoice) (entity.Invoice, error)
	UpdatePaymentStatus(ctx context.Context, token, id string, status entity.PaymentStatus) error
	DeleteInvoices(ctx context.Context, token string, ids ...string) error
}

type Session struct {
	store  Store
	logger *slog.Logger

	mu       sync.Mutex
	user     entity.User
	invoices []entity.Invoice
	pending  *entity.Invoice
}

func New(store Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{store: store, logger: logger}
}

// Login authenticates and loads the full invoice collection for that
// identity. Records missing an uploader identity are tagged with the
// session user's for display; this enrichment is never persisted.
func (s *Session) Login(ctx context.Context, email, password string) error {
	user, err := s.store.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	invoices, err := s.store.ListInvoices(ctx, user.Token)
	if err != nil {
		return err
	}
	for i := range invoices {
		if invoices[i].UploaderEmail == "" {
			invoices[i].UploaderEmail = user.Email
			invoices[i].UploaderCompany = user.Company
		}
	}

	s.mu.Lock()
	s.user = user
	s.invoices = invoices
	s.pending = nil
	s.mu.Unlock()

	s.logger.Info("session.login.ok", "user_id", user.ID, "invoices", len(invoices))
	return nil
}

// Logout discards the in-memory identity and collection.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = entity.User{}
	s.invoices = nil
	s.pending = nil
}

func (s *Session) User() entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Invoices returns a copy of the current collection.
func (s *Session) Invoices() []entity.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Invoice, len(s.invoices))
	copy(out, s.invoices)
	return out
}

// SetPending parks a freshly extracted invoice in the review slot under a
// client-only temporary identifier.
func (s *Session) SetPending(inv entity.Invoice) entity.Invoice {
	inv.ID = ""
	inv.TempID = uuid.New().String()
	s.mu.Lock()
	s.pending = &inv
	s.mu.Unlock()
	return inv
}

// Pending returns a copy of the invoice awaiting review, if any.
func (s *Session) Pending() (entity.Invoice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return entity.Invoice{}, false
	}
	return *s.pending, true
}

// DiscardPending drops the review slot without persisting.
func (s *Session) DiscardPending() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

// ConfirmPending persists the reviewed invoice and merges it into the
// collection. The merge is optimistic: no re-fetch, the new record is
// prepended as-is.
func (s *Session) ConfirmPending(ctx context.Context) (entity.Invoice, error) {
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return entity.Invoice{}, fmt.Errorf("no invoice is pending review")
	}
	inv := *s.pending
	user := s.user
	s.mu.Unlock()

	saved, err := s.store.CreateInvoice(ctx, user, inv)
	if err != nil {
		return entity.Invoice{}, err
	}

	s.mu.Lock()
	s.pending = nil
	s.invoices = append([]entity.Invoice{saved}, s.invoices...)
	s.mu.Unlock()
	return saved, nil
}

// AddInvoice persists a manually entered invoice and prepends it.
func (s *Session) AddInvoice(ctx context.Context, inv entity.Invoice) (entity.Invoice, error) {
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()

	saved, err := s.store.CreateInvoice(ctx, user, inv)
	if err != nil {
		return entity.Invoice{}, err
	}

	s.mu.Lock()
	s.invoices = append([]entity.Invoice{saved}, s.invoices...)
	s.mu.Unlock()
	return saved, nil
}

// Delete removes invoices from the store, then from memory. On failure the
// records stay put.
func (s *Session) Delete(ctx context.Context, ids ...string) error {
	s.mu.Lock()
	token := s.user.Token
	s.mu.Unlock()

	if err := s.store.DeleteInvoices(ctx, token, ids...); err != nil {
		return err
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	s.mu.Lock()
	kept := s.invoices[:0]
	for _, inv := range s.invoices {
		if _, gone := drop[inv.ID]; !gone {
			kept = append(kept, inv)
		}
	}
	s.invoices = kept
	s.mu.Unlock()
	return nil
}
