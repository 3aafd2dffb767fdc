package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/entity"
)

// stubStore is a scriptable in-memory Store.
type stubStore struct {
	user     entity.User
	invoices []entity.Invoice

	signInErr error
	listErr   error
	createErr error
	updateErr error
	deleteErr error

	updates []entity.PaymentStatus
	deleted []string
}

func (s *stubStore) SignIn(ctx context.Context, email, password string) (entity.User, error) {
	if s.signInErr != nil {
		return entity.User{}, s.signInErr
	}
	return s.user, nil
}

func (s *stubStore) ListInvoices(ctx context.Context, token string) ([]entity.Invoice, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]entity.Invoice, len(s.invoices))
	copy(out, s.invoices)
	return out, nil
}

func (s *stubStore) CreateInvoice(ctx context.Context, user entity.User, inv entity.Invoice) (entity.Invoice, error) {
	if s.createErr != nil {
		return entity.Invoice{}, s.createErr
	}
	inv.ID = uuid.New().String()
	inv.TempID = ""
	inv.UploaderEmail = user.Email
	return inv, nil
}

func (s *stubStore) UpdatePaymentStatus(ctx context.Context, token, id string, status entity.PaymentStatus) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates = append(s.updates, status)
	return nil
}

func (s *stubStore) DeleteInvoices(ctx context.Context, token string, ids ...string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, ids...)
	return nil
}

func loggedInSession(t *testing.T, st *stubStore) *Session {
	t.Helper()
	s := New(st, nil)
	require.NoError(t, s.Login(context.Background(), "a@b.co", "secret"))
	return s
}

func TestLoginEnrichesUploader(t *testing.T) {
	st := &stubStore{
		user: entity.User{ID: "u-1", Email: "a@b.co", Company: "Acme", Token: "tok"},
		invoices: []entity.Invoice{
			{ID: "i-1", UploaderEmail: "other@b.co"},
			{ID: "i-2"},
		},
	}
	s := loggedInSession(t, st)

	invoices := s.Invoices()
	require.Len(t, invoices, 2)
	assert.Equal(t, "other@b.co", invoices[0].UploaderEmail)
	assert.Equal(t, "a@b.co", invoices[1].UploaderEmail)
	assert.Equal(t, "Acme", invoices[1].UploaderCompany)
	assert.Equal(t, "u-1", s.User().ID)
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	st := &stubStore{signInErr: errors.New("invalid credentials")}
	s := New(st, nil)
	require.Error(t, s.Login(context.Background(), "a@b.co", "wrong"))
	assert.Empty(t, s.User().ID)
	assert.Empty(t, s.Invoices())
}

func TestPendingLifecycle(t *testing.T) {
	st := &stubStore{user: entity.User{ID: "u-1", Token: "tok"}}
	s := loggedInSession(t, st)

	pending := s.SetPending(entity.Invoice{InvoiceNumber: "INV-1", InvoiceDate: "2024-03-15"})
	assert.Empty(t, pending.ID)
	assert.NotEmpty(t, pending.TempID)

	got, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, pending.TempID, got.TempID)

	saved, err := s.ConfirmPending(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Empty(t, saved.TempID)

	_, ok = s.Pending()
	assert.False(t, ok)

	invoices := s.Invoices()
	require.Len(t, invoices, 1)
	assert.Equal(t, saved.ID, invoices[0].ID)
}

func TestConfirmPendingWithoutPending(t *testing.T) {
	st := &stubStore{user: entity.User{Token: "tok"}}
	s := loggedInSession(t, st)
	_, err := s.ConfirmPending(context.Background())
	require.Error(t, err)
}

func TestDiscardPending(t *testing.T) {
	st := &stubStore{user: entity.User{Token: "tok"}}
	s := loggedInSession(t, st)
	s.SetPending(entity.Invoice{InvoiceNumber: "INV-1"})
	s.DiscardPending()
	_, ok := s.Pending()
	assert.False(t, ok)
	assert.Empty(t, s.Invoices())
}

func TestConfirmPendingFailureKeepsPending(t *testing.T) {
	st := &stubStore{user: entity.User{Token: "tok"}, createErr: errors.New("store down")}
	s := loggedInSession(t, st)
	s.SetPending(entity.Invoice{InvoiceNumber: "INV-1"})

	_, err := s.ConfirmPending(context.Background())
	require.Error(t, err)

	_, ok := s.Pending()
	assert.True(t, ok)
	assert.Empty(t, s.Invoices())
}

func TestAddInvoicePrepends(t *testing.T) {
	st := &stubStore{
		user:     entity.User{Email: "a@b.co", Token: "tok"},
		invoices: []entity.Invoice{{ID: "i-old", UploaderEmail: "a@b.co"}},
	}
	s := loggedInSession(t, st)

	saved, err := s.AddInvoice(context.Background(), entity.Invoice{InvoiceNumber: "INV-2"})
	require.NoError(t, err)

	invoices := s.Invoices()
	require.Len(t, invoices, 2)
	assert.Equal(t, saved.ID, invoices[0].ID)
	assert.Equal(t, "i-old", invoices[1].ID)
}

func TestTogglePaymentStatus(t *testing.T) {
	st := &stubStore{
		user:     entity.User{Token: "tok"},
		invoices: []entity.Invoice{{ID: "i-1", PaymentStatus: entity.PaymentStatusUnpaid}},
	}
	s := loggedInSession(t, st)

	status, err := s.TogglePaymentStatus(context.Background(), "i-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, status)
	assert.Equal(t, entity.PaymentStatusPaid, s.Invoices()[0].PaymentStatus)
	assert.Equal(t, []entity.PaymentStatus{entity.PaymentStatusPaid}, st.updates)
}

func TestTogglePaymentStatusRollsBack(t *testing.T) {
	st := &stubStore{
		user:      entity.User{Token: "tok"},
		invoices:  []entity.Invoice{{ID: "i-1", PaymentStatus: entity.PaymentStatusUnpaid}},
		updateErr: errors.New("store down"),
	}
	s := loggedInSession(t, st)

	status, err := s.TogglePaymentStatus(context.Background(), "i-1")
	require.Error(t, err)
	assert.Equal(t, entity.PaymentStatusUnpaid, status)
	assert.Equal(t, entity.PaymentStatusUnpaid, s.Invoices()[0].PaymentStatus)
}

func TestTogglePaymentStatusUnknownID(t *testing.T) {
	st := &stubStore{user: entity.User{Token: "tok"}}
	s := loggedInSession(t, st)
	_, err := s.TogglePaymentStatus(context.Background(), "ghost")
	require.Error(t, err)
}

func TestDeleteRemovesAfterStoreSuccess(t *testing.T) {
	st := &stubStore{
		user: entity.User{Token: "tok"},
		invoices: []entity.Invoice{
			{ID: "i-1"}, {ID: "i-2"}, {ID: "i-3"},
		},
	}
	s := loggedInSession(t, st)

	require.NoError(t, s.Delete(context.Background(), "i-1", "i-3"))
	invoices := s.Invoices()
	require.Len(t, invoices, 1)
	assert.Equal(t, "i-2", invoices[0].ID)
	assert.Equal(t, []string{"i-1", "i-3"}, st.deleted)
}

func TestDeleteFailureKeepsCollection(t *testing.T) {
	st := &stubStore{
		user:      entity.User{Token: "tok"},
		invoices:  []entity.Invoice{{ID: "i-1"}},
		deleteErr: errors.New("store down"),
	}
	s := loggedInSession(t, st)

	require.Error(t, s.Delete(context.Background(), "i-1"))
	assert.Len(t, s.Invoices(), 1)
}

func TestLogout(t *testing.T) {
	st := &stubStore{user: entity.User{ID: "u-1", Token: "tok"}, invoices: []entity.Invoice{{ID: "i-1"}}}
	s := loggedInSession(t, st)
	s.Logout()
	assert.Empty(t, s.User().ID)
	assert.Empty(t, s.Invoices())
}
