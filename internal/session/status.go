package session

import (
	"context"
	"fmt"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/entity"
)

// statusEventKind enumerates the lifecycle of one optimistic status change.
type statusEventKind int

const (
	statusApply statusEventKind = iota
	statusCommit
	statusRollback
)

type statusEvent struct {
	kind statusEventKind
	id   string
	to   entity.PaymentStatus
}

// applyStatusEvent is the single transition function for optimistic status
// updates; every local mutation of payment status funnels through it.
func (s *Session) applyStatusEvent(ev statusEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch ev.kind {
	case statusApply, statusRollback:
		for i := range s.invoices {
			if s.invoices[i].ID == ev.id {
				s.invoices[i].PaymentStatus = ev.to
				break
			}
		}
	case statusCommit:
		// Local state already reflects the change; nothing to reconcile.
	}
}

// TogglePaymentStatus flips paid/unpaid locally first, then persists. On a
// persistence failure the local record is rolled back and the error is
// returned: local state never drifts silently from the store.
func (s *Session) TogglePaymentStatus(ctx context.Context, id string) (entity.PaymentStatus, error) {
	s.mu.Lock()
	var prev entity.PaymentStatus
	found := false
	for i := range s.invoices {
		if s.invoices[i].ID == id {
			prev = s.invoices[i].PaymentStatus
			found = true
			break
		}
	}
	token := s.user.Token
	s.mu.Unlock()

	if !found {
		return "", fmt.Errorf("invoice %s is not in the current collection", id)
	}

	next := prev.Toggle()
	s.applyStatusEvent(statusEvent{kind: statusApply, id: id, to: next})

	if err := s.store.UpdatePaymentStatus(ctx, token, id, next); err != nil {
		s.applyStatusEvent(statusEvent{kind: statusRollback, id: id, to: prev})
		s.logger.Warn("session.status.rolled_back", "invoice_id", id, "error", err)
		return prev, err
	}

	s.applyStatusEvent(statusEvent{kind: statusCommit, id: id, to: next})
	return next, nil
}
