package test

import (
	"context"
	"sync"

	"github.com/mealflow/mealflow/internal/domain/model"
)

// ReconciliationFacadeStub mimics reconciliation interactions with the facade.
type ReconciliationFacadeStub struct {
	PaymentTimeoutsFn     func(context.Context) ([]model.Order, error)
	CancelTimedOutFn      func(context.Context, []model.Order) error
	UnsettledDeliveriesFn func(context.Context) ([]model.Order, error)
	SettleDeliveriesFn    func(context.Context, []model.Order) error

	mu        sync.Mutex
	Cancelled [][]model.Order
	Settled   [][]model.Order
}

// Lock exposes internal mutex for external synchronization.
func (s *ReconciliationFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *ReconciliationFacadeStub) Unlock() { s.mu.Unlock() }

// PaymentTimeouts returns the configured stale unpaid orders.
func (s *ReconciliationFacadeStub) PaymentTimeouts(ctx context.Context) ([]model.Order, error) {
	if s.PaymentTimeoutsFn != nil {
		return s.PaymentTimeoutsFn(ctx)
	}
	return nil, nil
}

// CancelTimedOut records cancellation batches.
func (s *ReconciliationFacadeStub) CancelTimedOut(ctx context.Context, orders []model.Order) error {
	if s.CancelTimedOutFn != nil {
		return s.CancelTimedOutFn(ctx, orders)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cancelled = append(s.Cancelled, orders)
	return nil
}

// UnsettledDeliveries returns the configured in-transit orders.
func (s *ReconciliationFacadeStub) UnsettledDeliveries(ctx context.Context) ([]model.Order, error) {
	if s.UnsettledDeliveriesFn != nil {
		return s.UnsettledDeliveriesFn(ctx)
	}
	return nil, nil
}

// SettleDeliveries records settlement batches.
func (s *ReconciliationFacadeStub) SettleDeliveries(ctx context.Context, orders []model.Order) error {
	if s.SettleDeliveriesFn != nil {
		return s.SettleDeliveriesFn(ctx, orders)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Settled = append(s.Settled, orders)
	return nil
}

// NotificationSinkStub records broadcast notifications.
type NotificationSinkStub struct {
	mu   sync.Mutex
	Sent []model.Notification
}

// Broadcast stores the notification for later inspection.
func (s *NotificationSinkStub) Broadcast(n model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, n)
}

// Notifications returns a copy of everything broadcast so far.
func (s *NotificationSinkStub) Notifications() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Notification, len(s.Sent))
	copy(out, s.Sent)
	return out
}
