package usecase

import (
	"context"
	"time"

	"github.com/mealflow/mealflow/internal/domain/model"
)

// The reconciliation sweeps are split into pure selection functions and
// separate batch-apply functions; the scheduler composes them. Each pass is
// idempotent: the apply re-checks the selection predicate row by row, and an
// empty selection is a correct no-op.

// PaymentTimeouts returns unpaid orders whose orderTime is older than the
// configured unpaid-order window.
func (u *OrderUseCase) PaymentTimeouts(ctx context.Context) ([]model.Order, error) {
	unpaid := model.PayStatusUnpaid
	cutoff := u.now().Add(-u.unpaidTimeout)
	return u.orders.ListStale(ctx, model.OrderStatusPendingPayment, &unpaid, cutoff)
}

// CancelTimedOut cancels the given orders in one batch write, recording the
// timeout reason. Each write is gated on the order still being unpaid and
// pending payment: a payment that lands between selection and apply keeps
// the order.
func (u *OrderUseCase) CancelTimedOut(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	now := u.now()
	pending := model.OrderStatusPendingPayment
	unpaid := model.PayStatusUnpaid
	status := model.OrderStatusCancelled
	reason := cancelReasonTimeout

	updates := make([]model.OrderUpdate, 0, len(orders))
	for _, o := range orders {
		updates = append(updates, model.OrderUpdate{
			ID:                o.ID,
			ExpectedStatus:    &pending,
			ExpectedPayStatus: &unpaid,
			Patch: model.OrderPatch{
				Status:       &status,
				CancelReason: &reason,
				CancelTime:   &now,
			},
		})
	}
	return u.orders.UpdateBatch(ctx, updates)
}

// UnsettledDeliveries returns orders still marked in transit that were placed
// before the start of the current day.
func (u *OrderUseCase) UnsettledDeliveries(ctx context.Context) ([]model.Order, error) {
	now := u.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return u.orders.ListStale(ctx, model.OrderStatusDeliveryInProgress, nil, startOfDay)
}

// SettleDeliveries completes the given in-transit orders. A delivery time
// that was already recorded, e.g. set manually, is preserved.
func (u *OrderUseCase) SettleDeliveries(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	now := u.now()
	inTransit := model.OrderStatusDeliveryInProgress
	status := model.OrderStatusCompleted

	updates := make([]model.OrderUpdate, 0, len(orders))
	for _, o := range orders {
		patch := model.OrderPatch{Status: &status}
		if o.DeliveryTime == nil {
			patch.DeliveryTime = &now
		}
		updates = append(updates, model.OrderUpdate{ID: o.ID, ExpectedStatus: &inTransit, Patch: patch})
	}
	return u.orders.UpdateBatch(ctx, updates)
}
