package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/mealflow/mealflow/internal/domain/errors"
	"github.com/mealflow/mealflow/internal/domain/model"
)

// Cancellation reasons recorded by the engine itself.
const (
	cancelReasonUser    = "用户取消"
	cancelReasonTimeout = "支付超时，自动取消"
)

const orderNumberPrefix = "订单号："

// Pay marks the order as paid and hands it over to the merchant. Payment is a
// client-asserted state change; there is no gateway callback behind it.
func (u *OrderUseCase) Pay(ctx context.Context, userID int64, number string, payMethod int) error {
	order, err := u.orders.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrOrderNotFound
		}
		return err
	}
	if order.UserID != userID {
		return domainErrors.ErrOrderNotFound
	}
	if order.PayStatus == model.PayStatusPaid {
		return domainErrors.ErrOrderAlreadyPaid
	}
	if order.Status != model.OrderStatusPendingPayment {
		return domainErrors.ErrOrderStatusInvalid
	}

	now := u.now()
	status := model.OrderStatusToBeConfirmed
	payStatus := model.PayStatusPaid
	ok, err := u.orders.UpdateIfStatus(ctx, order.ID, model.OrderStatusPendingPayment, model.OrderPatch{
		Status:       &status,
		PayStatus:    &payStatus,
		PayMethod:    &payMethod,
		CheckoutTime: &now,
	})
	if err != nil {
		return err
	}
	if !ok {
		return domainErrors.ErrOrderStatusInvalid
	}

	u.notify(model.Notification{
		Type:    model.NotificationTypeNewOrder,
		OrderID: order.ID,
		Content: orderNumberPrefix + order.Number,
	})
	return nil
}

// Confirm is the merchant accepting the order. It intentionally carries no
// status guard: the merchant can force-confirm any order as a manual override.
// The write is a status-only patch, so a payment landing concurrently keeps
// its pay status and checkout time.
func (u *OrderUseCase) Confirm(ctx context.Context, orderID int64) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrOrderNotFound
		}
		return err
	}

	status := model.OrderStatusConfirmed
	return u.orders.UpdateBatch(ctx, []model.OrderUpdate{{
		ID:    order.ID,
		Patch: model.OrderPatch{Status: &status},
	}})
}

// Reject is the merchant declining an order that has not been confirmed yet.
// A paid order gets its payment marked as refunded.
func (u *OrderUseCase) Reject(ctx context.Context, orderID int64, reason string) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrOrderNotFound
		}
		return err
	}
	if order.Status != model.OrderStatusToBeConfirmed {
		return domainErrors.ErrOrderStatusInvalid
	}

	now := u.now()
	status := model.OrderStatusCancelled
	patch := model.OrderPatch{
		Status:          &status,
		RejectionReason: &reason,
		CancelTime:      &now,
	}
	if order.PayStatus == model.PayStatusPaid {
		refund := model.PayStatusRefund
		patch.PayStatus = &refund
	}

	ok, err := u.orders.UpdateIfStatus(ctx, order.ID, model.OrderStatusToBeConfirmed, patch)
	if err != nil {
		return err
	}
	if !ok {
		return domainErrors.ErrOrderStatusInvalid
	}
	return nil
}

// Cancel is the merchant-side cancellation. The write is still guarded on the
// status the order was read in, so a racing transition loses cleanly.
func (u *OrderUseCase) Cancel(ctx context.Context, orderID int64, reason string) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrOrderNotFound
		}
		return err
	}
	return u.cancelOrder(ctx, order, reason)
}

// CancelByUser cancels the consumer's own order. Only orders the merchant has
// not accepted yet can be cancelled this way.
func (u *OrderUseCase) CancelByUser(ctx context.Context, userID, orderID int64) error {
	order, err := u.getOwned(ctx, userID, orderID)
	if err != nil {
		return err
	}
	if order.Status != model.OrderStatusPendingPayment && order.Status != model.OrderStatusToBeConfirmed {
		return domainErrors.ErrOrderStatusInvalid
	}
	return u.cancelOrder(ctx, order, cancelReasonUser)
}

func (u *OrderUseCase) cancelOrder(ctx context.Context, order *model.Order, reason string) error {
	now := u.now()
	status := model.OrderStatusCancelled
	patch := model.OrderPatch{
		Status:       &status,
		CancelReason: &reason,
		CancelTime:   &now,
	}
	if order.PayStatus == model.PayStatusPaid {
		refund := model.PayStatusRefund
		patch.PayStatus = &refund
	}

	ok, err := u.orders.UpdateIfStatus(ctx, order.ID, order.Status, patch)
	if err != nil {
		return err
	}
	if !ok {
		return domainErrors.ErrOrderStatusInvalid
	}
	return nil
}

// Deliver moves a confirmed order out for delivery.
func (u *OrderUseCase) Deliver(ctx context.Context, orderID int64) error {
	return u.transition(ctx, orderID, model.OrderStatusConfirmed, model.OrderStatusDeliveryInProgress, false)
}

// Complete finishes a delivery. The delivery time is stamped only when it was
// not already set.
func (u *OrderUseCase) Complete(ctx context.Context, orderID int64) error {
	return u.transition(ctx, orderID, model.OrderStatusDeliveryInProgress, model.OrderStatusCompleted, true)
}

func (u *OrderUseCase) transition(ctx context.Context, orderID int64, from, to model.OrderStatus, stampDelivery bool) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrOrderNotFound
		}
		return err
	}
	if order.Status != from {
		return domainErrors.ErrOrderStatusInvalid
	}

	patch := model.OrderPatch{Status: &to}
	if stampDelivery && order.DeliveryTime == nil {
		now := u.now()
		patch.DeliveryTime = &now
	}

	ok, err := u.orders.UpdateIfStatus(ctx, order.ID, from, patch)
	if err != nil {
		return err
	}
	if !ok {
		return domainErrors.ErrOrderStatusInvalid
	}
	return nil
}

// Remind broadcasts a reminder notification for the order. The order itself
// is not mutated.
func (u *OrderUseCase) Remind(ctx context.Context, userID, orderID int64) error {
	order, err := u.getOwned(ctx, userID, orderID)
	if err != nil {
		return err
	}

	u.notify(model.Notification{
		Type:    model.NotificationTypeReminder,
		OrderID: order.ID,
		Content: orderNumberPrefix + order.Number,
	})
	return nil
}

// RemindByNumber resolves the number to an id and delegates to Remind.
func (u *OrderUseCase) RemindByNumber(ctx context.Context, userID int64, number string) error {
	order, err := u.orders.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrOrderNotFound
		}
		return err
	}
	if order.UserID != userID {
		return domainErrors.ErrOrderNotFound
	}
	return u.Remind(ctx, userID, order.ID)
}
