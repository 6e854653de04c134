package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/mealflow/mealflow/internal/domain/errors"
	"github.com/mealflow/mealflow/internal/domain/model"
)

func TestPayMovesOrderToConfirmationQueue(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.Orders = []model.Order{{
		ID: 9, Number: "202403151230457", UserID: 7,
		Status: model.OrderStatusPendingPayment, PayStatus: model.PayStatusUnpaid,
	}}

	if err := f.uc.Pay(context.Background(), 7, "202403151230457", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.orders.UpdateIfStatusCalls) != 1 {
		t.Fatalf("expected one conditional update, got %d", len(f.orders.UpdateIfStatusCalls))
	}
	call := f.orders.UpdateIfStatusCalls[0]
	if call.OrderID != 9 || call.Expected != model.OrderStatusPendingPayment {
		t.Fatalf("unexpected guard: %+v", call)
	}
	if call.Patch.Status == nil || *call.Patch.Status != model.OrderStatusToBeConfirmed {
		t.Fatalf("expected transition to TO_BE_CONFIRMED, got %+v", call.Patch.Status)
	}
	if call.Patch.PayStatus == nil || *call.Patch.PayStatus != model.PayStatusPaid {
		t.Fatalf("expected pay status PAID, got %+v", call.Patch.PayStatus)
	}
	if call.Patch.PayMethod == nil || *call.Patch.PayMethod != 2 {
		t.Fatalf("expected pay method 2, got %+v", call.Patch.PayMethod)
	}
	if call.Patch.CheckoutTime == nil || !call.Patch.CheckoutTime.Equal(testNow) {
		t.Fatalf("expected checkout time stamp, got %+v", call.Patch.CheckoutTime)
	}

	sent := f.sink.Notifications()
	if len(sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(sent))
	}
	if sent[0].Type != model.NotificationTypeNewOrder || sent[0].OrderID != 9 {
		t.Fatalf("unexpected notification %+v", sent[0])
	}
	if sent[0].Content != "订单号：202403151230457" {
		t.Fatalf("unexpected notification content %q", sent[0].Content)
	}
}

func TestPayRejectsAlreadyPaidOrder(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.Orders = []model.Order{{
		ID: 9, Number: "n", UserID: 7,
		Status: model.OrderStatusToBeConfirmed, PayStatus: model.PayStatusPaid,
	}}

	if err := f.uc.Pay(context.Background(), 7, "n", 1); !errors.Is(err, domainErrors.ErrOrderAlreadyPaid) {
		t.Fatalf("expected already paid error, got %v", err)
	}
	if len(f.orders.UpdateIfStatusCalls) != 0 {
		t.Fatal("no update must be attempted")
	}
	if len(f.sink.Notifications()) != 0 {
		t.Fatal("no notification must be sent")
	}
}

func TestPayRejectsWrongStatus(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.Orders = []model.Order{{
		ID: 9, Number: "n", UserID: 7,
		Status: model.OrderStatusCancelled, PayStatus: model.PayStatusUnpaid,
	}}

	if err := f.uc.Pay(context.Background(), 7, "n", 1); !errors.Is(err, domainErrors.ErrOrderStatusInvalid) {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestPayHidesForeignOrder(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.Orders = []model.Order{{ID: 9, Number: "n", UserID: 8, Status: model.OrderStatusPendingPayment}}

	if err := f.uc.Pay(context.Background(), 7, "n", 1); !errors.Is(err, domainErrors.ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
}

func TestPayLosesRaceCleanly(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.Orders = []model.Order{{
		ID: 9, Number: "n", UserID: 7,
		Status: model.OrderStatusPendingPayment, PayStatus: model.PayStatusUnpaid,
	}}
	f.orders.UpdateIfStatusFn = func(context.Context, int64, model.OrderStatus, model.OrderPatch) (bool, error) {
		return false, nil
	}

	if err := f.uc.Pay(context.Background(), 7, "n", 1); !errors.Is(err, domainErrors.ErrOrderStatusInvalid) {
		t.Fatalf("expected status error on lost race, got %v", err)
	}
	if len(f.sink.Notifications()) != 0 {
		t.Fatal("lost race must not notify the merchant")
	}
}

func TestConfirmIsManualOverride(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.Orders = []model.Order{{ID: 9, Status: model.OrderStatusCancelled}}

	if err := f.uc.Confirm(context.Background(), 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.orders.BatchCalls) != 1 || len(f.orders.BatchCalls[0]) != 1 {
		t.Fatalf("expected one single-order write, got %v", f.orders.BatchCalls)
	}
	update := f.orders.BatchCalls[0][0]
	if update.ExpectedStatus != nil {
		t.Fatalf("confirm must not carry a status guard, got %s", *update.ExpectedStatus)
	}
	if update.Patch.Status == nil || *update.Patch.Status != model.OrderStatusConfirmed {
		t.Fatalf("unexpected patch %+v", update.Patch)
	}
}

func TestConfirmLeavesPaymentFieldsAlone(t *testing.T) {
	f := newOrderUseCaseFixture()
	// Stale read: the order is still unpaid here, but a payment may commit
	// before the confirm write lands. The patch must stay status-only so the
	// concurrent payment's fields survive.
	f.orders.Orders = []model.Order{{ID: 9, Status: model.OrderStatusToBeConfirmed, PayStatus: model.PayStatusUnpaid}}

	if err := f.uc.Confirm(context.Background(), 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	update := f.orders.BatchCalls[0][0]
	if update.Patch.PayStatus != nil || update.Patch.PayMethod != nil || update.Patch.CheckoutTime != nil {
		t.Fatalf("confirm must not rewrite payment fields: %+v", update.Patch)
	}
	if update.Patch.CancelReason != nil || update.Patch.CancelTime != nil || update.Patch.DeliveryTime != nil {
		t.Fatalf("confirm must not rewrite lifecycle timestamps: %+v", update.Patch)
	}
}

func TestRejectRefundsPaidOrder(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.Orders = []model.Order{{
		ID: 9, Status: model.OrderStatusToBeConfirmed, PayStatus: model.PayStatusPaid,
	}}

	if err := f.uc.Reject(context.Background(), 9, "缺货"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := f.orders.UpdateIfStatusCalls[0]
	if call.Expected != model.OrderStatusToBeConfirmed {
		t.Fatalf("unexpected guard %s", call.Expected)
	}
	if call.Patch.RejectionReason == nil || *call.Patch.RejectionReason != "缺货" {
		t.Fatalf("expected rejection reason, got %+v", call.Patch.RejectionReason)
	}
	if call.Patch.PayStatus == nil || *call.Patch.PayStatus != model.PayStatusRefund {
		t.Fatalf("paid order must be refunded, got %+v", call.Patch.PayStatus)
	}
	if call.Patch.CancelTime == nil || !call.Patch.CancelTime.Equal(testNow) {
		t.Fatalf("expected cancel time stamp, got %+v", call.Patch.CancelTime)
	}
}

func TestRejectRequiresPendingConfirmation(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.Orders = []model.Order{{ID: 9, Status: model.OrderStatusConfirmed}}

	if err := f.uc.Reject(context.Background(), 9, "r"); !errors.Is(err, domainErrors.ErrOrderStatusInvalid) {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestCancelKeepsUnpaidUntouched(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.Orders = []model.Order{{
		ID: 9, Status: model.OrderStatusConfirmed, PayStatus: model.PayStatusUnpaid,
	}}

	if err := f.uc.Cancel(context.Background(), 9, "店家取消"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := f.orders.UpdateIfStatusCalls[0]
	if call.Expected != model.OrderStatusConfirmed {
		t.Fatalf("guard must use the observed status, got %s", call.Expected)
	}
	if call.Patch.PayStatus != nil {
		t.Fatalf("unpaid order must keep its pay status, got %+v", call.Patch.PayStatus)
	}
	if call.Patch.CancelReason == nil || *call.Patch.CancelReason != "店家取消" {
		t.Fatalf("expected cancel reason, got %+v", call.Patch.CancelReason)
	}
}

func TestCancelRefundsPaidOrder(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.Orders = []model.Order{{
		ID: 9, Status: model.OrderStatusDeliveryInProgress, PayStatus: model.PayStatusPaid,
	}}

	if err := f.uc.Cancel(context.Background(), 9, "r"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := f.orders.UpdateIfStatusCalls[0]
	if call.Patch.PayStatus == nil || *call.Patch.PayStatus != model.PayStatusRefund {
		t.Fatalf("paid order must be refunded, got %+v", call.Patch.PayStatus)
	}
}

func TestCancelByUserRecordsUserReason(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.Orders = []model.Order{{
		ID: 9, UserID: 7, Status: model.OrderStatusPendingPayment, PayStatus: model.PayStatusUnpaid,
	}}

	if err := f.uc.CancelByUser(context.Background(), 7, 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := f.orders.UpdateIfStatusCalls[0]
	if call.Patch.CancelReason == nil || *call.Patch.CancelReason != cancelReasonUser {
		t.Fatalf("expected user cancel reason, got %+v", call.Patch.CancelReason)
	}
}

func TestCancelByUserRejectedAfterMerchantAccepted(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.Orders = []model.Order{{ID: 9, UserID: 7, Status: model.OrderStatusConfirmed}}

	if err := f.uc.CancelByUser(context.Background(), 7, 9); !errors.Is(err, domainErrors.ErrOrderStatusInvalid) {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestDeliverRequiresConfirmedOrder(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.Orders = []model.Order{{ID: 9, Status: model.OrderStatusToBeConfirmed}}

	if err := f.uc.Deliver(context.Background(), 9); !errors.Is(err, domainErrors.ErrOrderStatusInvalid) {
		t.Fatalf("expected status error, got %v", err)
	}

	f.orders.Orders[0].Status = model.OrderStatusConfirmed
	if err := f.uc.Deliver(context.Background(), 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := f.orders.UpdateIfStatusCalls[0]
	if call.Patch.Status == nil || *call.Patch.Status != model.OrderStatusDeliveryInProgress {
		t.Fatalf("unexpected patch %+v", call.Patch)
	}
	if call.Patch.DeliveryTime != nil {
		t.Fatal("delivery start must not stamp delivery time")
	}
}

func TestCompleteStampsDeliveryTimeOnce(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.Orders = []model.Order{{ID: 9, Status: model.OrderStatusDeliveryInProgress}}

	if err := f.uc.Complete(context.Background(), 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := f.orders.UpdateIfStatusCalls[0]
	if call.Patch.DeliveryTime == nil || !call.Patch.DeliveryTime.Equal(testNow) {
		t.Fatalf("expected delivery time stamp, got %+v", call.Patch.DeliveryTime)
	}
}

func TestCompletePreservesExistingDeliveryTime(t *testing.T) {
	f := newOrderUseCaseFixture()
	manual := time.Date(2024, time.March, 14, 18, 0, 0, 0, time.Local)
	f.orders.Orders = []model.Order{{ID: 9, Status: model.OrderStatusDeliveryInProgress, DeliveryTime: &manual}}

	if err := f.uc.Complete(context.Background(), 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := f.orders.UpdateIfStatusCalls[0]
	if call.Patch.DeliveryTime != nil {
		t.Fatalf("existing delivery time must be preserved, got %+v", call.Patch.DeliveryTime)
	}
}

func TestRemindBroadcastsWithoutMutation(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.Orders = []model.Order{{ID: 9, UserID: 7, Number: "n", Status: model.OrderStatusToBeConfirmed}}

	if err := f.uc.Remind(context.Background(), 7, 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sent := f.sink.Notifications()
	if len(sent) != 1 || sent[0].Type != model.NotificationTypeReminder {
		t.Fatalf("expected one reminder, got %+v", sent)
	}
	if len(f.orders.UpdateIfStatusCalls) != 0 || len(f.orders.BatchCalls) != 0 {
		t.Fatal("reminder must not mutate the order")
	}
}

func TestRemindByNumberChecksOwnership(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.Orders = []model.Order{{ID: 9, UserID: 8, Number: "n"}}

	if err := f.uc.RemindByNumber(context.Background(), 7, "n"); !errors.Is(err, domainErrors.ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
	if len(f.sink.Notifications()) != 0 {
		t.Fatal("foreign order must not trigger a reminder")
	}
}
