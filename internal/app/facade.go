package app

import (
	"context"

	"github.com/mealflow/mealflow/internal/domain/model"
	"github.com/mealflow/mealflow/internal/usecase"
)

// OrderingFacade aggregates the application use cases behind one surface
// consumed by the HTTP layer and the reconciliation worker.
type OrderingFacade struct {
	auth   *usecase.AuthUseCase
	orders *usecase.OrderUseCase
}

func NewOrderingFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase) *OrderingFacade {
	return &OrderingFacade{auth: auth, orders: orders}
}

func (f *OrderingFacade) Register(ctx context.Context, login, name, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, name, password)
	return token, err
}

func (f *OrderingFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *OrderingFacade) ParseToken(token string) (int64, model.UserRole, error) {
	return f.auth.ParseToken(token)
}

func (f *OrderingFacade) SubmitOrder(ctx context.Context, userID int64, in usecase.SubmitOrderInput) (*usecase.OrderSubmission, error) {
	return f.orders.Submit(ctx, userID, in)
}

func (f *OrderingFacade) PayOrder(ctx context.Context, userID int64, number string, payMethod int) error {
	return f.orders.Pay(ctx, userID, number, payMethod)
}

func (f *OrderingFacade) UserOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *OrderingFacade) UserOrderDetail(ctx context.Context, userID, orderID int64) (*model.Order, []model.OrderDetail, error) {
	return f.orders.GetForUser(ctx, userID, orderID)
}

func (f *OrderingFacade) CancelOrderByUser(ctx context.Context, userID, orderID int64) error {
	return f.orders.CancelByUser(ctx, userID, orderID)
}

func (f *OrderingFacade) RepeatOrder(ctx context.Context, userID, orderID int64) error {
	return f.orders.Repeat(ctx, userID, orderID)
}

func (f *OrderingFacade) RemindOrder(ctx context.Context, userID, orderID int64) error {
	return f.orders.Remind(ctx, userID, orderID)
}

func (f *OrderingFacade) RemindOrderByNumber(ctx context.Context, userID int64, number string) error {
	return f.orders.RemindByNumber(ctx, userID, number)
}

func (f *OrderingFacade) OrderDetail(ctx context.Context, orderID int64) (*model.Order, []model.OrderDetail, error) {
	return f.orders.Get(ctx, orderID)
}

func (f *OrderingFacade) ConfirmOrder(ctx context.Context, orderID int64) error {
	return f.orders.Confirm(ctx, orderID)
}

func (f *OrderingFacade) RejectOrder(ctx context.Context, orderID int64, reason string) error {
	return f.orders.Reject(ctx, orderID, reason)
}

func (f *OrderingFacade) CancelOrder(ctx context.Context, orderID int64, reason string) error {
	return f.orders.Cancel(ctx, orderID, reason)
}

func (f *OrderingFacade) DeliverOrder(ctx context.Context, orderID int64) error {
	return f.orders.Deliver(ctx, orderID)
}

func (f *OrderingFacade) CompleteOrder(ctx context.Context, orderID int64) error {
	return f.orders.Complete(ctx, orderID)
}

func (f *OrderingFacade) PaymentTimeouts(ctx context.Context) ([]model.Order, error) {
	return f.orders.PaymentTimeouts(ctx)
}

func (f *OrderingFacade) CancelTimedOut(ctx context.Context, orders []model.Order) error {
	return f.orders.CancelTimedOut(ctx, orders)
}

func (f *OrderingFacade) UnsettledDeliveries(ctx context.Context) ([]model.Order, error) {
	return f.orders.UnsettledDeliveries(ctx)
}

func (f *OrderingFacade) SettleDeliveries(ctx context.Context, orders []model.Order) error {
	return f.orders.SettleDeliveries(ctx, orders)
}
