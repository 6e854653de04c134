package handlers

import (
	"context"

	"github.com/mealflow/mealflow/internal/domain/model"
	"github.com/mealflow/mealflow/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, name, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, model.UserRole, error)
}

// ConsumerOrderFacade encapsulates the consumer-side order operations.
type ConsumerOrderFacade interface {
	SubmitOrder(ctx context.Context, userID int64, in usecase.SubmitOrderInput) (*usecase.OrderSubmission, error)
	PayOrder(ctx context.Context, userID int64, number string, payMethod int) error
	UserOrders(ctx context.Context, userID int64) ([]model.Order, error)
	UserOrderDetail(ctx context.Context, userID, orderID int64) (*model.Order, []model.OrderDetail, error)
	CancelOrderByUser(ctx context.Context, userID, orderID int64) error
	RepeatOrder(ctx context.Context, userID, orderID int64) error
	RemindOrder(ctx context.Context, userID, orderID int64) error
	RemindOrderByNumber(ctx context.Context, userID int64, number string) error
}

// MerchantOrderFacade encapsulates the merchant-side order operations.
type MerchantOrderFacade interface {
	OrderDetail(ctx context.Context, orderID int64) (*model.Order, []model.OrderDetail, error)
	ConfirmOrder(ctx context.Context, orderID int64) error
	RejectOrder(ctx context.Context, orderID int64, reason string) error
	CancelOrder(ctx context.Context, orderID int64, reason string) error
	DeliverOrder(ctx context.Context, orderID int64) error
	CompleteOrder(ctx context.Context, orderID int64) error
}

// OrderingFacade aggregates the full set of operations used across handlers.
type OrderingFacade interface {
	AuthFacade
	ConsumerOrderFacade
	MerchantOrderFacade
}
