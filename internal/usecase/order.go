package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/mealflow/mealflow/internal/domain/errors"
	"github.com/mealflow/mealflow/internal/domain/model"
	"github.com/mealflow/mealflow/internal/domain/repository"
)

// NotificationSink is the fire-and-forget broadcast channel towards
// merchant-side clients. Broadcast must never block the caller.
type NotificationSink interface {
	Broadcast(n model.Notification)
}

// OrderUseCase owns the order lifecycle: the submission pipeline, the guarded
// state transitions and the reconciliation sweeps. It holds no mutable state
// between calls.
type OrderUseCase struct {
	orders        repository.OrderRepository
	carts         repository.CartRepository
	addresses     repository.AddressRepository
	users         repository.UserRepository
	sink          NotificationSink
	unpaidTimeout time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	addresses repository.AddressRepository,
	users repository.UserRepository,
	sink NotificationSink,
	unpaidTimeout time.Duration,
	logger *slog.Logger,
) *OrderUseCase {
	if unpaidTimeout <= 0 {
		unpaidTimeout = 15 * time.Minute
	}
	return &OrderUseCase{
		orders:        orders,
		carts:         carts,
		addresses:     addresses,
		users:         users,
		sink:          sink,
		unpaidTimeout: unpaidTimeout,
		logger:        logger,
		now:           time.Now,
	}
}

// SubmitOrderInput carries the consumer's submission request. Amount is the
// client-side total and is never used for accounting.
type SubmitOrderInput struct {
	AddressBookID int64
	PayMethod     int
	Remark        string
	PackAmount    decimal.Decimal
	Amount        decimal.Decimal
}

// OrderSubmission is what the caller gets back after a successful submission.
type OrderSubmission struct {
	ID        int64
	Number    string
	Amount    decimal.Decimal
	OrderTime time.Time
}

// Submit turns the user's shopping cart into a persisted order. The amount is
// recomputed server-side from the cart lines; the address, phone, consignee
// and user name are snapshotted onto the order row.
func (u *OrderUseCase) Submit(ctx context.Context, userID int64, in SubmitOrderInput) (*OrderSubmission, error) {
	addr, err := u.addresses.GetByID(ctx, in.AddressBookID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrAddressBookEmpty
		}
		return nil, err
	}

	lines, err := u.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domainErrors.ErrShoppingCartEmpty
	}

	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	amount := in.PackAmount
	details := make([]model.OrderDetail, 0, len(lines))
	for _, line := range lines {
		amount = amount.Add(line.Amount.Mul(decimal.NewFromInt(int64(line.Quantity))))
		details = append(details, model.OrderDetail{
			Name:      line.Name,
			Image:     line.Image,
			DishID:    line.DishID,
			SetmealID: line.SetmealID,
			Flavor:    line.Flavor,
			Quantity:  line.Quantity,
			Amount:    line.Amount,
		})
	}

	number, err := u.allocateNumber(ctx, userID)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		Number:        number,
		UserID:        userID,
		AddressBookID: addr.ID,
		Status:        model.OrderStatusPendingPayment,
		PayStatus:     model.PayStatusUnpaid,
		PayMethod:     in.PayMethod,
		Amount:        amount,
		Remark:        in.Remark,
		Phone:         addr.Phone,
		Address:       addr.FullAddress(),
		Consignee:     addr.Consignee,
		UserName:      usr.Name,
		OrderTime:     u.now(),
	}

	created, err := u.orders.Create(ctx, order, details)
	if err != nil {
		return nil, err
	}

	// The order is committed; a failed cart clear must not undo it.
	if err := u.carts.ClearByUser(ctx, userID); err != nil {
		u.logger.Error("clear cart after submission failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	return &OrderSubmission{
		ID:        created.ID,
		Number:    created.Number,
		Amount:    created.Amount,
		OrderTime: created.OrderTime,
	}, nil
}

// Get returns the order with its detail lines.
func (u *OrderUseCase) Get(ctx context.Context, orderID int64) (*model.Order, []model.OrderDetail, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, nil, domainErrors.ErrOrderNotFound
		}
		return nil, nil, err
	}
	details, err := u.orders.ListDetails(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, details, nil
}

// GetForUser is Get with an ownership check for the consumer side.
func (u *OrderUseCase) GetForUser(ctx context.Context, userID, orderID int64) (*model.Order, []model.OrderDetail, error) {
	order, details, err := u.Get(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.UserID != userID {
		return nil, nil, domainErrors.ErrOrderNotFound
	}
	return order, details, nil
}

// ListByUser returns the user's orders, newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// Repeat copies the detail lines of a past order back into the user's
// shopping cart so it can be submitted again.
func (u *OrderUseCase) Repeat(ctx context.Context, userID, orderID int64) error {
	order, err := u.getOwned(ctx, userID, orderID)
	if err != nil {
		return err
	}

	details, err := u.orders.ListDetails(ctx, order.ID)
	if err != nil {
		return err
	}

	lines := make([]model.CartLine, 0, len(details))
	for _, d := range details {
		lines = append(lines, model.CartLine{
			UserID:    userID,
			Name:      d.Name,
			Image:     d.Image,
			DishID:    d.DishID,
			SetmealID: d.SetmealID,
			Flavor:    d.Flavor,
			Quantity:  d.Quantity,
			Amount:    d.Amount,
		})
	}
	return u.carts.AddBatch(ctx, lines)
}

func (u *OrderUseCase) getOwned(ctx context.Context, userID, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrOrderNotFound
	}
	return order, nil
}

func (u *OrderUseCase) notify(n model.Notification) {
	if u.sink == nil {
		return
	}
	u.sink.Broadcast(n)
}
