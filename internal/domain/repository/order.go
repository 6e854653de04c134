package repository

import (
	"context"
	"time"

	"github.com/mealflow/mealflow/internal/domain/model"
)

// OrderRepository describes persistence operations on the order aggregate.
type OrderRepository interface {
	// Create persists the order together with its detail lines as one atomic
	// unit; a failure leaves neither behind.
	Create(ctx context.Context, order *model.Order, details []model.OrderDetail) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	ListDetails(ctx context.Context, orderID int64) ([]model.OrderDetail, error)
	// UpdateIfStatus applies the patch only when the row still has the
	// expected status. The boolean reports whether the write landed; a false
	// result means a concurrent transition won the race.
	UpdateIfStatus(ctx context.Context, orderID int64, expected model.OrderStatus, patch model.OrderPatch) (bool, error)
	// UpdateBatch applies each patch, gated on the update's expected status
	// and pay status when set. Rows that moved on since selection are skipped.
	UpdateBatch(ctx context.Context, updates []model.OrderUpdate) error
	// ListStale returns orders in the given status whose orderTime is strictly
	// before olderThan. A non-nil payStatus narrows the selection further.
	ListStale(ctx context.Context, status model.OrderStatus, payStatus *model.PayStatus, olderThan time.Time) ([]model.Order, error)
}
