package repository

import (
	"context"

	"github.com/mealflow/mealflow/internal/domain/model"
)

// CartRepository exposes the shopping cart to the order engine. The engine
// reads the cart once at submission time, clears it after a successful
// submission, and refills it on repeat orders.
type CartRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]model.CartLine, error)
	AddBatch(ctx context.Context, lines []model.CartLine) error
	ClearByUser(ctx context.Context, userID int64) error
}
