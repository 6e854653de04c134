package repository

import (
	"context"

	"github.com/mealflow/mealflow/internal/domain/model"
)

// AddressRepository is a read-only view into the address book.
type AddressRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Address, error)
}
