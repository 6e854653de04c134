package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/mealflow/mealflow/internal/config"
	"github.com/mealflow/mealflow/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	newOrderUseCase,
)

type orderUseCaseParams struct {
	fx.In

	Orders    repository.OrderRepository
	Carts     repository.CartRepository
	Addresses repository.AddressRepository
	Users     repository.UserRepository
	Sink      NotificationSink
	Config    *config.Config
	Logger    *slog.Logger
}

func newOrderUseCase(p orderUseCaseParams) *OrderUseCase {
	return NewOrderUseCase(p.Orders, p.Carts, p.Addresses, p.Users, p.Sink, p.Config.UnpaidOrderTimeout, p.Logger)
}
