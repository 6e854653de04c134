package di

import (
	"github.com/mealflow/mealflow/internal/app"
	"github.com/mealflow/mealflow/internal/config"
	"github.com/mealflow/mealflow/internal/logger"
	"github.com/mealflow/mealflow/internal/notify"
	"github.com/mealflow/mealflow/internal/pkg/auth"
	"github.com/mealflow/mealflow/internal/server/http/handlers"
	"github.com/mealflow/mealflow/internal/server/http/router"
	"github.com/mealflow/mealflow/internal/storage/postgres"
	"github.com/mealflow/mealflow/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		notify.Module,
		fx.Provide(func(hub *notify.Hub) usecase.NotificationSink { return hub }),
		usecase.Module,
		fx.Provide(func(facade *app.OrderingFacade) handlers.OrderingFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
