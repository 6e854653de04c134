package notify

import (
	"context"

	"go.uber.org/fx"
)

// Module wires notification hub and its lifecycle.
var Module = fx.Options(
	fx.Provide(NewHub),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, hub *Hub) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			hub.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			hub.Stop()
			return nil
		},
	})
}
