package watcher

import (
	"context"

	"hybrid_bot/internal/modules/watcher/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("watcher",
		fx.Provide(
			service.NewWatcher,
		),
		fx.Invoke(func(lc fx.Lifecycle, w *service.Watcher) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go w.Start(ctx)
					return nil
				},
				OnStop: func(ctx context.Context) error {
					return nil
				},
			})
		}),
	)
}
