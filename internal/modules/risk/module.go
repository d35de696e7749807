package risk

import (
	"hybrid_bot/internal/modules/risk/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("risk",
		fx.Provide(
			service.NewManager,
		),
	)
}
