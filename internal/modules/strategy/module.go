package strategy

import (
	"hybrid_bot/internal/modules/config"
	"hybrid_bot/internal/modules/strategy/service"

	"go.uber.org/fx"
)

// NewSources — встроенный набор источников мнений. Внешние модели
// (деревья, LSTM, прогнозисты) добавляются как ещё один service.Source.
func NewSources(cfg *config.Config) []service.Source {
	return []service.Source{
		service.NewTechnical(cfg.Strategy),
		service.NewMomentum(cfg.Strategy),
		service.NewBreakout(cfg.Strategy),
	}
}

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			service.NewAggregator,
			NewSources,
		),
	)
}
