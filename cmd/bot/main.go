package main

import (
	"context"
	"fmt"

	"hybrid_bot/internal/exchange"
	"hybrid_bot/internal/modules/backtest"
	"hybrid_bot/internal/modules/config"
	"hybrid_bot/internal/modules/health"
	"hybrid_bot/internal/modules/postgres"
	"hybrid_bot/internal/modules/risk"
	"hybrid_bot/internal/modules/strategy"
	"hybrid_bot/internal/modules/watcher"
	"hybrid_bot/internal/notify"
	"hybrid_bot/pkg/logger"

	"go.uber.org/fx"
)

func main() {
	if err := logger.Init("hybrid_bot"); err != nil {
		panic(err)
	}

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
			newExchange,
			newNotifier,
		),
		config.Module(),
		health.Module(),
		postgres.Module(),
		risk.Module(),
		strategy.Module(),
		backtest.Module(),
		watcher.Module(),
	)
	app.Run()
}

func newExchange(cfg *config.Config) (exchange.Client, error) {
	switch cfg.Exchange.Name {
	case "wallex":
		return exchange.NewWallex(cfg.Exchange.WallexKey), nil
	case "", "nobitex":
		return exchange.NewNobitex(cfg.Exchange.NobitexToken), nil
	default:
		return nil, fmt.Errorf("unknown exchange %q", cfg.Exchange.Name)
	}
}

// Notifier: если TELEGRAM_* нет — используем stdout
func newNotifier(cfg *config.Config) notify.Notifier {
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		if tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID); err == nil {
			return tg
		}
	}
	return notify.NewStdout()
}
