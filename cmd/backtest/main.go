package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hybrid_bot/internal/exchange"
	"hybrid_bot/internal/helper"
	"hybrid_bot/internal/models"
	btservice "hybrid_bot/internal/modules/backtest/service"
	"hybrid_bot/internal/modules/config"
	riskservice "hybrid_bot/internal/modules/risk/service"
	"hybrid_bot/internal/modules/strategy"
	stratservice "hybrid_bot/internal/modules/strategy/service"
	"hybrid_bot/internal/notify"
	"hybrid_bot/internal/store"
	"hybrid_bot/pkg/db"
	"hybrid_bot/pkg/logger"
	"hybrid_bot/pkg/tracing"

	"github.com/opentracing/opentracing-go"
)

func main() {
	var (
		symbol    = flag.String("symbol", "BTCIRT", "торговая пара")
		timeframe = flag.String("timeframe", "1h", "таймфрейм свечей")
		limit     = flag.Int("limit", 500, "сколько свечей тянуть с биржи")
		save      = flag.Bool("save", false, "сохранить результат в postgres")
		report    = flag.Bool("notify", false, "отправить сводку в telegram")
		recent    = flag.Int("recent", 0, "показать N последних сохранённых прогонов и выйти")
		show      = flag.Int64("show", 0, "показать сохранённый прогон по id и выйти")
	)
	flag.Parse()

	if err := logger.Init("backtest"); err != nil {
		panic(err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *recent > 0 || *show > 0 {
		st, closePool, err := openStore(ctx, cfg)
		if err != nil {
			log.Fatalf("pg pool: %v", err)
		}
		defer closePool()

		if *recent > 0 {
			runs, err := st.Recent(ctx, *recent)
			if err != nil {
				log.Fatalf("recent: %v", err)
			}
			for _, r := range runs {
				fmt.Printf("#%-4d %s  %-10s %-4s trades=%-4d winrate=%5.1f%% sharpe=%5.2f  %.2f -> %.2f\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Symbol, r.Timeframe,
					r.TotalTrades, r.WinRatePct, r.SharpeRatio, r.InitialBalance, r.FinalBalance)
			}
			return
		}

		res, err := st.Result(ctx, *show)
		if err != nil {
			log.Fatalf("show: %v", err)
		}
		printReport(fmt.Sprintf("run #%d", *show), "", res)
		return
	}

	if cfg.Jaeger.Host != "" {
		tracing.SetServiceName("backtest")
		_, closeTracer, err := tracing.InitTracer(tracing.Config{
			Host: cfg.Jaeger.Host,
			Port: cfg.Jaeger.Port,
		})
		if err != nil {
			log.Printf("[BT] tracer disabled: %v", err)
		} else {
			defer closeTracer()
		}
	}

	tf := helper.NormTF(*timeframe)

	span, ctx := opentracing.StartSpanFromContext(ctx, "backtest.run")
	span.SetTag("symbol", *symbol)
	span.SetTag("timeframe", tf)
	defer span.Finish()

	ex, err := newExchange(cfg)
	if err != nil {
		log.Fatalf("exchange: %v", err)
	}

	bars, err := ex.GetCandles(ctx, *symbol, tf, *limit)
	if err != nil {
		log.Fatalf("candles %s: %v", *symbol, err)
	}

	engine := btservice.NewEngine(cfg,
		riskservice.NewManager(cfg),
		stratservice.NewAggregator(cfg),
		strategy.NewSources(cfg),
	)

	res, err := engine.Run(ctx, bars, *symbol)
	if err != nil {
		log.Fatalf("run %s: %v", *symbol, err)
	}

	printReport(*symbol, tf, res)

	if *save {
		st, closePool, err := openStore(ctx, cfg)
		if err != nil {
			log.Fatalf("pg pool: %v", err)
		}
		defer closePool()

		id, err := st.SaveResult(ctx, *symbol, tf, res)
		if err != nil {
			log.Fatalf("save: %v", err)
		}
		fmt.Printf("saved as run #%d\n", id)
	}

	if *report {
		newNotifier(cfg).Sendf(
			"🧪 Бэктест %s %s\nсделок: %d | winrate: %.1f%%\nдоходность: %+.2f%% | MDD: %.2f%% | Sharpe: %.2f",
			*symbol, tf,
			res.TotalTrades, res.WinRatePct,
			res.TotalReturnPct, res.MaxDrawdownPct, res.SharpeRatio,
		)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (*store.Store, func(), error) {
	pool, err := db.NewPool(ctx, db.PoolConfig{DSN: cfg.DB})
	if err != nil {
		return nil, nil, err
	}
	return store.New(db.NewPgTxManager(pool)), pool.Close, nil
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

func newNotifier(cfg *config.Config) notify.Notifier {
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		if tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID); err == nil {
			return tg
		}
	}
	return notify.NewStdout()
}

func printReport(symbol, timeframe string, res *models.BacktestResult) {
	fmt.Printf("\n=== %s %s ===\n", symbol, timeframe)
	fmt.Printf("balance:   %.2f -> %.2f (%+.2f%%)\n", res.InitialBalance, res.FinalBalance, res.TotalReturnPct)
	fmt.Printf("trades:    %d (w %d / l %d, winrate %.1f%%)\n", res.TotalTrades, res.WinningTrades, res.LosingTrades, res.WinRatePct)
	fmt.Printf("avg win:   %.2f | avg loss: %.2f | PF: %.2f\n", res.AvgWin, res.AvgLoss, res.ProfitFactor)
	fmt.Printf("drawdown:  %.2f%% | sharpe: %.2f\n", res.MaxDrawdownPct, res.SharpeRatio)
	fmt.Printf("pnl total: %+.2f\n", res.TotalPnL)
}
