package service

import (
	"context"
	"fmt"
	"log"

	"hybrid_bot/internal/models"
	"hybrid_bot/internal/modules/config"
	risk "hybrid_bot/internal/modules/risk/service"
	strategy "hybrid_bot/internal/modules/strategy/service"
)

const defaultWarmup = 50

// Engine гоняет бар за баром одну и ту же связку источники → агрегатор →
// риск, что и живой наблюдатель. Один прогон — одна изолированная Ledger,
// параллельные прогоны не делят состояние.
type Engine struct {
	rm      *risk.Manager
	agg     *strategy.Aggregator
	sources []strategy.Source

	initialBalance float64
	warmup         int
}

func NewEngine(cfg *config.Config, rm *risk.Manager, agg *strategy.Aggregator, sources []strategy.Source) *Engine {
	return New(rm, agg, sources, cfg.Backtest.InitialBalance, cfg.Backtest.Warmup)
}

func New(rm *risk.Manager, agg *strategy.Aggregator, sources []strategy.Source, initialBalance float64, warmup int) *Engine {
	if warmup <= 0 {
		warmup = defaultWarmup
	}
	return &Engine{
		rm:             rm,
		agg:            agg,
		sources:        sources,
		initialBalance: initialBalance,
		warmup:         warmup,
	}
}

// Run — прогон по истории. Порядок шагов внутри бара фиксирован:
// выходы → сигнал → вход → mark-to-market; переставлять нельзя.
// Единственная жёсткая ошибка — битый вход (немонотонное время, нулевые
// цены); всё остальное деградирует до пропуска бара.
func (e *Engine) Run(ctx context.Context, bars []models.Candle, symbol string) (*models.BacktestResult, error) {
	if err := validateBars(bars); err != nil {
		return nil, err
	}

	if len(bars) < e.warmup {
		log.Printf("[BT] %s: insufficient data (%d bars, warmup %d)", symbol, len(bars), e.warmup)
		return emptyResult(e.initialBalance), nil
	}

	log.Printf("[BT] %s: %d bars from %s to %s", symbol, len(bars),
		bars[0].Timestamp.Format("2006-01-02"), bars[len(bars)-1].Timestamp.Format("2006-01-02"))

	ledger := NewLedger(e.initialBalance)

	for i := e.warmup; i < len(bars); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		current := bars[i]
		price := current.Close

		e.checkExits(ledger, price, current)

		// источники видят историю строго до текущего бара включительно
		opinions := strategy.CollectOpinions(ctx, e.sources, bars[:i+1])
		sig := e.agg.Aggregate(opinions)

		if e.agg.ShouldExecute(sig) {
			ledger.Open(sig, symbol, price, current.Timestamp, e.rm)
		}

		ledger.MarkToMarket(price)
	}

	// принудительная ликвидация: незакрытых позиций в отчёте не бывает
	last := bars[len(bars)-1]
	for _, pos := range append([]*models.Position(nil), ledger.OpenPositions()...) {
		trade := ledger.Close(pos, last.Close, last.Timestamp)
		log.Printf("[BT] liquidated %s %s: pnl %.2f", trade.Side, trade.Symbol, trade.PnL)
	}

	result := computeMetrics(e.initialBalance, ledger.EquityCurve(), ledger.Trades())
	log.Printf("[BT] %s done: trades=%d return=%.2f%%", symbol, result.TotalTrades, result.TotalReturnPct)

	return result, nil
}

// checkExits закрывает позиции по SL/TP. Оба условия проверяются
// независимо, но позиция закрывается ровно один раз за бар.
func (e *Engine) checkExits(ledger *Ledger, price float64, bar models.Candle) {
	toClose := make([]*models.Position, 0, len(ledger.OpenPositions()))
	for _, pos := range ledger.OpenPositions() {
		if e.rm.StopLossTriggered(pos.EntryPrice, price, pos.Side) ||
			e.rm.TakeProfitTriggered(pos.EntryPrice, price, pos.Side) {
			toClose = append(toClose, pos)
		}
	}
	for _, pos := range toClose {
		ledger.Close(pos, price, bar.Timestamp)
	}
}

func validateBars(bars []models.Candle) error {
	for i, b := range bars {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return fmt.Errorf("bar %d (%s): non-positive price", i, b.Timestamp)
		}
		if i > 0 && !bars[i-1].Timestamp.Before(b.Timestamp) {
			return fmt.Errorf("bar %d (%s): timestamp not after previous bar", i, b.Timestamp)
		}
	}
	return nil
}

func emptyResult(initialBalance float64) *models.BacktestResult {
	return &models.BacktestResult{
		InitialBalance: initialBalance,
		FinalBalance:   initialBalance,
		EquityCurve:    []float64{initialBalance},
		Trades:         []models.Trade{},
	}
}
