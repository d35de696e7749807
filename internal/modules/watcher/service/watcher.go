package service

import (
	"context"
	"log"
	"sync"
	"time"

	"hybrid_bot/internal/exchange"
	"hybrid_bot/internal/models"
	"hybrid_bot/internal/modules/config"
	health "hybrid_bot/internal/modules/health/service"
	risk "hybrid_bot/internal/modules/risk/service"
	strategy "hybrid_bot/internal/modules/strategy/service"
	"hybrid_bot/internal/notify"
)

// Watcher гоняет живой цикл: свечи с биржи → источники → агрегатор →
// уведомление. Заявки не выставляет — только сообщает, что бы он сделал.
type Watcher struct {
	cfg *config.Config
	ex  exchange.Client
	agg *strategy.Aggregator
	src []strategy.Source
	rm  *risk.Manager
	n   notify.Notifier
	st  *health.State

	mu          sync.Mutex
	cooldownTil map[string]time.Time // symbol -> until, анти-спам по сигналам
}

func NewWatcher(
	cfg *config.Config,
	ex exchange.Client,
	agg *strategy.Aggregator,
	src []strategy.Source,
	rm *risk.Manager,
	n notify.Notifier,
	st *health.State,
) *Watcher {
	return &Watcher{
		cfg:         cfg,
		ex:          ex,
		agg:         agg,
		src:         src,
		rm:          rm,
		n:           n,
		st:          st,
		cooldownTil: make(map[string]time.Time),
	}
}

func (w *Watcher) Start(ctx context.Context) {
	pairs := w.cfg.Watcher.Pairs
	if len(pairs) == 0 {
		log.Println("[WATCHER] пустой список пар — нечего отслеживать")
		return
	}

	w.n.Sendf("📈 Наблюдатель запущен: %d пар, таймфрейм %s, интервал %s",
		len(pairs), w.cfg.Watcher.Timeframe, w.cfg.Watcher.CheckInterval)

	w.warmup(ctx, pairs)
	w.st.SetReady(true)

	ticker := time.NewTicker(w.cfg.Watcher.CheckInterval)
	defer ticker.Stop()

	// первый проход сразу, дальше по тикеру
	w.checkAll(ctx, pairs)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.checkAll(ctx, pairs)
		}
	}
}

// warmup параллельно прогревает REST-историю по всем парам;
// ограничитель параллелизма, чтобы не словить rate limit.
func (w *Watcher) warmup(ctx context.Context, pairs []string) {
	sem := make(chan struct{}, 8)
	var wg sync.WaitGroup
	for _, symbol := range pairs {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			_, err := w.ex.GetCandles(ctx, symbol, w.cfg.Watcher.Timeframe, w.cfg.Watcher.HistoryLimit)
			if err != nil {
				log.Printf("[WATCHER] warmup %s: %v", symbol, err)
			}
		}(symbol)
	}
	wg.Wait()
	log.Printf("[WATCHER] warmup done: %d pairs", len(pairs))
}

func (w *Watcher) checkAll(ctx context.Context, pairs []string) {
	for _, symbol := range pairs {
		if ctx.Err() != nil {
			return
		}
		w.checkPair(ctx, symbol)
	}
}

func (w *Watcher) checkPair(ctx context.Context, symbol string) {
	history, err := w.ex.GetCandles(ctx, symbol, w.cfg.Watcher.Timeframe, w.cfg.Watcher.HistoryLimit)
	if err != nil {
		w.st.SetFeedUp(false)
		log.Printf("[WATCHER] %s: свечи недоступны: %v", symbol, err)
		return
	}
	w.st.SetFeedUp(true)
	if len(history) == 0 {
		return
	}

	opinions := strategy.CollectOpinions(ctx, w.src, history)
	sig := w.agg.Aggregate(opinions)
	w.st.TouchEval(time.Now())

	last := history[len(history)-1].Close
	log.Printf("[EVAL] %s %s conf=%.2f @ %.0f", symbol, sig.Action, sig.Confidence, last)

	if !w.agg.ShouldExecute(sig) {
		return
	}

	w.mu.Lock()
	if until, ok := w.cooldownTil[symbol]; ok && time.Now().Before(until) {
		w.mu.Unlock()
		return
	}
	w.cooldownTil[symbol] = time.Now().Add(w.cfg.Watcher.CheckInterval * 3)
	w.mu.Unlock()

	w.notifySignal(symbol, sig, last)
}

func (w *Watcher) notifySignal(symbol string, sig models.Signal, price float64) {
	emoji := "🟢"
	if sig.Action == models.ActionSell {
		emoji = "🔴"
	}
	w.n.Sendf("%s СИГНАЛ | %s %s @ %.0f\n"+
		"уверенность: %.2f (голоса: buy=%d sell=%d hold=%d)\n"+
		"SL: %.0f | TP: %.0f | доля депозита: %.0f%%\n"+
		"%s",
		emoji, sig.Action, symbol, price,
		sig.Confidence, sig.Votes.Buy, sig.Votes.Sell, sig.Votes.Hold,
		w.rm.StopLossPrice(price, sig.Action),
		w.rm.TakeProfitPrice(price, sig.Action),
		w.rm.MaxPositionPct()*100,
		sig.Reason,
	)
}
