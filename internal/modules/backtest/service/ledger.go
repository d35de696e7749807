package service

import (
	"log"
	"time"

	"hybrid_bot/internal/models"
	risk "hybrid_bot/internal/modules/risk/service"
)

// Ledger — состояние одного прогона: баланс, открытые позиции, закрытые
// сделки и кривая капитала. Никогда не шарится между прогонами.
type Ledger struct {
	balance float64
	nextID  int

	open   []*models.Position
	trades []models.Trade
	equity []float64
}

func NewLedger(initialBalance float64) *Ledger {
	return &Ledger{
		balance: initialBalance,
		nextID:  1,
		equity:  []float64{initialBalance},
	}
}

func (l *Ledger) Balance() float64       { return l.balance }
func (l *Ledger) EquityCurve() []float64 { return l.equity }
func (l *Ledger) Trades() []models.Trade { return l.trades }

// OpenPositions — живой срез, читать только внутри движка.
func (l *Ledger) OpenPositions() []*models.Position { return l.open }

// Open пытается открыть позицию по сигналу. Любая причина отказа
// (нулевой размер, нехватка баланса, не прошла валидация) — тихий скип
// бара, а не ошибка прогона.
func (l *Ledger) Open(sig models.Signal, symbol string, price float64, ts time.Time, rm *risk.Manager) bool {
	notional := rm.PositionSize(l.balance, price)
	if notional <= 0 || price <= 0 {
		return false
	}
	amount := notional / price

	cost := amount * price
	if cost > l.balance {
		return false
	}

	if ok, reason := rm.ValidateOrder(sig.Action, amount, price, l.balance); !ok {
		log.Printf("[BT] order rejected: %s", reason)
		return false
	}

	pos := &models.Position{
		ID:         l.nextID,
		Symbol:     symbol,
		Side:       sig.Action,
		EntryPrice: price,
		Amount:     amount,
		EntryTime:  ts,
		StopLoss:   rm.StopLossPrice(price, sig.Action),
		TakeProfit: rm.TakeProfitPrice(price, sig.Action),
		Signal:     sig,
	}
	l.nextID++
	l.open = append(l.open, pos)
	l.balance -= cost

	return true
}

// Close реализует PnL и переносит позицию в журнал сделок.
func (l *Ledger) Close(pos *models.Position, exitPrice float64, ts time.Time) models.Trade {
	pnl := signedPnL(pos.Side, pos.EntryPrice, exitPrice, pos.Amount)

	l.balance += pos.Amount*exitPrice + pnl

	trade := models.Trade{
		ID:            pos.ID,
		Symbol:        pos.Symbol,
		Side:          pos.Side,
		EntryPrice:    pos.EntryPrice,
		ExitPrice:     exitPrice,
		Amount:        pos.Amount,
		PnL:           pnl,
		PnLPct:        pnl / (pos.EntryPrice * pos.Amount) * 100,
		EntryTime:     pos.EntryTime,
		ExitTime:      ts,
		DurationHours: ts.Sub(pos.EntryTime).Hours(),
		Signal:        pos.Signal,
	}
	l.trades = append(l.trades, trade)

	for i, p := range l.open {
		if p == pos {
			l.open = append(l.open[:i], l.open[i+1:]...)
			break
		}
	}

	return trade
}

// MarkToMarket добавляет точку кривой капитала: баланс + нереализованный PnL
// открытых позиций по текущей цене.
func (l *Ledger) MarkToMarket(price float64) float64 {
	equity := l.balance
	for _, pos := range l.open {
		equity += signedPnL(pos.Side, pos.EntryPrice, price, pos.Amount)
	}
	l.equity = append(l.equity, equity)
	return equity
}

func signedPnL(side models.Action, entry, exit, amount float64) float64 {
	if side == models.ActionBuy {
		return (exit - entry) * amount
	}
	return (entry - exit) * amount
}
