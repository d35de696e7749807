package models

import "time"

// Position — открытая сделка внутри одного прогона.
type Position struct {
	ID         int
	Symbol     string
	Side       Action // buy/sell
	EntryPrice float64
	Amount     float64 // базовая валюта, > 0
	EntryTime  time.Time
	StopLoss   float64
	TakeProfit float64
	Signal     Signal // сигнал, по которому вошли
}

// Trade — закрытая позиция. Append-only, после записи не мутируется.
type Trade struct {
	ID            int
	Symbol        string
	Side          Action
	EntryPrice    float64
	ExitPrice     float64
	Amount        float64
	PnL           float64
	PnLPct        float64
	EntryTime     time.Time
	ExitTime      time.Time
	DurationHours float64
	Signal        Signal
}
