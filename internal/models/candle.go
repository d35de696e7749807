package models

import "time"

// Candle — закрытая OHLCV-свеча. Close используется как цена исполнения.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64

	// опциональные значения индикаторов, посчитанные слоем данных
	Indicators map[string]float64
}

type Ticker struct {
	Symbol string
	Bid    float64
	Ask    float64
	Last   float64
}
