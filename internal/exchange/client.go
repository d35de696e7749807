package exchange

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hybrid_bot/internal/models"
)

// Order — результат выставления/листинга заявки на бирже.
type Order struct {
	ID     string
	Symbol string
	Side   models.Action
	Amount float64
	Price  float64
	Status string
}

// Client — единый контракт биржи: данные рынка + заявки.
// Ядро решений только потребляет этот интерфейс, живого роутинга заявок тут нет.
type Client interface {
	GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error)
	GetTicker(ctx context.Context, symbol string) (models.Ticker, error)
	GetBalance(ctx context.Context) (map[string]float64, error)

	// price == nil => рыночная заявка
	PlaceOrder(ctx context.Context, symbol string, side models.Action, amount float64, price *float64) (Order, error)
	CancelOrder(ctx context.Context, orderID string) error
	GetOpenOrders(ctx context.Context, symbol string) ([]Order, error)
}

// таймфрейм -> resolution для udf-истории
var resolutionMap = map[string]string{
	"1m":  "1",
	"5m":  "5",
	"15m": "15",
	"30m": "30",
	"1h":  "60",
	"4h":  "240",
	"1d":  "D",
}

func resolution(timeframe string) string {
	if r, ok := resolutionMap[timeframe]; ok {
		return r
	}
	return "60"
}

func timeframeSeconds(timeframe string) int64 {
	switch resolution(timeframe) {
	case "1":
		return 60
	case "5":
		return 300
	case "15":
		return 900
	case "30":
		return 1800
	case "60":
		return 3600
	case "240":
		return 14400
	case "D":
		return 86400
	}
	return 3600
}

var knownQuotes = []string{"IRT", "TMN", "USDT", "RLS"}

// splitSymbol разбирает BTCIRT на (btc, irt).
func splitSymbol(symbol string) (src, dst string, err error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	for _, q := range knownQuotes {
		if strings.HasSuffix(s, q) && len(s) > len(q) {
			return strings.ToLower(s[:len(s)-len(q)]), strings.ToLower(q), nil
		}
	}
	return "", "", fmt.Errorf("splitSymbol: unknown quote currency in %q", symbol)
}

// withRetry — до attempts попыток с линейно растущей паузой.
func withRetry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay * time.Duration(i+1)):
		}
	}
	return err
}
