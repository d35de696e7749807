package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hybrid_bot/internal/models"
)

func tradeWithPnL(pnl float64) models.Trade {
	now := time.Now()
	return models.Trade{
		Side:      models.ActionBuy,
		PnL:       pnl,
		EntryTime: now,
		ExitTime:  now.Add(time.Hour),
	}
}

func TestComputeMetricsNoTrades(t *testing.T) {
	res := computeMetrics(1000, []float64{1000, 1000}, nil)

	assert.Equal(t, 1000.0, res.InitialBalance)
	assert.Equal(t, 1000.0, res.FinalBalance)
	assert.Zero(t, res.TotalTrades)
	assert.Zero(t, res.TotalReturnPct)
	assert.Zero(t, res.SharpeRatio)
}

func TestComputeMetricsSingleWinner(t *testing.T) {
	// единственная прибыльная сделка: win rate 100, profit factor 0 (нет лузеров)
	res := computeMetrics(1000, []float64{1000, 2000}, []models.Trade{tradeWithPnL(1000)})

	assert.Equal(t, 1, res.TotalTrades)
	assert.Equal(t, 1, res.WinningTrades)
	assert.Zero(t, res.LosingTrades)
	assert.InDelta(t, 100, res.WinRatePct, 1e-9)
	assert.InDelta(t, 1000, res.AvgWin, 1e-9)
	assert.Zero(t, res.AvgLoss)
	assert.Zero(t, res.ProfitFactor)
	assert.InDelta(t, 100, res.TotalReturnPct, 1e-9)
}

func TestComputeMetricsProfitFactor(t *testing.T) {
	trades := []models.Trade{
		tradeWithPnL(300),
		tradeWithPnL(100),
		tradeWithPnL(-100),
	}
	res := computeMetrics(1000, []float64{1000, 1300}, trades)

	// avgWin=200, wins=2, avgLoss=100, losses=1 => pf=4
	assert.InDelta(t, 4, res.ProfitFactor, 1e-9)
	assert.InDelta(t, 200, res.AvgWin, 1e-9)
	assert.InDelta(t, 100, res.AvgLoss, 1e-9)
	assert.InDelta(t, 100*2.0/3.0, res.WinRatePct, 1e-9)
}

func TestMaxDrawdownPct(t *testing.T) {
	// пик 1200, дно 900 => просадка 25%
	dd := maxDrawdownPct([]float64{1000, 1200, 900, 1100})
	assert.InDelta(t, 25, dd, 1e-9)

	assert.Zero(t, maxDrawdownPct([]float64{1000, 1100, 1200}))
}

func TestSharpeRatioZeroStd(t *testing.T) {
	assert.Zero(t, sharpeRatio([]float64{1000, 1000, 1000}))
	assert.Zero(t, sharpeRatio([]float64{1000}))
}

func TestSharpeRatioPositiveDrift(t *testing.T) {
	eq := []float64{1000, 1010, 1021, 1030, 1042, 1050}
	assert.Greater(t, sharpeRatio(eq), 0.0)
}
