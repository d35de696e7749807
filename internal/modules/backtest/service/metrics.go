package service

import (
	"math"

	"hybrid_bot/internal/models"
)

// годовой множитель Шарпа для дневных баров
const annualizationFactor = 252

func computeMetrics(initialBalance float64, equity []float64, trades []models.Trade) *models.BacktestResult {
	if len(trades) == 0 {
		return emptyResult(initialBalance)
	}

	final := equity[len(equity)-1]

	var totalPnL, winSum, lossSum float64
	var wins, losses int
	for _, t := range trades {
		totalPnL += t.PnL
		switch {
		case t.PnL > 0:
			wins++
			winSum += t.PnL
		case t.PnL < 0:
			losses++
			lossSum += -t.PnL
		}
	}

	var avgWin, avgLoss float64
	if wins > 0 {
		avgWin = winSum / float64(wins)
	}
	if losses > 0 {
		avgLoss = lossSum / float64(losses)
	}

	profitFactor := 0.0
	if avgLoss > 0 && len(trades)-wins > 0 {
		profitFactor = (avgWin * float64(wins)) / (avgLoss * float64(len(trades)-wins))
	}

	return &models.BacktestResult{
		InitialBalance: initialBalance,
		FinalBalance:   final,
		TotalReturnPct: (final - initialBalance) / initialBalance * 100,
		TotalPnL:       totalPnL,

		TotalTrades:   len(trades),
		WinningTrades: wins,
		LosingTrades:  len(trades) - wins,
		WinRatePct:    float64(wins) / float64(len(trades)) * 100,
		AvgWin:        avgWin,
		AvgLoss:       avgLoss,
		ProfitFactor:  profitFactor,

		MaxDrawdownPct: maxDrawdownPct(equity),
		SharpeRatio:    sharpeRatio(equity),

		EquityCurve: equity,
		Trades:      trades,
	}
}

// maxDrawdownPct — максимальная просадка от бегущего пика, положительная величина.
func maxDrawdownPct(equity []float64) float64 {
	var peak, maxDD float64
	for i, e := range equity {
		if i == 0 || e > peak {
			peak = e
		}
		if peak > 0 {
			if dd := (peak - e) / peak * 100; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// sharpeRatio — упрощённый Шарп по побарным доходностям кривой капитала.
func sharpeRatio(equity []float64) float64 {
	if len(equity) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1] == 0 {
			return 0
		}
		returns = append(returns, equity[i]/equity[i-1]-1)
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(annualizationFactor)
}
