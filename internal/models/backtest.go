package models

// BacktestResult — итог одного прогона. Создаётся один раз, дальше read-only.
type BacktestResult struct {
	InitialBalance float64
	FinalBalance   float64
	TotalReturnPct float64
	TotalPnL       float64

	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRatePct    float64
	AvgWin        float64
	AvgLoss       float64
	ProfitFactor  float64

	MaxDrawdownPct float64
	SharpeRatio    float64

	EquityCurve []float64 // balance + unrealized, одна точка на бар (+ стартовая)
	Trades      []Trade
}
