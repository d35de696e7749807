package backtests

import (
	"context"
	"fmt"
	"time"

	"hybrid_bot/internal/models"
	"hybrid_bot/internal/store/backtests/sql"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
)

// Backtests implement db store
type Backtests struct {
	sql *sql.Queries
}

// New instance
func New() *Backtests {
	return &Backtests{
		sql: sql.New(),
	}
}

// RunSummary — строка листинга без тяжёлых блобов.
type RunSummary struct {
	ID             int64
	CreatedAt      time.Time
	Symbol         string
	Timeframe      string
	InitialBalance float64
	FinalBalance   float64
	TotalTrades    int
	WinRatePct     float64
	SharpeRatio    float64
}

func (b *Backtests) Insert(ctx context.Context, tx pgx.Tx, symbol, timeframe string, res *models.BacktestResult) (id int64, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Backtests.Insert: %w", err)
		}
	}()

	equity, err := sonic.Marshal(res.EquityCurve)
	if err != nil {
		return 0, err
	}
	trades, err := sonic.Marshal(res.Trades)
	if err != nil {
		return 0, err
	}

	return b.sql.Insert(ctx, tx, &sql.InsertParams{
		Symbol:         symbol,
		Timeframe:      timeframe,
		InitialBalance: res.InitialBalance,
		FinalBalance:   res.FinalBalance,
		TotalReturnPct: res.TotalReturnPct,
		TotalPnl:       res.TotalPnL,
		TotalTrades:    int32(res.TotalTrades),
		WinningTrades:  int32(res.WinningTrades),
		LosingTrades:   int32(res.LosingTrades),
		WinRatePct:     res.WinRatePct,
		AvgWin:         res.AvgWin,
		AvgLoss:        res.AvgLoss,
		ProfitFactor:   res.ProfitFactor,
		MaxDrawdownPct: res.MaxDrawdownPct,
		SharpeRatio:    res.SharpeRatio,
		Equity:         equity,
		Trades:         trades,
	})
}

func (b *Backtests) GetById(ctx context.Context, tx pgx.Tx, id int64) (res *models.BacktestResult, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Backtests.GetById: %w", err)
		}
	}()

	row, err := b.sql.GetById(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	res = &models.BacktestResult{
		InitialBalance: row.InitialBalance,
		FinalBalance:   row.FinalBalance,
		TotalReturnPct: row.TotalReturnPct,
		TotalPnL:       row.TotalPnl,
		TotalTrades:    int(row.TotalTrades),
		WinningTrades:  int(row.WinningTrades),
		LosingTrades:   int(row.LosingTrades),
		WinRatePct:     row.WinRatePct,
		AvgWin:         row.AvgWin,
		AvgLoss:        row.AvgLoss,
		ProfitFactor:   row.ProfitFactor,
		MaxDrawdownPct: row.MaxDrawdownPct,
		SharpeRatio:    row.SharpeRatio,
	}
	if err = sonic.Unmarshal(row.Equity, &res.EquityCurve); err != nil {
		return nil, err
	}
	if err = sonic.Unmarshal(row.Trades, &res.Trades); err != nil {
		return nil, err
	}
	return res, nil
}

func (b *Backtests) ListRecent(ctx context.Context, tx pgx.Tx, limit int) (out []RunSummary, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Backtests.ListRecent: %w", err)
		}
	}()

	rows, err := b.sql.ListRecent(ctx, tx, int32(limit))
	if err != nil {
		return nil, err
	}
	out = make([]RunSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, RunSummary{
			ID:             r.ID,
			CreatedAt:      r.CreatedAt.Time,
			Symbol:         r.Symbol,
			Timeframe:      r.Timeframe,
			InitialBalance: r.InitialBalance,
			FinalBalance:   r.FinalBalance,
			TotalTrades:    int(r.TotalTrades),
			WinRatePct:     r.WinRatePct,
			SharpeRatio:    r.SharpeRatio,
		})
	}
	return out, nil
}
