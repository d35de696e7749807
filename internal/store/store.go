package store

import (
	"context"
	"fmt"

	"hybrid_bot/internal/models"
	"hybrid_bot/internal/store/backtests"
	"hybrid_bot/pkg/db"

	"github.com/jackc/pgx/v5"
)

// Store — постоянка для результатов прогонов. Вся работа с БД идёт
// через транзакционный менеджер, блобы (кривая, сделки) лежат в jsonb.
type Store struct {
	db        db.TxManager
	backtests *backtests.Backtests
}

func New(tm db.TxManager) *Store {
	return &Store{
		db:        tm,
		backtests: backtests.New(),
	}
}

func (s *Store) SaveResult(ctx context.Context, symbol, timeframe string, res *models.BacktestResult) (id int64, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("store.SaveResult: %w", err)
		}
	}()
	err = s.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			id, err = s.backtests.Insert(ctxTx, tx, symbol, timeframe, res)
			return err
		})
	return id, err
}

func (s *Store) Result(ctx context.Context, id int64) (res *models.BacktestResult, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("store.Result: %w", err)
		}
	}()
	err = s.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			res, err = s.backtests.GetById(ctxTx, tx, id)
			return err
		})
	return res, err
}

func (s *Store) Recent(ctx context.Context, limit int) (out []backtests.RunSummary, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("store.Recent: %w", err)
		}
	}()
	err = s.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			out, err = s.backtests.ListRecent(ctxTx, tx, limit)
			return err
		})
	return out, err
}
