package service

import (
	"context"
	"testing"
	"time"

	"hybrid_bot/internal/models"
	"hybrid_bot/internal/modules/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatCandles(n int, price float64) []models.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      price,
			High:      price * 1.05,
			Low:       price * 0.95,
			Close:     price,
			Volume:    1,
		}
	}
	return out
}

func TestMomentumHoldOnFlat(t *testing.T) {
	m := NewMomentum(config.StrategyConfig{ROCPeriod: 10})

	op, err := m.Opinion(context.Background(), flatCandles(20, 100))
	require.NoError(t, err)
	assert.Equal(t, models.ActionHold, op.Action)
	assert.Zero(t, op.Confidence)
}

func TestMomentumBuyOnRise(t *testing.T) {
	m := NewMomentum(config.StrategyConfig{ROCPeriod: 10})

	bars := flatCandles(20, 100)
	bars[len(bars)-1].Close = 105 // roc +5% за 10 баров

	op, err := m.Opinion(context.Background(), bars)
	require.NoError(t, err)
	assert.Equal(t, models.ActionBuy, op.Action)
	assert.InDelta(t, 0.5, op.Confidence, 1e-9)
}

func TestMomentumNeutralWithoutHistory(t *testing.T) {
	m := NewMomentum(config.StrategyConfig{ROCPeriod: 10})

	op, err := m.Opinion(context.Background(), flatCandles(5, 100))
	require.NoError(t, err)
	assert.Equal(t, models.ActionHold, op.Action)
	assert.Zero(t, op.Confidence)
}

func TestBreakoutBuyAboveChannel(t *testing.T) {
	b := NewBreakout(config.StrategyConfig{BreakoutPeriod: 5, TrendEMA: 5})

	bars := flatCandles(12, 100) // канал [95, 105]
	bars[len(bars)-1].Close = 120
	bars[len(bars)-1].High = 121

	op, err := b.Opinion(context.Background(), bars)
	require.NoError(t, err)
	assert.Equal(t, models.ActionBuy, op.Action)
	// глубина пробоя 15 при ширине канала 10 — уверенность насыщается
	assert.InDelta(t, 1.0, op.Confidence, 1e-9)
}

func TestBreakoutHoldInsideChannel(t *testing.T) {
	b := NewBreakout(config.StrategyConfig{BreakoutPeriod: 5, TrendEMA: 5})

	op, err := b.Opinion(context.Background(), flatCandles(12, 100))
	require.NoError(t, err)
	assert.Equal(t, models.ActionHold, op.Action)
	assert.Zero(t, op.Confidence)
}

func TestBreakoutSellNeedsTrendConfirmation(t *testing.T) {
	b := NewBreakout(config.StrategyConfig{BreakoutPeriod: 5, TrendEMA: 5})

	bars := flatCandles(12, 100)
	bars[len(bars)-1].Close = 80
	bars[len(bars)-1].Low = 79

	op, err := b.Opinion(context.Background(), bars)
	require.NoError(t, err)
	assert.Equal(t, models.ActionSell, op.Action)
	assert.Greater(t, op.Confidence, 0.5)
}

func TestBreakoutNeutralWithoutHistory(t *testing.T) {
	b := NewBreakout(config.StrategyConfig{BreakoutPeriod: 20, TrendEMA: 50})

	op, err := b.Opinion(context.Background(), flatCandles(10, 100))
	require.NoError(t, err)
	assert.Equal(t, models.ActionHold, op.Action)
}

func TestTechnicalMixedVotesHold(t *testing.T) {
	tech := NewTechnical(config.StrategyConfig{
		RSIPeriod:     14,
		RSIOverbought: 70,
		RSIOversold:   30,
		EMAShort:      9,
		EMALong:       21,
	})

	// затяжное падение: RSI у нуля, EMA-кросс вниз, цена под нижней полосой
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Candle, 40)
	price := 200.0
	for i := range bars {
		price *= 0.99
		bars[i] = models.Candle{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      price / 0.99,
			High:      price * 1.01,
			Low:       price * 0.99,
			Close:     price,
			Volume:    1,
		}
	}

	op, err := tech.Opinion(context.Background(), bars)
	require.NoError(t, err)
	// голоса расходятся: RSI и боллинджер за вход, тренд против —
	// консенсуса 60% нет, источник честно держит hold
	assert.Equal(t, models.ActionHold, op.Action)
	assert.Greater(t, op.Confidence, 0.0)
}

func TestCollectOpinionsDegradesFailedSource(t *testing.T) {
	good := NewMomentum(config.StrategyConfig{ROCPeriod: 10})
	bad := failingSource{}

	ops := CollectOpinions(context.Background(), []Source{good, bad}, flatCandles(20, 100))
	require.Len(t, ops, 2)
	assert.Equal(t, models.ActionHold, ops[1].Action)
	assert.Zero(t, ops[1].Confidence)
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }
func (failingSource) Opinion(context.Context, []models.Candle) (models.Opinion, error) {
	return models.Opinion{}, assert.AnError
}
