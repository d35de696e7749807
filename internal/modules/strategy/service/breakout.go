package service

import (
	"context"
	"fmt"
	"math"

	"hybrid_bot/internal/indicators"
	"hybrid_bot/internal/models"
	"hybrid_bot/internal/modules/config"
)

// Breakout — пробой ценового канала (max/min за период) с EMA-фильтром:
// торгуем только пробои в сторону тренда, чтобы не ловить ложные выносы.
type Breakout struct {
	period   int
	trendEMA int
}

func NewBreakout(cfg config.StrategyConfig) *Breakout {
	period := cfg.BreakoutPeriod
	if period <= 0 {
		period = 20
	}
	trend := cfg.TrendEMA
	if trend <= 0 {
		trend = 50
	}
	return &Breakout{period: period, trendEMA: trend}
}

func (b *Breakout) Name() string { return "breakout" }

func (b *Breakout) Opinion(_ context.Context, history []models.Candle) (models.Opinion, error) {
	need := b.period + 1
	if b.trendEMA+1 > need {
		need = b.trendEMA + 1
	}
	if len(history) < need {
		return models.NeutralOpinion("breakout: not enough history"), nil
	}

	last := history[len(history)-1]

	// канал строится по барам до текущего, иначе пробой сливается с каналом
	window := history[len(history)-1-b.period : len(history)-1]
	high, low := window[0].High, window[0].Low
	for _, c := range window[1:] {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}

	closes := make([]float64, len(history))
	for i, c := range history {
		closes[i] = c.Close
	}
	ema, ok := indicators.EMA(closes, b.trendEMA)
	if !ok {
		return models.NeutralOpinion("breakout: not enough history"), nil
	}

	action := models.ActionHold
	var depth float64
	switch {
	case last.Close > high && last.Close > ema:
		action = models.ActionBuy
		depth = last.Close - high
	case last.Close < low && last.Close < ema:
		action = models.ActionSell
		depth = low - last.Close
	}

	if action == models.ActionHold {
		return models.Opinion{
			Action: models.ActionHold,
			Reason: "breakout: inside channel",
		}, nil
	}

	// уверенность — глубина пробоя к ширине канала, с насыщением
	confidence := 0.5
	if width := high - low; width > 0 {
		confidence = math.Min(0.5+depth/width, 1)
	}

	return models.Opinion{
		Action:     action,
		Confidence: confidence,
		Reason:     fmt.Sprintf("breakout: close %.2f vs channel [%.2f, %.2f], ema %.2f", last.Close, low, high, ema),
	}, nil
}
