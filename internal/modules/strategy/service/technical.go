package service

import (
	"context"
	"fmt"

	"hybrid_bot/internal/indicators"
	"hybrid_bot/internal/models"
	"hybrid_bot/internal/modules/config"
)

// minTechnicalHistory — хватает на MACD(26)+signal(9) с запасом.
const minTechnicalHistory = 35

// Technical — голосование классических индикаторов по последнему бару:
// RSI, MACD против сигнальной, кросс EMA, цена против полос Боллинджера.
type Technical struct {
	cfg config.StrategyConfig
}

func NewTechnical(cfg config.StrategyConfig) *Technical {
	return &Technical{cfg: cfg}
}

func (t *Technical) Name() string { return "technical" }

func (t *Technical) Opinion(_ context.Context, history []models.Candle) (models.Opinion, error) {
	if len(history) < minTechnicalHistory {
		return models.NeutralOpinion("technical: not enough history"), nil
	}

	closes := make([]float64, len(history))
	for i, c := range history {
		closes[i] = c.Close
	}
	last := closes[len(closes)-1]

	var buy, sell, total int

	if rsi, ok := indicators.RSI(closes, t.cfg.RSIPeriod); ok {
		total++
		switch {
		case rsi < t.cfg.RSIOversold:
			buy++
		case rsi > t.cfg.RSIOverbought:
			sell++
		}
	}

	if macd, signal, _, ok := indicators.MACD(closes); ok {
		total++
		if macd > signal {
			buy++
		} else {
			sell++
		}
	}

	emaShort, okS := indicators.EMA(closes, t.cfg.EMAShort)
	emaLong, okL := indicators.EMA(closes, t.cfg.EMALong)
	if okS && okL {
		total++
		if emaShort > emaLong {
			buy++
		} else {
			sell++
		}
	}

	if upper, _, lower, ok := indicators.Bollinger(closes, 20, 2); ok {
		total++
		switch {
		case last < lower:
			buy++
		case last > upper:
			sell++
		}
	}

	if total == 0 {
		return models.NeutralOpinion("technical: no indicators"), nil
	}

	buyScore := float64(buy) / float64(total)
	sellScore := float64(sell) / float64(total)

	action := models.ActionHold
	switch {
	case buyScore > 0.6:
		action = models.ActionBuy
	case sellScore > 0.6:
		action = models.ActionSell
	}

	confidence := buyScore
	if sellScore > confidence {
		confidence = sellScore
	}

	return models.Opinion{
		Action:     action,
		Confidence: confidence,
		Reason:     fmt.Sprintf("technical indicators: %s", action),
	}, nil
}
