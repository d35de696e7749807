package service

import (
	"context"
	"fmt"
	"math"

	"hybrid_bot/internal/indicators"
	"hybrid_bot/internal/models"
	"hybrid_bot/internal/modules/config"
)

// momentumEntryPct — минимальный ROC в процентах, чтобы вообще голосовать.
const momentumEntryPct = 1.5

// Momentum — направление по скорости изменения цены (ROC).
// Уверенность растёт с модулем ROC и насыщается на 10%.
type Momentum struct {
	period int
}

func NewMomentum(cfg config.StrategyConfig) *Momentum {
	period := cfg.ROCPeriod
	if period <= 0 {
		period = 10
	}
	return &Momentum{period: period}
}

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) Opinion(_ context.Context, history []models.Candle) (models.Opinion, error) {
	closes := make([]float64, len(history))
	for i, c := range history {
		closes[i] = c.Close
	}

	roc, ok := indicators.ROC(closes, m.period)
	if !ok {
		return models.NeutralOpinion("momentum: not enough history"), nil
	}

	action := models.ActionHold
	switch {
	case roc > momentumEntryPct:
		action = models.ActionBuy
	case roc < -momentumEntryPct:
		action = models.ActionSell
	}

	confidence := math.Min(math.Abs(roc)/10, 1)
	if action == models.ActionHold {
		confidence = 0
	}

	return models.Opinion{
		Action:     action,
		Confidence: confidence,
		Reason:     fmt.Sprintf("momentum: roc %+.2f%%", roc),
	}, nil
}
