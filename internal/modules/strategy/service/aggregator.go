package service

import (
	"fmt"
	"strings"

	"hybrid_bot/internal/models"
	"hybrid_bot/internal/modules/config"
)

// Aggregator сводит мнения независимых источников в одно решение.
// Порог уверенности один и тот же для Aggregate и ShouldExecute — оба метода
// намеренно живут на одном инстансе, чтобы их нельзя было рассинхронизировать.
type Aggregator struct {
	threshold float64
}

func NewAggregator(cfg *config.Config) *Aggregator {
	return NewAggregatorWithThreshold(cfg.Strategy.ConfidenceThreshold)
}

func NewAggregatorWithThreshold(threshold float64) *Aggregator {
	return &Aggregator{threshold: threshold}
}

func (a *Aggregator) Threshold() float64 { return a.threshold }

// Aggregate — правило консенсуса:
//  1. простое большинство строго против обоих соперников, иначе hold;
//  2. уверенность = невзвешенное среднее по источникам * доля голосов
//     победителя (каждый источник весит одинаково — сознательное упрощение);
//  3. ниже порога действие принудительно hold, но рассчитанная уверенность
//     сохраняется — по ней видно, насколько сигнал не дотянул.
func (a *Aggregator) Aggregate(opinions []models.Opinion) models.Signal {
	if len(opinions) == 0 {
		return models.Signal{
			Action:     models.ActionHold,
			Confidence: 0,
			Reason:     "no signals",
		}
	}

	votes := models.VoteCounts{Total: len(opinions)}
	var confSum float64
	reasons := make([]string, 0, len(opinions)+1)
	for _, op := range opinions {
		switch op.Action {
		case models.ActionBuy:
			votes.Buy++
		case models.ActionSell:
			votes.Sell++
		default:
			votes.Hold++
		}
		confSum += op.Confidence
		if op.Reason != "" {
			reasons = append(reasons, op.Reason)
		}
	}
	avgConfidence := confSum / float64(votes.Total)

	action := models.ActionHold
	strength := 0.0
	switch {
	case votes.Buy > votes.Sell && votes.Buy > votes.Hold:
		action = models.ActionBuy
		strength = float64(votes.Buy) / float64(votes.Total)
	case votes.Sell > votes.Buy && votes.Sell > votes.Hold:
		action = models.ActionSell
		strength = float64(votes.Sell) / float64(votes.Total)
	case votes.Hold > votes.Buy && votes.Hold > votes.Sell:
		// hold тоже может победить честно — тогда у него есть сила сигнала
		action = models.ActionHold
		strength = float64(votes.Hold) / float64(votes.Total)
	}

	confidence := avgConfidence * strength

	if confidence < a.threshold {
		action = models.ActionHold
		reasons = append(reasons, fmt.Sprintf("confidence %.2f below threshold %.2f", confidence, a.threshold))
	}

	return models.Signal{
		Action:     action,
		Confidence: confidence,
		Reason:     strings.Join(reasons, " | "),
		Votes:      votes,
	}
}

// ShouldExecute — исполняем только не-hold с уверенностью не ниже порога.
func (a *Aggregator) ShouldExecute(sig models.Signal) bool {
	return sig.Action != models.ActionHold && sig.Confidence >= a.threshold
}
