package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hybrid_bot/internal/models"
)

func op(a models.Action, conf float64) models.Opinion {
	return models.Opinion{Action: a, Confidence: conf, Reason: string(a)}
}

func TestAggregateNoOpinions(t *testing.T) {
	a := NewAggregatorWithThreshold(0.5)

	sig := a.Aggregate(nil)
	assert.Equal(t, models.ActionHold, sig.Action)
	assert.Zero(t, sig.Confidence)
	assert.Equal(t, "no signals", sig.Reason)
}

func TestAggregateTieIsHoldWithZeroStrength(t *testing.T) {
	a := NewAggregatorWithThreshold(0.0)

	sig := a.Aggregate([]models.Opinion{
		op(models.ActionBuy, 0.9),
		op(models.ActionSell, 0.9),
	})
	assert.Equal(t, models.ActionHold, sig.Action)
	assert.Zero(t, sig.Confidence) // strength=0 зануляет любую среднюю уверенность
	assert.Equal(t, models.VoteCounts{Buy: 1, Sell: 1, Hold: 0, Total: 2}, sig.Votes)
}

func TestAggregateThresholdPreservesConfidence(t *testing.T) {
	a := NewAggregatorWithThreshold(0.7)

	// avg=0.5, strength=1 => final=0.5 < 0.7
	sig := a.Aggregate([]models.Opinion{
		op(models.ActionBuy, 0.5),
		op(models.ActionBuy, 0.5),
	})
	assert.Equal(t, models.ActionHold, sig.Action)
	assert.InDelta(t, 0.5, sig.Confidence, 1e-9) // не зануляется
	assert.Contains(t, sig.Reason, "below threshold")
}

func TestAggregateBuyConsensusScenario(t *testing.T) {
	a := NewAggregatorWithThreshold(0.5)

	// avg=(0.9+0.8+0.1)/3=0.6, strength=2/3, final=0.4 < 0.5 => hold с conf 0.4
	sig := a.Aggregate([]models.Opinion{
		op(models.ActionBuy, 0.9),
		op(models.ActionBuy, 0.8),
		op(models.ActionHold, 0.1),
	})
	assert.Equal(t, models.ActionHold, sig.Action)
	assert.InDelta(t, 0.4, sig.Confidence, 1e-9)
	assert.Equal(t, models.VoteCounts{Buy: 2, Sell: 0, Hold: 1, Total: 3}, sig.Votes)
}

func TestAggregateBuyClearsThreshold(t *testing.T) {
	a := NewAggregatorWithThreshold(0.5)

	sig := a.Aggregate([]models.Opinion{
		op(models.ActionBuy, 0.9),
		op(models.ActionBuy, 0.9),
		op(models.ActionBuy, 0.9),
	})
	assert.Equal(t, models.ActionBuy, sig.Action)
	assert.InDelta(t, 0.9, sig.Confidence, 1e-9)
	assert.True(t, a.ShouldExecute(sig))
}

func TestAggregateHoldPluralityKeepsOwnConfidence(t *testing.T) {
	a := NewAggregatorWithThreshold(0.0)

	// hold побеждает честно: strength=2/3, avg=0.6 => conf=0.4, и это не ноль
	sig := a.Aggregate([]models.Opinion{
		op(models.ActionHold, 0.8),
		op(models.ActionHold, 0.6),
		op(models.ActionBuy, 0.4),
	})
	assert.Equal(t, models.ActionHold, sig.Action)
	assert.InDelta(t, 0.6*(2.0/3.0), sig.Confidence, 1e-9)
	// hold не исполняется независимо от уверенности
	assert.False(t, a.ShouldExecute(sig))
}

func TestAggregateIdempotent(t *testing.T) {
	a := NewAggregatorWithThreshold(0.5)

	opinions := []models.Opinion{
		op(models.ActionSell, 0.7),
		op(models.ActionSell, 0.9),
		op(models.ActionBuy, 0.2),
	}
	first := a.Aggregate(opinions)
	second := a.Aggregate(opinions)
	assert.Equal(t, first, second)
}

func TestShouldExecute(t *testing.T) {
	a := NewAggregatorWithThreshold(0.5)

	assert.False(t, a.ShouldExecute(models.Signal{Action: models.ActionHold, Confidence: 0.9}))
	assert.False(t, a.ShouldExecute(models.Signal{Action: models.ActionBuy, Confidence: 0.49}))
	assert.True(t, a.ShouldExecute(models.Signal{Action: models.ActionBuy, Confidence: 0.5}))
	assert.True(t, a.ShouldExecute(models.Signal{Action: models.ActionSell, Confidence: 0.8}))
}
