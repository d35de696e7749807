package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	v, ok := SMA([]float64{1, 2, 3, 4, 5}, 5)
	require.True(t, ok)
	assert.InDelta(t, 3, v, 1e-9)

	// только хвост длиной period
	v, ok = SMA([]float64{100, 100, 1, 2, 3}, 3)
	require.True(t, ok)
	assert.InDelta(t, 2, v, 1e-9)

	_, ok = SMA([]float64{1, 2}, 3)
	assert.False(t, ok)

	_, ok = SMA([]float64{1, 2}, 0)
	assert.False(t, ok)
}

func TestEMAConstantSeries(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 42
	}
	v, ok := EMA(closes, 9)
	require.True(t, ok)
	assert.InDelta(t, 42, v, 1e-9)
}

func TestEMAFollowsTrend(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	short, ok := EMA(closes, 5)
	require.True(t, ok)
	long, ok := EMA(closes, 20)
	require.True(t, ok)
	// на растущем ряде короткая EMA выше длинной
	assert.Greater(t, short, long)
	assert.Less(t, short, closes[len(closes)-1])
}

func TestRSIExtremes(t *testing.T) {
	up := make([]float64, 20)
	for i := range up {
		up[i] = float64(i + 1)
	}
	v, ok := RSI(up, 14)
	require.True(t, ok)
	assert.InDelta(t, 100, v, 1e-9)

	down := make([]float64, 20)
	for i := range down {
		down[i] = float64(100 - i)
	}
	v, ok = RSI(down, 14)
	require.True(t, ok)
	assert.InDelta(t, 0, v, 1e-9)

	_, ok = RSI(up[:14], 14)
	assert.False(t, ok)
}

func TestRSIFlatIsHundred(t *testing.T) {
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 7
	}
	// нет потерь вообще -> avgLoss == 0 -> 100
	v, ok := RSI(flat, 14)
	require.True(t, ok)
	assert.InDelta(t, 100, v, 1e-9)
}

func TestMACDDirection(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	macd, signal, hist, ok := MACD(closes)
	require.True(t, ok)
	// устойчивый рост: быстрая EMA выше медленной
	assert.Greater(t, macd, 0.0)
	assert.InDelta(t, macd-signal, hist, 1e-9)

	_, _, _, ok = MACD(closes[:30])
	assert.False(t, ok)
}

func TestBollinger(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 50
	}
	upper, middle, lower, ok := Bollinger(closes, 20, 2)
	require.True(t, ok)
	// нулевая волатильность: все три полосы совпадают
	assert.InDelta(t, 50, upper, 1e-9)
	assert.InDelta(t, 50, middle, 1e-9)
	assert.InDelta(t, 50, lower, 1e-9)

	closes[len(closes)-1] = 60
	upper, middle, lower, ok = Bollinger(closes, 20, 2)
	require.True(t, ok)
	assert.Greater(t, upper, middle)
	assert.Less(t, lower, middle)
}

func TestATR(t *testing.T) {
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 105
		lows[i] = 95
		closes[i] = 100
	}
	v, ok := ATR(highs, lows, closes, 14)
	require.True(t, ok)
	assert.InDelta(t, 10, v, 1e-9)

	_, ok = ATR(highs[:n-1], lows, closes, 14)
	assert.False(t, ok)
}

func TestROC(t *testing.T) {
	closes := []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 110}
	v, ok := ROC(closes, 10)
	require.True(t, ok)
	assert.InDelta(t, 10, v, 1e-9)

	_, ok = ROC(closes, 11)
	assert.False(t, ok)

	_, ok = ROC([]float64{0, 5}, 1)
	assert.False(t, ok)
}
