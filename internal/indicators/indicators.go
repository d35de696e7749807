// Package indicators — технический анализ поверх истории закрытых свечей.
// Все функции чистые: срез цен внутрь, последнее значение наружу.
package indicators

import "math"

// SMA — простая скользящая по последним period значениям.
func SMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// EMA — экспоненциальная скользящая, сид через SMA первых period значений.
func EMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	seed, _ := SMA(values[:period], period)
	k := 2.0 / float64(period+1)
	ema := seed
	for _, v := range values[period:] {
		ema = v*k + ema*(1-k)
	}
	return ema, true
}

// RSI по Уайлдеру. Нужно period+1 значений минимум.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}
	var gain, loss float64
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		g, l := 0.0, 0.0
		if d > 0 {
			g = d
		} else {
			l = -d
		}
		avgGain = (avgGain*float64(period-1) + g) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + l) / float64(period)
	}
	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// MACD(12,26,9): линия, сигнальная, гистограмма.
func MACD(closes []float64) (macd, signal, hist float64, ok bool) {
	const fast, slow, smooth = 12, 26, 9
	if len(closes) < slow+smooth {
		return 0, 0, 0, false
	}
	// серия MACD нужна целиком, чтобы сгладить сигнальную линию
	line := make([]float64, 0, len(closes)-slow+1)
	for i := slow; i <= len(closes); i++ {
		f, _ := EMA(closes[:i], fast)
		s, _ := EMA(closes[:i], slow)
		line = append(line, f-s)
	}
	sig, _ := EMA(line, smooth)
	m := line[len(line)-1]
	return m, sig, m - sig, true
}

// Bollinger — полосы Боллинджера: middle ± k*stddev.
func Bollinger(closes []float64, period int, k float64) (upper, middle, lower float64, ok bool) {
	mid, ok := SMA(closes, period)
	if !ok {
		return 0, 0, 0, false
	}
	var sq float64
	for _, v := range closes[len(closes)-period:] {
		d := v - mid
		sq += d * d
	}
	std := math.Sqrt(sq / float64(period))
	return mid + k*std, mid, mid - k*std, true
}

// ATR — средний истинный диапазон по Уайлдеру.
func ATR(highs, lows, closes []float64, period int) (float64, bool) {
	n := len(closes)
	if period <= 0 || n < period+1 || len(highs) != n || len(lows) != n {
		return 0, false
	}
	trueRange := func(i int) float64 {
		tr := highs[i] - lows[i]
		if d := math.Abs(highs[i] - closes[i-1]); d > tr {
			tr = d
		}
		if d := math.Abs(lows[i] - closes[i-1]); d > tr {
			tr = d
		}
		return tr
	}
	var sum float64
	for i := 1; i <= period; i++ {
		sum += trueRange(i)
	}
	atr := sum / float64(period)
	for i := period + 1; i < n; i++ {
		atr = (atr*float64(period-1) + trueRange(i)) / float64(period)
	}
	return atr, true
}

// ROC — rate of change за period баров, в процентах.
func ROC(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}
	prev := closes[len(closes)-1-period]
	if prev == 0 {
		return 0, false
	}
	return (closes[len(closes)-1] - prev) / prev * 100, true
}
