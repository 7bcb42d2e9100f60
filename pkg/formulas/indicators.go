package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// SMA returns the simple moving average aligned with values.
// Positions inside the warm-up window (the first period-1) are nil.
func SMA(values []float64, period int) []*float64 {
	if period < 1 || len(values) < period {
		return make([]*float64, len(values))
	}
	return align(talib.Sma(values, period), period-1)
}

// EMA returns the exponential moving average aligned with values.
// Positions inside the warm-up window (the first period-1) are nil.
func EMA(values []float64, period int) []*float64 {
	if period < 1 || len(values) < period {
		return make([]*float64, len(values))
	}
	return align(talib.Ema(values, period), period-1)
}

// RSI returns the relative strength index aligned with values.
// The first period positions are nil.
func RSI(values []float64, period int) []*float64 {
	if period < 2 || len(values) <= period {
		return make([]*float64, len(values))
	}
	return align(talib.Rsi(values, period), period)
}

// Last returns the last non-nil value of an aligned indicator series.
func Last(series []*float64) *float64 {
	for i := len(series) - 1; i >= 0; i-- {
		if series[i] != nil {
			return series[i]
		}
	}
	return nil
}

// align converts talib output (zero-filled during warm-up) into nil-filled pointers.
func align(out []float64, lookback int) []*float64 {
	result := make([]*float64, len(out))
	for i := lookback; i < len(out); i++ {
		v := out[i]
		if isNaN(v) {
			continue
		}
		result[i] = &v
	}
	return result
}

func isNaN(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
