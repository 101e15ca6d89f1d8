package logic

import (
	"math"
	"sort"
)

// round2 rounds half away from zero to two decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median does not modify values
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func hitRate(hits, games int) float64 {
	if games == 0 {
		return 0
	}
	return round2(100 * float64(hits) / float64(games))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
