// Package model fabricates classifier metrics and predictions for a dataset.
// Nothing here trains a real model: every number is a pseudo-random draw
// shaped by a few fixed heuristics, taken from an injected Source so that
// callers can make results reproducible.
package model

import (
	"math"
	"math/rand"
	"time"
)

// Source yields uniform draws in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded Source. A zero seed selects a time-based seed.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)) //nolint:gosec // simulated numbers, not security sensitive
}

// uniform draws from [lo, lo+span).
func uniform(src Source, lo, span float64) float64 {
	return lo + src.Float64()*span
}

// roundTo rounds half toward +Inf at the given number of decimals, matching
// the rounding the reports have always shown.
func roundTo(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Floor(x*p+0.5) / p
}

// percent1 converts a fraction to a percentage with one decimal place.
func percent1(frac float64) float64 {
	return math.Floor(frac*1000+0.5) / 10
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
