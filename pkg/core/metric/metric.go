// Package metric defines the optional numeric value used throughout the
// analysis engine. A Metric is either a computed number or an explicit
// "unavailable" marker; downstream consumers must never confuse the two.
package metric

import "math"

// Epsilon is the smallest denominator magnitude considered safe to divide by.
// Anything below it degrades to an unavailable Metric instead of Inf/NaN.
const Epsilon = 1e-6

// Metric is an optionally-available numeric value. Unavailable metrics keep
// Value at zero, but consumers must check Available before reading it.
type Metric struct {
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
}

// Of wraps a computed value.
func Of(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Unavailable()
	}
	return Metric{Value: v, Available: true}
}

// Unavailable marks a value that could not be computed from the input.
func Unavailable() Metric {
	return Metric{}
}

// FromPtr lifts an optional input field into a Metric.
func FromPtr(p *float64) Metric {
	if p == nil {
		return Unavailable()
	}
	return Of(*p)
}

// Ratio divides num by den with the Epsilon guard.
func Ratio(num, den float64) Metric {
	if math.Abs(den) < Epsilon {
		return Unavailable()
	}
	return Of(num / den)
}

// Percent is Ratio scaled to a percentage.
func Percent(num, den float64) Metric {
	m := Ratio(num, den)
	if !m.Available {
		return m
	}
	return Of(m.Value * 100)
}

// Round returns the metric rounded to the given number of decimals.
// Unavailable metrics round to themselves.
func (m Metric) Round(decimals int) Metric {
	if !m.Available {
		return m
	}
	shift := math.Pow(10, float64(decimals))
	return Of(math.Round(m.Value*shift) / shift)
}

// Round2 matches the two-decimal presentation used across the result object.
func (m Metric) Round2() Metric { return m.Round(2) }

// Or returns the value when available, otherwise the fallback.
func (m Metric) Or(fallback float64) float64 {
	if m.Available {
		return m.Value
	}
	return fallback
}
