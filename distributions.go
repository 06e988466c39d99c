// -*- tab-width:2 -*-

package sim

// This file has the inverse cdf's used to turn a draw from the
// shared uniform stream into a delay.

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ModelCdf maps a probability p in [0,1) to a value of the random
// variable, i.e. the inverse of its CDF.
type ModelCdf func(p float64) float64

// Uniform is the single source of [0,1) draws for a run. Every
// random decision in the engine is taken from it, in a fixed order,
// so a seeded source reproduces a run exactly.
type Uniform interface {
	Float64() float64
}

// UniformCDF returns the inverse CDF of a uniform random variable over [a, b].
func UniformCDF(a, b float64) ModelCdf {
	u := distuv.Uniform{Min: a, Max: b}

	return func(p float64) float64 {
		return u.Quantile(clamp(p))
	}
}

// ExponentialCDF returns the inverse CDF of an exponential random
// variable with the given mean. p is kept below 1 so the result is
// always finite.
func ExponentialCDF(mean float64) ModelCdf {
	e := distuv.Exponential{Rate: 1 / mean}
	top := math.Nextafter(1, 0)

	return func(p float64) float64 {
		return e.Quantile(math.Min(clamp(p), top))
	}
}

// ConstantCDF always returns v.
func ConstantCDF(v float64) ModelCdf {
	return func(float64) float64 {
		return v
	}
}

func clamp(p float64) float64 {
	if p < 0 {
		return 0
	}

	if p > 1 {
		return 1
	}

	return p
}
