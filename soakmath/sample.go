// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soakmath

import (
	"math"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat"
)

// A Sample is a group of observations of one experiment under one
// variant. Its values are kept sorted, which makes order statistics
// constant time.
type Sample struct {
	// Values are the observations in ascending order.
	Values []float64
}

// NewSample constructs a Sample from a copy of values.
func NewSample(values []float64) *Sample {
	samp := stats.Sample{Xs: append([]float64(nil), values...)}
	samp.Sort()
	return &Sample{Values: samp.Xs}
}

// N returns the number of observations in s.
func (s *Sample) N() int {
	return len(s.Values)
}

// Mean returns the arithmetic mean of s, or NaN if s is empty.
func (s *Sample) Mean() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return stats.Mean(s.Values)
}

// StdDev returns the sample standard deviation of s with Bessel's
// correction. It is NaN for fewer than two observations.
func (s *Sample) StdDev() float64 {
	if len(s.Values) < 2 {
		return math.NaN()
	}
	return stats.StdDev(s.Values)
}

// Bounds returns the smallest and largest observation, or NaN for an
// empty sample.
func (s *Sample) Bounds() (min, max float64) {
	return stats.Sample{Xs: s.Values, Sorted: true}.Bounds()
}

// Percentile returns the q'th quantile of s, 0 <= q <= 1.
func (s *Sample) Percentile(q float64) float64 {
	return Percentile(s.Values, q)
}

// Skewness returns the adjusted Fisher-Pearson skewness of s. It is
// NaN for fewer than three observations and 0 when all observations
// are equal.
func (s *Sample) Skewness() float64 {
	if len(s.Values) < 3 {
		return math.NaN()
	}
	if s.Values[0] == s.Values[len(s.Values)-1] {
		return 0
	}
	return stat.Skew(s.Values, nil)
}

// Summary returns the summary statistics of s used by WelchTTest.
func (s *Sample) Summary() Summary {
	return Summary{N: s.N(), Mean: s.Mean(), StdDev: s.StdDev()}
}

// Percentile returns the q'th quantile of the ascending slice sorted
// by linear interpolation between the two closest ranks: with
// h = (n-1)·q, the result is x[⌊h⌋] + (h-⌊h⌋)·(x[⌊h⌋+1]-x[⌊h⌋]). This
// is method 7 of Hyndman and Fan (1996). q is clamped to [0, 1]. It
// returns NaN if sorted is empty.
//
// go-moremath's Sample.Quantile implements method 8, which disagrees
// with the percentiles reported by common dataframe libraries, so
// the interpolation is done here.
func Percentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	} else if q >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * q
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
