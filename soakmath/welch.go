// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soakmath

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"
)

// A Summary describes a sample by its size, mean and sample
// standard deviation. It is all WelchTTest needs.
type Summary struct {
	N      int
	Mean   float64
	StdDev float64
}

// ttestSample adapts a Summary to stats.TTestSample.
type ttestSample struct{ s Summary }

func (t ttestSample) Weight() float64   { return float64(t.s.N) }
func (t ttestSample) Mean() float64     { return t.s.Mean }
func (t ttestSample) Variance() float64 { return t.s.StdDev * t.s.StdDev }

// A Comparison is the result of comparing a sample against a
// baseline with WelchTTest.
type Comparison struct {
	// T is Welch's t-statistic. It is positive when the compared
	// sample's mean is larger than the baseline's.
	T float64

	// DoF is the Welch-Satterthwaite degrees of freedom.
	DoF float64

	// P is the two-sided p-value of the null hypothesis that both
	// samples have equal means. It is NaN if the test could not be
	// performed; Warnings then says why.
	P float64

	// Warnings records why the test was degenerate, if it was.
	Warnings []error
}

// WelchTTest compares sample against base with a two-sided Welch
// t-test computed from their summary statistics alone.
//
// If both samples have zero variance the t-statistic is a ratio
// over zero: equal means are reported as t = 0, p = 1 and different
// means as t = ±Inf, p = 0. If either sample has fewer than two
// observations, T and P are NaN and a warning is recorded.
func WelchTTest(base, sample Summary) Comparison {
	res, err := stats.TwoSampleWelchTTest(ttestSample{sample}, ttestSample{base}, stats.LocationDiffers)
	switch {
	case err == nil:
		return Comparison{T: res.T, DoF: res.DoF, P: res.P}

	case errors.Is(err, stats.ErrZeroVariance):
		c := Comparison{DoF: float64(base.N + sample.N - 2)}
		d := sample.Mean - base.Mean
		if d == 0 {
			c.T, c.P = 0, 1
		} else {
			c.T, c.P = math.Inf(sign(d)), 0
		}
		c.Warnings = []error{fmt.Errorf("both samples have zero variance")}
		return c

	case errors.Is(err, stats.ErrSampleSize):
		return Comparison{
			T: math.NaN(), DoF: math.NaN(), P: math.NaN(),
			Warnings: []error{fmt.Errorf("need >= 2 samples per variant for a t-test (have %d and %d)", base.N, sample.N)},
		}
	}
	return Comparison{T: math.NaN(), DoF: math.NaN(), P: math.NaN(), Warnings: []error{err}}
}

func sign(x float64) int {
	if x < 0 {
		return -1
	}
	return 1
}
