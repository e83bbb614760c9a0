// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soaktab

import (
	"math"
	"sort"

	"github.com/zchee/soakstat/soakfmt"
	"github.com/zchee/soakstat/soakmath"
	"github.com/zchee/soakstat/soakproc"
)

// Side summarizes one variant of an experiment.
type Side struct {
	N          int
	Mean       float64
	StdDev     float64
	OutlierPct float64
}

// A Result compares the baseline and comparison captures of one
// experiment.
type Result struct {
	Experiment string

	Baseline, Comparison Side

	// Diff is Comparison.Mean - Baseline.Mean.
	Diff float64

	// PercentChange is Diff as a percentage of Baseline.Mean,
	// rounded to two decimal places. It is non-finite if the
	// baseline mean is zero.
	PercentChange float64

	// T and P are the statistic and two-sided p-value of Welch's
	// t-test. T has the same sign as Diff. Both are NaN if the
	// test could not be performed.
	T, P float64

	// Erratic is set for experiments configured as erratic.
	Erratic bool

	// Warnings lists anything degenerate about this comparison.
	Warnings []error
}

// Confidence returns the confidence, in percent, that the means of
// the two variants differ.
func (r *Result) Confidence() float64 {
	return soakmath.Confidence(r.P)
}

// A Run holds descriptive statistics of one variant of one
// experiment.
type Run struct {
	Experiment string
	Variant    soakfmt.Variant

	N        int
	Mean     float64
	StdDev   float64
	Min      float64
	Median   float64
	P90      float64
	P95      float64
	P99      float64
	Max      float64
	Skewness float64
}

// A Report is the complete outcome of a comparison.
type Report struct {
	// Baseline and Comparison label the compared runs.
	Baseline, Comparison string

	// Thresholds is the configuration the report was built with.
	Thresholds soakmath.Thresholds

	// Results holds a Result for every complete experiment, sorted
	// by Diff descending.
	Results []*Result

	// Significant is the subset of Results selected by
	// Significant, in the same order.
	Significant []*Result

	// Runs holds the statistics of every variant of every
	// complete experiment, sorted by mean descending.
	Runs []*Run

	// Skipped lists the experiments that could not be compared.
	Skipped []*IncompleteExperimentError
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func sortResults(rs []*Result) {
	sort.SliceStable(rs, func(i, j int) bool {
		return soakproc.LessDesc(rs[i].Diff, rs[i].Experiment, rs[j].Diff, rs[j].Experiment)
	})
}
