// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package soaktab compares soak captures per experiment and presents
// the results as report tables.
package soaktab

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/zchee/soakstat/soakfmt"
	"github.com/zchee/soakstat/soakmath"
	"github.com/zchee/soakstat/soakproc"
)

// A Builder collects normalized samples and analyzes them into a
// Report.
type Builder struct {
	samples []soakfmt.Sample
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add adds a normalized sample to the Builder.
func (b *Builder) Add(s soakfmt.Sample) {
	b.samples = append(b.samples, s)
}

// Opts provides options for constructing a Report from a Builder.
type Opts struct {
	// Baseline and Comparison label the two runs being compared.
	Baseline, Comparison string

	// Thresholds is the run configuration. It must be valid.
	Thresholds soakmath.Thresholds

	// Log receives a diagnostic for every skipped experiment and
	// every warning. If nil, diagnostics are discarded.
	Log logrus.FieldLogger
}

// An IncompleteExperimentError records an experiment that was not
// captured under every variant and therefore could not be compared.
type IncompleteExperimentError struct {
	Experiment string
	Missing    []soakfmt.Variant
}

func (e *IncompleteExperimentError) Error() string {
	return fmt.Sprintf("experiment %q has no %s samples", e.Experiment, joinVariants(e.Missing))
}

func joinVariants(vs []soakfmt.Variant) string {
	s := ""
	for i, v := range vs {
		if i > 0 {
			s += " or "
		}
		s += v.String()
	}
	return s
}

// Report analyzes every experiment added to b.
//
// Incomplete experiments are skipped and listed in Report.Skipped.
// The only error Report returns is ctx's.
func (b *Builder) Report(ctx context.Context, opts Opts) (*Report, error) {
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	th := opts.Thresholds

	rep := &Report{
		Baseline:   opts.Baseline,
		Comparison: opts.Comparison,
		Thresholds: th,
	}

	var groups []*soakproc.Group
	for _, g := range soakproc.Groups(b.samples) {
		if missing := g.Missing(); len(missing) > 0 {
			err := &IncompleteExperimentError{g.Experiment, missing}
			log.WithFields(logrus.Fields{
				"experiment": g.Experiment,
				"reason":     err.Error(),
			}).Warn("skipping experiment")
			rep.Skipped = append(rep.Skipped, err)
			continue
		}
		groups = append(groups, g)
	}

	// Groups are independent and analysis is CPU-bound, so analyze
	// them in parallel. Each goroutine writes only its own slot.
	results := make([]*Result, len(groups))
	runs := make([][]*Run, len(groups))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(2 * runtime.GOMAXPROCS(-1))
	for i, g := range groups {
		i, g := i, g
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], runs[i] = analyze(g, &th)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		for _, w := range r.Warnings {
			log.WithFields(logrus.Fields{
				"experiment": r.Experiment,
				"reason":     w.Error(),
			}).Info("degenerate comparison")
		}
	}
	for _, rs := range runs {
		rep.Runs = append(rep.Runs, rs...)
	}

	sortResults(results)
	sort.SliceStable(rep.Runs, func(i, j int) bool {
		a, b := rep.Runs[i], rep.Runs[j]
		if c := soakproc.CompareDesc(a.Mean, b.Mean); c != 0 {
			return c < 0
		}
		if a.Experiment != b.Experiment {
			return a.Experiment < b.Experiment
		}
		return a.Variant < b.Variant
	})
	rep.Results = results
	rep.Significant = Significant(results, &th)
	return rep, nil
}

func analyze(g *soakproc.Group, th *soakmath.Thresholds) (*Result, []*Run) {
	base := soakmath.NewSample(g.Baseline)
	comp := soakmath.NewSample(g.Comparison)

	r := &Result{
		Experiment: g.Experiment,
		Baseline:   side(base),
		Comparison: side(comp),
		Erratic:    th.IsErratic(g.Experiment),
	}
	r.Diff = r.Comparison.Mean - r.Baseline.Mean
	r.PercentChange = soakmath.PercentChange(r.Baseline.Mean, r.Comparison.Mean)
	if !finite(r.PercentChange) {
		r.Warnings = append(r.Warnings, fmt.Errorf("baseline mean is %v; percent change is undefined", r.Baseline.Mean))
	}

	cmp := soakmath.WelchTTest(base.Summary(), comp.Summary())
	r.T, r.P = cmp.T, cmp.P
	r.Warnings = append(r.Warnings, cmp.Warnings...)

	runs := []*Run{
		newRun(g.Experiment, soakfmt.Baseline, base),
		newRun(g.Experiment, soakfmt.Comparison, comp),
	}
	return r, runs
}

func side(s *soakmath.Sample) Side {
	return Side{
		N:          s.N(),
		Mean:       s.Mean(),
		StdDev:     s.StdDev(),
		OutlierPct: s.OutlierPct(),
	}
}

func newRun(experiment string, v soakfmt.Variant, s *soakmath.Sample) *Run {
	min, max := s.Bounds()
	return &Run{
		Experiment: experiment,
		Variant:    v,
		N:          s.N(),
		Mean:       s.Mean(),
		StdDev:     s.StdDev(),
		Min:        min,
		Median:     s.Percentile(0.5),
		P90:        s.Percentile(0.90),
		P95:        s.Percentile(0.95),
		P99:        s.Percentile(0.99),
		Max:        max,
		Skewness:   s.Skewness(),
	}
}
