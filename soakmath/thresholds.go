// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package soakmath provides statistical routines for comparing soak
// captures.
//
// Summaries are parametric: a group of samples is described by its
// mean and Bessel-corrected standard deviation, and two groups are
// compared with Welch's unequal-variance t-test computed from those
// summaries alone. Order statistics (percentiles, quartiles for
// Tukey's outlier rule) use linear interpolation between closest
// ranks, method 7 of Hyndman and Fan (1996), everywhere.
package soakmath

import (
	"fmt"
	"math"
	"sort"
)

// Thresholds holds the run-scoped configuration of a comparison.
// A Thresholds is built once at startup and only read afterwards.
type Thresholds struct {
	// PValue is the largest p-value reported as significant.
	// It must be in the open interval (0, 1).
	PValue float64

	// MeanDrift is the smallest absolute percent change in mean
	// throughput reported as significant. It must be >= 0.
	MeanDrift float64

	// WarmupSeconds discards samples whose fetch index is at or
	// below it.
	WarmupSeconds int64

	// ResourceCount divides every sample value, giving
	// throughput per resource (typically per CPU).
	ResourceCount int

	// Erratic lists experiments known to be too noisy to trust.
	// They are never reported as significant.
	Erratic []string
}

// DefaultThresholds contains the default thresholds. ResourceCount
// has no meaningful default and must be set by the caller.
var DefaultThresholds = Thresholds{
	PValue:    0.1,
	MeanDrift: 8.87,
}

// A ConfigurationError reports an invalid run parameter.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Validate checks the ranges of all thresholds.
func (t *Thresholds) Validate() error {
	switch {
	case !(t.PValue > 0 && t.PValue < 1):
		return &ConfigurationError{"p-value", fmt.Sprintf("%v not in range (0, 1)", t.PValue)}
	case !(t.MeanDrift >= 0) || math.IsInf(t.MeanDrift, 1):
		return &ConfigurationError{"mean drift percentage", fmt.Sprintf("%v must be a finite value >= 0", t.MeanDrift)}
	case t.WarmupSeconds < 0:
		return &ConfigurationError{"warmup seconds", fmt.Sprintf("%d must be >= 0", t.WarmupSeconds)}
	case t.ResourceCount <= 0:
		return &ConfigurationError{"resource count", fmt.Sprintf("%d must be > 0", t.ResourceCount)}
	}
	for _, name := range t.Erratic {
		if name == "" {
			return &ConfigurationError{"erratic experiments", "empty experiment name"}
		}
	}
	return nil
}

// IsErratic reports whether experiment is in t.Erratic.
func (t *Thresholds) IsErratic(experiment string) bool {
	for _, name := range t.Erratic {
		if name == experiment {
			return true
		}
	}
	return false
}

// ErraticSorted returns a sorted, de-duplicated copy of t.Erratic.
func (t *Thresholds) ErraticSorted() []string {
	seen := make(map[string]bool, len(t.Erratic))
	var out []string
	for _, name := range t.Erratic {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Confidence returns the confidence, in percent, that corresponds to
// p-value p. Every displayed confidence goes through this function.
func Confidence(p float64) float64 {
	return (1 - p) * 100
}
