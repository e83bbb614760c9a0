// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soaktab

import (
	"math"

	"github.com/zchee/soakstat/soakmath"
)

// Significant returns the results that represent an interesting
// change: the p-value is below th.PValue, the experiment is not
// erratic, and the magnitude of the rounded percent change is
// strictly greater than th.MeanDrift. Results with an undefined
// p-value or percent change never qualify.
//
// The returned results are sorted by Diff descending, ties broken by
// experiment name. rs is not modified.
func Significant(rs []*Result, th *soakmath.Thresholds) []*Result {
	var out []*Result
	for _, r := range rs {
		switch {
		case !(r.P < th.PValue):
		case r.Erratic || th.IsErratic(r.Experiment):
		case !finite(r.PercentChange):
		case !(math.Abs(r.PercentChange) > th.MeanDrift):
		default:
			out = append(out, r)
		}
	}
	sortResults(out)
	return out
}
