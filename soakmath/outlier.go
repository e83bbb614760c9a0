// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soakmath

// TukeyK is the multiple of the interquartile range beyond the
// quartiles at which an observation is an outlier.
const TukeyK = 1.5

// Outliers returns the number of observations in s that lie outside
// Tukey's fences [Q1 - 1.5·IQR, Q3 + 1.5·IQR]. Samples with fewer
// than two observations have no outliers.
func (s *Sample) Outliers() int {
	if len(s.Values) < 2 {
		return 0
	}
	q1, q3 := s.Percentile(0.25), s.Percentile(0.75)
	iqr := q3 - q1
	lo, hi := q1-TukeyK*iqr, q3+TukeyK*iqr

	n := 0
	for _, x := range s.Values {
		if x < lo || x > hi {
			n++
		}
	}
	return n
}

// OutlierPct returns Outliers as a percentage of the sample size, or
// 0 for an empty sample.
func (s *Sample) OutlierPct() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return float64(s.Outliers()) / float64(len(s.Values)) * 100
}
