// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soakproc

import (
	"fmt"

	"github.com/zchee/soakstat/soakfmt"
	"github.com/zchee/soakstat/soakmath"
)

// Normalize returns the samples whose fetch index is strictly greater
// than warmup, in their original order, with each value divided by
// resources.
//
// It returns a *soakmath.ConfigurationError if warmup is negative or
// resources is not positive. samples is not modified.
func Normalize(samples []soakfmt.Sample, warmup int64, resources int) ([]soakfmt.Sample, error) {
	if warmup < 0 {
		return nil, &soakmath.ConfigurationError{Field: "warmup seconds", Msg: fmt.Sprintf("%d must be >= 0", warmup)}
	}
	if resources <= 0 {
		return nil, &soakmath.ConfigurationError{Field: "resource count", Msg: fmt.Sprintf("%d must be > 0", resources)}
	}

	out := make([]soakfmt.Sample, 0, len(samples))
	for _, s := range samples {
		if s.FetchIndex <= warmup {
			continue
		}
		s.Value /= float64(resources)
		out = append(out, s)
	}
	return out, nil
}
