// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package soakproc turns a flat sequence of capture samples into the
// per-experiment groups that are compared.
//
// Processing is a pipeline of pure functions. Normalize drops warmup
// samples and scales the survivors to a per-resource rate. Groups
// then partitions the normalized samples by experiment and, within
// an experiment, by variant:
//
//	norm, err := soakproc.Normalize(samples, warmup, resources)
//	if err != nil { ... }
//	for _, g := range soakproc.Groups(norm) {
//		if missing := g.Missing(); len(missing) > 0 {
//			// g cannot be compared
//		}
//		...
//	}
//
// None of these functions modify their inputs.
package soakproc
