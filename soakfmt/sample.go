// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package soakfmt provides a reader and writer for soak capture files.
//
// A capture file is a CSV table with a header row naming the columns
// "experiment", "variant", "fetch_index" and "value". Each row is a
// single throughput observation, in bytes per second, of one
// experiment running under either the baseline or the comparison
// build. A capture directory holds any number of these files, with
// the extension ".captures", nested arbitrarily deep.
//
// The reader is structured as a streaming operation in the style of
// bufio.Scanner so that consumers can provide their own data model.
// Files walks a whole capture directory and ReadAll collects it into
// a single slice.
//
// This package is designed to be used with the higher-level packages
// soakproc, soakmath, and soakunit.
package soakfmt

import "fmt"

// Ext is the file extension of capture files.
const Ext = ".captures"

// Column names of the capture format, in the order Writer emits them.
const (
	ColExperiment = "experiment"
	ColVariant    = "variant"
	ColFetchIndex = "fetch_index"
	ColValue      = "value"
)

// Columns is the full set of capture columns in canonical order.
var Columns = []string{ColExperiment, ColVariant, ColFetchIndex, ColValue}

// A Variant identifies which build a Sample was measured against.
type Variant int

const (
	Baseline Variant = iota
	Comparison
)

// Variants lists every Variant in report order.
var Variants = []Variant{Baseline, Comparison}

// String returns the capture-file spelling of v.
func (v Variant) String() string {
	switch v {
	case Baseline:
		return "baseline"
	case Comparison:
		return "comparison"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant parses the capture-file spelling of a variant. Only
// "baseline" and "comparison" are accepted.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "baseline":
		return Baseline, nil
	case "comparison":
		return Comparison, nil
	}
	return 0, fmt.Errorf("unknown variant %q (want baseline or comparison)", s)
}

// A Sample is a single throughput observation.
//
// Samples are values and are never modified once read. Processing
// stages such as soakproc.Normalize produce new slices of Samples.
type Sample struct {
	// Experiment names the benchmark configuration.
	Experiment string

	// Variant is the build this sample was measured against.
	Variant Variant

	// FetchIndex is the position of this sample in the soak run.
	// It increases monotonically and stands in for elapsed
	// seconds.
	FetchIndex int64

	// Value is the observed throughput in bytes per second.
	Value float64
}
