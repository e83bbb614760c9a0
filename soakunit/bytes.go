// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package soakunit formats and parses byte quantities in binary
// (IEC) units.
package soakunit

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Units lists the binary byte units in increasing order. Units[i] is
// 1024^i bytes.
var Units = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB", "ZiB", "YiB"}

// Undefined is the text of a value that cannot be formatted.
const Undefined = "undefined"

// Scale returns the index into Units at which v is displayed. Values
// with magnitude below 1 and values beyond the largest unit are
// clamped to the table.
func Scale(v float64) int {
	a := math.Abs(v)
	if a < 1 {
		return 0
	}
	i := int(math.Floor(math.Log(a) / math.Log(1024)))
	// Log may land just below an exact power of 1024.
	if i+1 < len(Units) && a >= math.Pow(1024, float64(i+1)) {
		i++
	}
	if i < 0 {
		i = 0
	} else if i >= len(Units) {
		i = len(Units) - 1
	}
	return i
}

// Bytes formats v, a number of bytes, in the largest binary unit
// that keeps the scaled magnitude at or above 1. The scaled value is
// rounded to two decimal places and always carries a fractional
// part, for example "1.0KiB", "1.5KiB" or "-12.34MiB". Magnitudes
// below 1 format as "0B". NaN and infinities format as Undefined.
func Bytes(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined
	}
	a := math.Abs(v)
	if a < 1 {
		return "0B"
	}
	i := Scale(a)
	scaled := a / math.Pow(1024, float64(i))

	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	b.WriteString(formatNumber(scaled))
	b.WriteString(Units[i])
	return b.String()
}

// formatNumber rounds x to two decimal places and prints the shortest
// decimal text for it with at least one fractional digit.
func formatNumber(x float64) string {
	s := decimal.NewFromFloat(x).Round(2).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ParseBytes parses a string produced by Bytes and returns the number
// of bytes it denotes. The result equals the formatted value to
// within the precision of the two-decimal rounding.
func ParseBytes(s string) (float64, error) {
	if s == Undefined {
		return math.NaN(), nil
	}
	num := strings.TrimRightFunc(s, func(r rune) bool {
		return r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z'
	})
	unit := s[len(num):]
	idx := -1
	for i, u := range Units {
		if u == unit {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, errors.Errorf("unknown byte unit in %q", s)
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %q", s)
	}
	return d.InexactFloat64() * math.Pow(1024, float64(idx)), nil
}
