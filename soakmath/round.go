// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soakmath

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds x to places decimal places, with halves rounded away
// from zero. Rounding happens on the shortest decimal representation
// of x, so Round(2.675, 2) is 2.68 even though the nearest binary
// float to 2.675 is slightly below it. Non-finite values are
// returned unchanged.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// PercentChange returns the change from base to x as a percentage
// of base, rounded to two decimal places. It is non-finite when base
// is zero.
func PercentChange(base, x float64) float64 {
	return Round((x-base)/base*100, 2)
}
