// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soakproc

import "math"

// CompareDesc orders a and b from largest to smallest. NaN sorts
// after every number, so undefined values end up at the bottom of a
// table. It returns a negative number if a comes first, a positive
// number if b comes first, and 0 if they are equal or both NaN.
func CompareDesc(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

// LessDesc reports whether the row (a, aName) sorts before (b, bName)
// when ordering by value descending. Rows with equal values are
// ordered by name so the result does not depend on input order.
func LessDesc(a float64, aName string, b float64, bName string) bool {
	if c := CompareDesc(a, b); c != 0 {
		return c < 0
	}
	return aName < bName
}
