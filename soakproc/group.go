// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soakproc

import (
	"sort"

	"github.com/zchee/soakstat/soakfmt"
)

// A Group is the set of values observed for one experiment, split by
// variant. Values keep the order in which their samples appeared.
type Group struct {
	Experiment string
	Baseline   []float64
	Comparison []float64
}

// Values returns the values of g observed under variant v.
func (g *Group) Values(v soakfmt.Variant) []float64 {
	if v == soakfmt.Baseline {
		return g.Baseline
	}
	return g.Comparison
}

// Missing returns the variants for which g has no values, in
// soakfmt.Variants order. A group can only be compared if Missing
// returns nothing.
func (g *Group) Missing() []soakfmt.Variant {
	var out []soakfmt.Variant
	for _, v := range soakfmt.Variants {
		if len(g.Values(v)) == 0 {
			out = append(out, v)
		}
	}
	return out
}

// Groups partitions samples by experiment. The groups are returned
// sorted by experiment name. A group may have an empty side if an
// experiment was only captured under one variant.
func Groups(samples []soakfmt.Sample) []*Group {
	index := make(map[string]*Group)
	var out []*Group
	for _, s := range samples {
		g, ok := index[s.Experiment]
		if !ok {
			g = &Group{Experiment: s.Experiment}
			index[s.Experiment] = g
			out = append(out, g)
		}
		switch s.Variant {
		case soakfmt.Baseline:
			g.Baseline = append(g.Baseline, s.Value)
		case soakfmt.Comparison:
			g.Comparison = append(g.Comparison, s.Value)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Experiment < out[j].Experiment
	})
	return out
}
