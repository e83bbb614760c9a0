// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soakproc

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zchee/soakstat/soakfmt"
	"github.com/zchee/soakstat/soakmath"
)

func sample(exp string, v soakfmt.Variant, idx int64, val float64) soakfmt.Sample {
	return soakfmt.Sample{Experiment: exp, Variant: v, FetchIndex: idx, Value: val}
}

func TestNormalize(t *testing.T) {
	in := []soakfmt.Sample{
		sample("a", soakfmt.Baseline, 0, 10),
		sample("a", soakfmt.Baseline, 1, 20),
		sample("a", soakfmt.Comparison, 2, 30),
		sample("b", soakfmt.Baseline, 3, 40),
	}
	orig := append([]soakfmt.Sample(nil), in...)

	got, err := Normalize(in, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []soakfmt.Sample{
		sample("a", soakfmt.Comparison, 2, 15),
		sample("b", soakfmt.Baseline, 3, 20),
	}, got)
	assert.Equal(t, orig, in, "input modified")

	got, err = Normalize(in, 0, 1)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = Normalize(in, 100, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNormalizeErrors(t *testing.T) {
	var cerr *soakmath.ConfigurationError

	_, err := Normalize(nil, 0, 0)
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.Equal(t, "resource count", cerr.Field)

	_, err = Normalize(nil, -1, 1)
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.Equal(t, "warmup seconds", cerr.Field)
}

func TestNormalizeWarmupProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 200; iter++ {
		in := make([]soakfmt.Sample, rng.Intn(100))
		for i := range in {
			in[i] = sample("x", soakfmt.Variants[rng.Intn(2)], rng.Int63n(200), rng.Float64()*1e6)
		}
		warmup := rng.Int63n(200)
		resources := 1 + rng.Intn(64)

		got, err := Normalize(in, warmup, resources)
		require.NoError(t, err)

		kept := 0
		for _, s := range in {
			if s.FetchIndex > warmup {
				kept++
			}
		}
		require.Len(t, got, kept)
		for _, s := range got {
			require.Greater(t, s.FetchIndex, warmup)
		}
	}
}

func TestGroups(t *testing.T) {
	in := []soakfmt.Sample{
		sample("zeta", soakfmt.Baseline, 1, 1),
		sample("alpha", soakfmt.Comparison, 1, 2),
		sample("zeta", soakfmt.Comparison, 1, 3),
		sample("alpha", soakfmt.Baseline, 1, 4),
		sample("zeta", soakfmt.Baseline, 2, 5),
		sample("only-base", soakfmt.Baseline, 1, 6),
	}
	gs := Groups(in)
	require.Len(t, gs, 3)

	assert.Equal(t, &Group{Experiment: "alpha", Baseline: []float64{4}, Comparison: []float64{2}}, gs[0])
	assert.Empty(t, gs[0].Missing())

	assert.Equal(t, "only-base", gs[1].Experiment)
	assert.Equal(t, []soakfmt.Variant{soakfmt.Comparison}, gs[1].Missing())

	assert.Equal(t, &Group{Experiment: "zeta", Baseline: []float64{1, 5}, Comparison: []float64{3}}, gs[2])
	assert.Equal(t, []float64{3}, gs[2].Values(soakfmt.Comparison))

	assert.Empty(t, Groups(nil))
}

func TestLessDesc(t *testing.T) {
	type row struct {
		v    float64
		name string
	}
	rows := []row{
		{1, "b"},
		{math.NaN(), "a"},
		{5, "c"},
		{1, "a"},
		{math.Inf(-1), "d"},
		{math.Inf(1), "e"},
	}
	sort.Slice(rows, func(i, j int) bool {
		return LessDesc(rows[i].v, rows[i].name, rows[j].v, rows[j].name)
	})
	var names []string
	for _, r := range rows {
		names = append(names, r.name)
	}
	assert.Equal(t, []string{"e", "c", "a", "b", "d", "a"}, names)
	assert.True(t, math.IsNaN(rows[len(rows)-1].v))
}
