// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zchee/soakstat/soakfmt"
	"github.com/zchee/soakstat/soakmath"
)

// captures writes a capture file with one sample per value, indexed
// from 1, for each experiment and variant.
func captures(t *testing.T, dir, name string, data map[string]map[soakfmt.Variant][]float64) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name+soakfmt.Ext))
	require.NoError(t, err)
	defer f.Close()
	w := soakfmt.NewWriter(f)
	for exp, variants := range data {
		for v, vals := range variants {
			for i, val := range vals {
				require.NoError(t, w.Write(soakfmt.Sample{Experiment: exp, Variant: v, FetchIndex: int64(i + 1), Value: val}))
			}
		}
	}
}

func runSoakstat(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	t.Logf("soakstat %s", strings.Join(args, " "))
	err = soakstat(&out, &errOut, args)
	return out.String(), errOut.String(), err
}

func baseArgs(dir string) []string {
	return []string{
		"--baseline", "v1.0",
		"--comparison", "v1.1",
		"--capture-dir", dir,
		"--resource-count", "1",
		"--warmup-seconds", "0",
	}
}

// abbreviated returns the part of a report before the detail tables.
func abbreviated(report string) string {
	head, _, _ := strings.Cut(report, "<details>")
	return head
}

func TestSignificantChange(t *testing.T) {
	dir := t.TempDir()
	captures(t, dir, "http", map[string]map[soakfmt.Variant][]float64{
		"http_pipeline": {
			soakfmt.Baseline:   {100, 102, 98, 101},
			soakfmt.Comparison: {140, 138, 142, 141},
		},
	})

	out, _, err := runSoakstat(t, baseArgs(dir)...)
	require.NoError(t, err)
	head := abbreviated(out)
	assert.Contains(t, head, "| http_pipeline |")
	assert.Contains(t, head, "| 40.0B ")
	assert.Contains(t, head, "39.9%")
	assert.NotContains(t, head, "No statistically interesting changes")
}

func TestNoChange(t *testing.T) {
	dir := t.TempDir()
	vals := []float64{100, 102, 98, 101}
	captures(t, dir, "same", map[string]map[soakfmt.Variant][]float64{
		"steady": {soakfmt.Baseline: vals, soakfmt.Comparison: vals},
	})

	out, _, err := runSoakstat(t, baseArgs(dir)...)
	require.NoError(t, err)
	head := abbreviated(out)
	assert.Contains(t, head, "No statistically interesting changes")
	assert.NotContains(t, head, "| steady")
	assert.Contains(t, out, "| steady")
}

func TestIncompleteExperiment(t *testing.T) {
	dir := t.TempDir()
	captures(t, dir, "mixed", map[string]map[soakfmt.Variant][]float64{
		"http_pipeline": {
			soakfmt.Baseline:   {100, 102, 98, 101},
			soakfmt.Comparison: {140, 138, 142, 141},
		},
		"orphan": {soakfmt.Baseline: {100, 101, 102}},
	})

	out, errOut, err := runSoakstat(t, baseArgs(dir)...)
	require.NoError(t, err)
	assert.NotContains(t, out, "orphan")
	assert.Contains(t, out, "| http_pipeline |")
	assert.Contains(t, errOut, "orphan")
	assert.Contains(t, errOut, "skipped 1 incomplete experiments")
}

func TestWarmupAndResources(t *testing.T) {
	dir := t.TempDir()
	// The first two samples of each run are warmup and would hide
	// the change.
	captures(t, dir, "warm", map[string]map[soakfmt.Variant][]float64{
		"tcp": {
			soakfmt.Baseline:   {1e6, 1e6, 4096, 4100, 4092, 4098},
			soakfmt.Comparison: {1, 1, 8192, 8200, 8184, 8196},
		},
	})

	args := append(baseArgs(dir), "--warmup-seconds", "2", "--resource-count", "4")
	out, _, err := runSoakstat(t, args...)
	require.NoError(t, err)
	head := abbreviated(out)
	assert.Contains(t, head, "| tcp ")
	assert.Contains(t, head, "1.0KiB")
	assert.Contains(t, head, "| 100% ")
	assert.Contains(t, out, "Total CPUs: 4")
}

func TestErratic(t *testing.T) {
	dir := t.TempDir()
	captures(t, dir, "http", map[string]map[soakfmt.Variant][]float64{
		"http_pipeline": {
			soakfmt.Baseline:   {100, 102, 98, 101},
			soakfmt.Comparison: {140, 138, 142, 141},
		},
	})

	args := append(baseArgs(dir), "--erratic-experiments", "http_pipeline,other")
	out, _, err := runSoakstat(t, args...)
	require.NoError(t, err)
	assert.Contains(t, abbreviated(out), "No statistically interesting changes")
	assert.Contains(t, out, "changed: http_pipeline, other.")
}

func TestCSVFormat(t *testing.T) {
	dir := t.TempDir()
	captures(t, dir, "http", map[string]map[soakfmt.Variant][]float64{
		"http_pipeline": {
			soakfmt.Baseline:   {100, 102, 98, 101},
			soakfmt.Comparison: {140, 138, 142, 141},
		},
	})

	out, _, err := runSoakstat(t, append(baseArgs(dir), "--format", "csv")...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "experiment,diff,percent_change,"), out)
	assert.Contains(t, out, "\nhttp_pipeline,40,39.9,")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	captures(t, dir, "http", map[string]map[soakfmt.Variant][]float64{
		"http_pipeline": {
			soakfmt.Baseline:   {100, 102, 98, 101},
			soakfmt.Comparison: {140, 138, 142, 141},
		},
	})
	cfgPath := filepath.Join(t.TempDir(), "soakstat.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
baseline: from-file
comparison: also-from-file
capture_dir: `+dir+`
resource_count: 2
warmup_seconds: 0
mean_drift_percentage: 50
`), 0666))

	out, _, err := runSoakstat(t, "--config", cfgPath, "--comparison", "from-flag")
	require.NoError(t, err)
	assert.Contains(t, out, "Baseline: from-file\n")
	assert.Contains(t, out, "Comparison: from-flag\n")
	assert.Contains(t, out, "Total CPUs: 2\n")
	// A 39.9% change is below the configured drift threshold.
	assert.Contains(t, abbreviated(out), "No statistically interesting changes")

	require.NoError(t, os.WriteFile(cfgPath, []byte("unknown_key: 1\n"), 0666))
	_, _, err = runSoakstat(t, "--config", cfgPath)
	assert.Error(t, err)
}

func TestFatalErrors(t *testing.T) {
	dir := t.TempDir()
	captures(t, dir, "http", map[string]map[soakfmt.Variant][]float64{
		"http_pipeline": {soakfmt.Baseline: {1, 2}, soakfmt.Comparison: {3, 4}},
	})

	for name, args := range map[string][]string{
		"resource count": append(baseArgs(dir), "--resource-count", "0"),
		"p-value":        append(baseArgs(dir), "--p-value", "1.5"),
		"baseline":       {"--comparison", "b", "--capture-dir", dir, "--resource-count", "1", "--warmup-seconds", "0"},
		"warmup seconds": {"--baseline", "a", "--comparison", "b", "--capture-dir", dir, "--resource-count", "1"},
		"format":         append(baseArgs(dir), "--format", "html"),
		"log level":      append(baseArgs(dir), "--log-level", "chatty"),
	} {
		out, _, err := runSoakstat(t, args...)
		var cerr *soakmath.ConfigurationError
		if assert.True(t, errors.As(err, &cerr), "%s: got %v", name, err) {
			assert.Equal(t, name, cerr.Field)
		}
		assert.Empty(t, out, name)
	}

	out, _, err := runSoakstat(t, baseArgs(t.TempDir())...)
	var ierr *soakfmt.IngestionError
	require.True(t, errors.As(err, &ierr), "got %v", err)
	assert.True(t, errors.Is(err, soakfmt.ErrNoCaptures))
	assert.Empty(t, out)

	bad := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bad, "bad"+soakfmt.Ext),
		[]byte("experiment,variant,fetch_index,value\nx,sideways,1,2\n"), 0666))
	out, _, err = runSoakstat(t, baseArgs(bad)...)
	var serr *soakfmt.SyntaxError
	require.True(t, errors.As(err, &serr), "got %v", err)
	assert.Equal(t, 2, serr.Line)
	assert.Empty(t, out)
}
