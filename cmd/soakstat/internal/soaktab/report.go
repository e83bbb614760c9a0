// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soaktab

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/zchee/soakstat/soakmath"
	"github.com/zchee/soakstat/soakunit"
)

// errWriter remembers the first write error so table rendering,
// which ignores errors, can still report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...interface{}) {
	fmt.Fprintf(e, format, args...)
}

// ToMarkdown renders r as a GitHub flavored markdown document.
func (r *Report) ToMarkdown(w io.Writer) error {
	o := &errWriter{w: w}
	th := &r.Thresholds

	o.printf("# Soak Test Results\n")
	o.printf("Baseline: %s\n", r.Baseline)
	o.printf("Comparison: %s\n", r.Comparison)
	o.printf("Total CPUs: %d\n\n", th.ResourceCount)
	r.explain(o)

	if len(r.Significant) == 0 {
		o.printf("No statistically interesting changes with confidence above %s and absolute Δ mean above %s%%.\n\n",
			confidence(th.PValue), pct(th.MeanDrift))
	} else {
		o.printf("Changes in experiment throughput with confidence above %s and absolute Δ mean above %s%%:\n\n",
			confidence(th.PValue), pct(th.MeanDrift))
		renderTable(o, []string{
			"experiment", "Δ mean", "Δ mean %", "confidence",
			"baseline outliers %", "comparison outliers %", "erratic",
		}, abbreviatedRows(r.Significant))
		o.printf("\n")
	}

	o.printf("<details>\n<summary>Fine details of change detection per experiment.</summary>\n\n")
	renderTable(o, []string{
		"experiment", "Δ mean", "Δ mean %", "confidence",
		"baseline mean", "baseline stdev", "baseline outliers %",
		"comparison mean", "comparison stdev", "comparison outliers %",
		"t statistic", "p-value", "erratic",
	}, detailRows(r.Results))
	o.printf("\n</details>\n")

	o.printf("<details>\n<summary>Fine details of each soak run.</summary>\n\n")
	renderTable(o, []string{
		"experiment", "variant", "count", "mean", "stdev", "min",
		"average", "p90", "p95", "p99", "max", "skewness",
	}, runRows(r.Runs))
	o.printf("\n</details>\n")

	return o.err
}

func (r *Report) explain(o *errWriter) {
	th := &r.Thresholds
	o.printf("Explanation: A soak test is an integrated performance test in a fixed configuration. "+
		"Each experiment samples throughput repeatedly under the baseline and the comparison build, "+
		"discarding the first %d seconds of warmup. Throughput is given in bytes per second per CPU. "+
		"Changes are reported when Welch's t-test gives a confidence above %s that the mean throughput "+
		"of the two builds differs and the mean drifted by more than ±%s%%. "+
		"A positive Δ mean is a throughput increase in the comparison build. "+
		"Outliers are counted with Tukey's method (1.5×IQR).",
		th.WarmupSeconds, confidence(th.PValue), pct(th.MeanDrift))
	if erratic := th.ErraticSorted(); len(erratic) > 0 {
		o.printf(" Experiments known to be erratic are never reported as changed: %s.", strings.Join(erratic, ", "))
	}
	o.printf("\n\n")
}

func renderTable(w io.Writer, hdr []string, rows [][]string) {
	t := tablewriter.NewWriter(w)
	t.SetHeader(hdr)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	t.SetCenterSeparator("|")
	t.AppendBulk(rows)
	t.Render()
}

func abbreviatedRows(rs []*Result) [][]string {
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []string{
			r.Experiment,
			soakunit.Bytes(r.Diff),
			pct(r.PercentChange) + "%",
			confidence(r.P),
			pct(r.Baseline.OutlierPct),
			pct(r.Comparison.OutlierPct),
			strconv.FormatBool(r.Erratic),
		})
	}
	return rows
}

func detailRows(rs []*Result) [][]string {
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []string{
			r.Experiment,
			soakunit.Bytes(r.Diff),
			pct(r.PercentChange),
			confidence(r.P),
			soakunit.Bytes(r.Baseline.Mean),
			soakunit.Bytes(r.Baseline.StdDev),
			pct(r.Baseline.OutlierPct),
			soakunit.Bytes(r.Comparison.Mean),
			soakunit.Bytes(r.Comparison.StdDev),
			pct(r.Comparison.OutlierPct),
			raw(r.T),
			raw(r.P),
			strconv.FormatBool(r.Erratic),
		})
	}
	return rows
}

func runRows(runs []*Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.Experiment,
			r.Variant.String(),
			strconv.Itoa(r.N),
			soakunit.Bytes(r.Mean),
			soakunit.Bytes(r.StdDev),
			soakunit.Bytes(r.Min),
			soakunit.Bytes(r.Median),
			soakunit.Bytes(r.P90),
			soakunit.Bytes(r.P95),
			soakunit.Bytes(r.P99),
			soakunit.Bytes(r.Max),
			raw(r.Skewness),
		})
	}
	return rows
}

// pct formats a percentage rounded to two decimal places.
func pct(x float64) string {
	if !finite(x) {
		return soakunit.Undefined
	}
	return strconv.FormatFloat(soakmath.Round(x, 2), 'f', -1, 64)
}

func raw(x float64) string {
	if !finite(x) {
		return soakunit.Undefined
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// confidence formats the confidence that corresponds to p-value p.
func confidence(p float64) string {
	c := soakmath.Confidence(p)
	if !finite(c) {
		return soakunit.Undefined
	}
	return fmt.Sprintf("%.2f%%", c)
}

// ToCSV renders the per-experiment results of r in CSV format.
//
// Warnings are written to a separate stream so as not to interrupt
// the regular format of the CSV table.
func (r *Report) ToCSV(w, warnings io.Writer) error {
	o := csv.NewWriter(w)
	o.Write([]string{
		"experiment", "diff", "percent_change", "confidence",
		"baseline_n", "baseline_mean", "baseline_stdev", "baseline_outlier_pct",
		"comparison_n", "comparison_mean", "comparison_stdev", "comparison_outlier_pct",
		"t", "p", "erratic", "significant",
	})
	sig := make(map[*Result]bool, len(r.Significant))
	for _, res := range r.Significant {
		sig[res] = true
	}
	for _, res := range r.Results {
		o.Write([]string{
			res.Experiment,
			raw(res.Diff),
			pct(res.PercentChange),
			raw(res.Confidence()),
			strconv.Itoa(res.Baseline.N),
			raw(res.Baseline.Mean),
			raw(res.Baseline.StdDev),
			pct(res.Baseline.OutlierPct),
			strconv.Itoa(res.Comparison.N),
			raw(res.Comparison.Mean),
			raw(res.Comparison.StdDev),
			pct(res.Comparison.OutlierPct),
			raw(res.T),
			raw(res.P),
			strconv.FormatBool(res.Erratic),
			strconv.FormatBool(sig[res]),
		})
		for _, msg := range res.Warnings {
			if _, err := fmt.Fprintf(warnings, "%s: %s\n", res.Experiment, msg); err != nil {
				return err
			}
		}
	}
	o.Flush()
	return o.Error()
}
