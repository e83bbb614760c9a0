// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Soakstat detects statistically meaningful throughput changes
// between two runs of soak tests.
//
// Usage:
//
//	soakstat --baseline=LABEL --comparison=LABEL --capture-dir=DIR \
//		--resource-count=N --warmup-seconds=S [flags]
//
// The capture directory is searched recursively for files with the
// extension .captures. Each is a CSV file with the header
//
//	experiment,variant,fetch_index,value
//
// where variant is "baseline" or "comparison", fetch_index is the
// second at which a sample was taken and value is the observed
// throughput in bytes per second.
//
// Samples taken at or before the warmup cutoff are discarded and the
// rest are divided by the resource count. For every experiment
// captured under both variants, soakstat compares the mean
// throughput of the two runs with Welch's t-test. An experiment is
// reported as changed if the test's p-value is below --p-value, the
// mean drifted by more than --mean-drift-percentage, and the
// experiment is not listed in --erratic-experiments.
//
// The report is written to stdout as markdown, or as CSV with
// --format=csv. Experiments captured under only one variant are
// left out of the report and listed on stderr.
//
// Every flag except --config may also be given in a YAML file passed
// with --config, using the flag name with dashes replaced by
// underscores as the key. Flags set on the command line override the
// file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/zchee/soakstat/cmd/soakstat/internal/soaktab"
	"github.com/zchee/soakstat/soakfmt"
	"github.com/zchee/soakstat/soakproc"
)

func main() {
	if err := soakstat(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "soakstat: %s\n", err)
		os.Exit(1)
	}
}

func soakstat(w, wErr io.Writer, args []string) error {
	cfg := defaultConfig()
	var configPath string

	cmd := &cobra.Command{
		Use:   "soakstat",
		Short: "Compare soak test captures of a baseline and a comparison run",
		Long: `soakstat compares the throughput of a baseline and a comparison run of
soak tests, one experiment at a time, and reports the experiments whose
mean throughput changed with statistical confidence.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := cfg.load(configPath, cmd.Flags()); err != nil {
					return err
				}
			}
			return run(cmd.Context(), w, wErr, &cfg)
		},
	}
	cmd.SetOut(w)
	cmd.SetErr(wErr)
	cmd.SetArgs(args)
	cfg.bind(cmd.Flags())
	cmd.Flags().StringVar(&configPath, "config", "", "read flag values from YAML `file`")

	return cmd.ExecuteContext(context.Background())
}

func run(ctx context.Context, w, wErr io.Writer, cfg *config) error {
	th, err := cfg.thresholds()
	if err != nil {
		return err
	}
	log, err := cfg.logger(wErr)
	if err != nil {
		return err
	}

	samples, err := soakfmt.ReadAll(cfg.CaptureDir)
	if err != nil {
		return err
	}
	norm, err := soakproc.Normalize(samples, th.WarmupSeconds, th.ResourceCount)
	if err != nil {
		return err
	}
	log.WithField("samples", len(norm)).Debugf("discarded %d warmup samples", len(samples)-len(norm))

	stat := soaktab.NewBuilder()
	for _, s := range norm {
		stat.Add(s)
	}
	rep, err := stat.Report(ctx, soaktab.Opts{
		Baseline:   cfg.Baseline,
		Comparison: cfg.Comparison,
		Thresholds: th,
		Log:        log,
	})
	if err != nil {
		return errors.Wrap(err, "analyzing experiments")
	}
	if len(rep.Skipped) > 0 {
		var names []string
		for _, s := range rep.Skipped {
			names = append(names, s.Experiment)
		}
		log.Warnf("skipped %d incomplete experiments: %s", len(names), strings.Join(names, ", "))
	}

	switch cfg.Format {
	case "csv":
		return rep.ToCSV(w, wErr)
	default:
		return rep.ToMarkdown(w)
	}
}
