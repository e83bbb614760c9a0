// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/zchee/soakstat/soakmath"
)

// config is the complete run configuration. It is assembled once
// from flags and an optional YAML file and not modified afterwards.
type config struct {
	Baseline            string   `yaml:"baseline"`
	Comparison          string   `yaml:"comparison"`
	CaptureDir          string   `yaml:"capture_dir"`
	ErraticExperiments  []string `yaml:"erratic_experiments"`
	MeanDriftPercentage float64  `yaml:"mean_drift_percentage"`
	PValue              float64  `yaml:"p_value"`
	ResourceCount       int      `yaml:"resource_count"`
	WarmupSeconds       int64    `yaml:"warmup_seconds"`
	Format              string   `yaml:"format"`
	LogLevel            string   `yaml:"log_level"`
}

func defaultConfig() config {
	return config{
		MeanDriftPercentage: soakmath.DefaultThresholds.MeanDrift,
		PValue:              soakmath.DefaultThresholds.PValue,
		WarmupSeconds:       -1,
		Format:              "markdown",
		LogLevel:            "warning",
	}
}

func (c *config) bind(flags *pflag.FlagSet) {
	flags.StringVar(&c.Baseline, "baseline", c.Baseline, "`label` of the baseline run (required)")
	flags.StringVar(&c.Comparison, "comparison", c.Comparison, "`label` of the comparison run (required)")
	flags.StringVar(&c.CaptureDir, "capture-dir", c.CaptureDir, "`directory` searched recursively for capture files (required)")
	flags.StringSliceVar(&c.ErraticExperiments, "erratic-experiments", c.ErraticExperiments, "comma-separated `experiments` never reported as changed")
	flags.Float64Var(&c.MeanDriftPercentage, "mean-drift-percentage", c.MeanDriftPercentage, "report changes whose absolute mean drift exceeds `percent`")
	flags.Float64Var(&c.PValue, "p-value", c.PValue, "report changes with p < `p`")
	flags.IntVar(&c.ResourceCount, "resource-count", c.ResourceCount, "divide throughput by `n` resources, typically CPUs (required)")
	flags.Int64Var(&c.WarmupSeconds, "warmup-seconds", c.WarmupSeconds, "discard samples with a fetch index at or below `seconds` (required)")
	flags.StringVar(&c.Format, "format", c.Format, "print the report in `format`: markdown or csv (warnings will be written to stderr)")
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "`level` of diagnostics written to stderr")
}

// load merges the YAML file at path into c. Values of flags that were
// set on the command line take precedence over the file.
func (c *config) load(path string, flags *pflag.FlagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}
	merged := *c
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&merged); err != nil && err != io.EOF {
		return errors.Wrapf(err, "parsing config %s", path)
	}
	flags.Visit(func(f *pflag.Flag) {
		merged.copyField(f.Name, c)
	})
	*c = merged
	return nil
}

func (c *config) copyField(flag string, from *config) {
	switch flag {
	case "baseline":
		c.Baseline = from.Baseline
	case "comparison":
		c.Comparison = from.Comparison
	case "capture-dir":
		c.CaptureDir = from.CaptureDir
	case "erratic-experiments":
		c.ErraticExperiments = from.ErraticExperiments
	case "mean-drift-percentage":
		c.MeanDriftPercentage = from.MeanDriftPercentage
	case "p-value":
		c.PValue = from.PValue
	case "resource-count":
		c.ResourceCount = from.ResourceCount
	case "warmup-seconds":
		c.WarmupSeconds = from.WarmupSeconds
	case "format":
		c.Format = from.Format
	case "log-level":
		c.LogLevel = from.LogLevel
	}
}

// thresholds validates c and returns the thresholds it describes.
func (c *config) thresholds() (soakmath.Thresholds, error) {
	for _, req := range []struct{ field, val string }{
		{"baseline", c.Baseline},
		{"comparison", c.Comparison},
		{"capture directory", c.CaptureDir},
	} {
		if req.val == "" {
			return soakmath.Thresholds{}, &soakmath.ConfigurationError{Field: req.field, Msg: "must be set"}
		}
	}
	if c.WarmupSeconds < 0 {
		return soakmath.Thresholds{}, &soakmath.ConfigurationError{Field: "warmup seconds", Msg: "must be set to a value >= 0"}
	}
	switch c.Format {
	case "markdown", "csv":
	default:
		return soakmath.Thresholds{}, &soakmath.ConfigurationError{Field: "format", Msg: "must be markdown or csv"}
	}

	th := soakmath.Thresholds{
		PValue:        c.PValue,
		MeanDrift:     c.MeanDriftPercentage,
		WarmupSeconds: c.WarmupSeconds,
		ResourceCount: c.ResourceCount,
		Erratic:       c.ErraticExperiments,
	}
	if err := th.Validate(); err != nil {
		return soakmath.Thresholds{}, err
	}
	return th, nil
}

// logger returns a logger writing c's level of diagnostics to w.
func (c *config) logger(w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, &soakmath.ConfigurationError{Field: "log level", Msg: err.Error()}
	}
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return log, nil
}
