//
//
// Tencent is pleased to support the open source community by making tRPC available.
//
// Copyright (C) 2023 Tencent.
// All rights reserved.
//
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the  Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.
//
//

// Package config loads the stackbench configuration from yaml or toml files.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"

	"trpc.group/trpc-go/linkstack/errs"
	"trpc.group/trpc-go/linkstack/internal/env"
	"trpc.group/trpc-go/linkstack/log"
)

// Workload names understood by the bench runner.
const (
	WorkloadLIFO     = "lifo"     // push depth values, pop them all, check the order.
	WorkloadTeardown = "teardown" // push depth values, then Reset.
	WorkloadDrain    = "drain"    // drain through IntoIter.
	WorkloadIter     = "iter"     // walk with a shared cursor, then check nothing changed.
	WorkloadIterMut  = "itermut"  // rewrite every element through an exclusive cursor.
	WorkloadPeek     = "peek"     // Peek and PeekMut before each Pop.
	WorkloadSnapshot = "snapshot" // JSON round trip.
)

// Workloads lists every known workload name.
var Workloads = []string{
	WorkloadLIFO,
	WorkloadTeardown,
	WorkloadDrain,
	WorkloadIter,
	WorkloadIterMut,
	WorkloadPeek,
	WorkloadSnapshot,
}

// Config is the stackbench configuration.
type Config struct {
	Log   log.Config  `yaml:"log"`
	Bench BenchConfig `yaml:"bench"`

	raw *Raw
}

// Raw returns the parsed tree the config was decoded from, for sections
// that have no typed field, like debug.
func (c *Config) Raw() *Raw {
	return c.raw
}

// BenchConfig configures the bench runner.
type BenchConfig struct {
	// Workers is the worker pool size. <= 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
	// Rounds is how many times each workload runs. Default is 1.
	Rounds int `yaml:"rounds"`
	// Report is a strftime pattern of the json report path. Empty disables the report.
	Report    string     `yaml:"report"`
	Workloads []Workload `yaml:"workloads"`
}

// Workload is one workload entry.
type Workload struct {
	Name  string `yaml:"name"`
	Depth int    `yaml:"depth"`
}

var defaultLogConfig = log.Config{{
	Writer:    log.OutputConsole,
	Level:     "info",
	Formatter: "console",
}}

// Load reads the config at path. Files ending in .toml are decoded as toml,
// anything else as yaml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrapf(err, errs.RetConfigLoadFail, "config: read %s", path)
	}
	raw, err := Parse(data, codecName(path))
	if err != nil {
		return nil, err
	}
	cfg := &Config{Bench: BenchConfig{Rounds: 1}}
	if err := raw.Decode(cfg); err != nil {
		return nil, err
	}
	cfg.raw = raw
	if len(cfg.Log) == 0 {
		cfg.Log = append(log.Config(nil), defaultLogConfig...)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func codecName(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}

// applyEnv lets the environment override selected fields.
func applyEnv(cfg *Config) error {
	for name, field := range map[string]*int{
		env.BenchWorkers: &cfg.Bench.Workers,
		env.BenchRounds:  &cfg.Bench.Rounds,
	} {
		s, ok := os.LookupEnv(name)
		if !ok || s == "" {
			continue
		}
		v, err := cast.ToIntE(s)
		if err != nil {
			return errs.Wrapf(err, errs.RetConfigInvalid, "config: env %s", name)
		}
		*field = v
	}
	return nil
}

// Validate checks the config holds usable values.
func (c *Config) Validate() error {
	if c.Bench.Rounds < 1 {
		return errs.Newf(errs.RetConfigInvalid, "config: bench.rounds must be positive, got %d", c.Bench.Rounds)
	}
	if len(c.Bench.Workloads) == 0 {
		return errs.New(errs.RetConfigInvalid, "config: bench.workloads is empty")
	}
	for i, w := range c.Bench.Workloads {
		if !isWorkload(w.Name) {
			return errs.Newf(errs.RetConfigInvalid, "config: bench.workloads[%d]: unknown workload %q", i, w.Name)
		}
		if w.Depth < 0 {
			return errs.Newf(errs.RetConfigInvalid, "config: bench.workloads[%d]: negative depth %d", i, w.Depth)
		}
	}
	return nil
}

func isWorkload(name string) bool {
	for _, w := range Workloads {
		if w == name {
			return true
		}
	}
	return false
}
