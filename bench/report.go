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

package bench

import (
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/lestrrat-go/strftime"

	"trpc.group/trpc-go/linkstack/errs"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Result is the outcome of one workload round.
type Result struct {
	Workload string        `json:"workload"`
	Round    int           `json:"round"`
	Depth    int           `json:"depth"`
	Duration time.Duration `json:"duration_ns"`
	// Checksum is the xxhash digest of the sequence the workload observed.
	Checksum uint64 `json:"checksum"`
	Error    string `json:"error,omitempty"`
}

// Report is the outcome of a whole run.
type Report struct {
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Pushed   uint64    `json:"pushed"`
	Popped   uint64    `json:"popped"`
	Results  []Result  `json:"results"`
}

//go:generate mockgen -destination=mockbench/sink_mock.go -package=mockbench trpc.group/trpc-go/linkstack/bench Sink

// Sink receives the finished report.
type Sink interface {
	Write(r *Report) error
}

// FileSink writes the report as json to a file whose name is a strftime
// pattern expanded at the report start time.
type FileSink struct {
	pattern *strftime.Strftime
}

// NewFileSink creates a FileSink.
func NewFileSink(pattern string) (*FileSink, error) {
	p, err := strftime.New(pattern)
	if err != nil {
		return nil, errs.Wrapf(err, errs.RetBenchReportFail, "bench: bad report pattern %q", pattern)
	}
	return &FileSink{pattern: p}, nil
}

// Path returns the report path for a run started at t.
func (s *FileSink) Path(t time.Time) string {
	return s.pattern.FormatString(t)
}

// Write implements Sink.
func (s *FileSink) Write(r *Report) error {
	name := s.Path(r.Started)
	data, err := jsonAPI.MarshalIndent(r, "", "  ")
	if err != nil {
		return errs.Wrap(err, errs.RetBenchReportFail, "bench: encode report")
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return errs.Wrapf(err, errs.RetBenchReportFail, "bench: create dir for %s", name)
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return errs.Wrapf(err, errs.RetBenchReportFail, "bench: write %s", name)
	}
	return nil
}
