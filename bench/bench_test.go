// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License that can be found in the LICENSE file.

package bench_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/linkstack/bench"
	"trpc.group/trpc-go/linkstack/bench/mockbench"
	"trpc.group/trpc-go/linkstack/config"
	"trpc.group/trpc-go/linkstack/errs"
)

func allWorkloads(depth int) []config.Workload {
	ws := make([]config.Workload, 0, len(config.Workloads))
	for _, name := range config.Workloads {
		ws = append(ws, config.Workload{Name: name, Depth: depth})
	}
	return ws
}

func TestRunAllWorkloads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var written *bench.Report
	sink := mockbench.NewMockSink(ctrl)
	sink.EXPECT().Write(gomock.Any()).DoAndReturn(func(r *bench.Report) error {
		written = r
		return nil
	}).Times(1)

	cfg := config.BenchConfig{Workers: 3, Rounds: 2, Workloads: allWorkloads(500)}
	report, err := bench.New(cfg, bench.WithSink(sink)).Run(context.Background())
	require.Nil(t, err)
	require.Same(t, report, written)

	require.Len(t, report.Results, 2*len(config.Workloads))
	for _, res := range report.Results {
		assert.Empty(t, res.Error, res.Workload)
		assert.Equal(t, 500, res.Depth)
		assert.NotZero(t, res.Checksum, res.Workload)
	}
	// results are ordered by round, then by workload name.
	assert.Equal(t, 1, report.Results[0].Round)
	assert.Equal(t, 2, report.Results[len(report.Results)-1].Round)
	assert.False(t, report.Finished.Before(report.Started))
	assert.NotZero(t, report.Pushed)
	assert.NotZero(t, report.Popped)
}

func TestRunChecksumsAgree(t *testing.T) {
	cfg := config.BenchConfig{Workers: 2, Rounds: 1, Workloads: []config.Workload{
		{Name: config.WorkloadLIFO, Depth: 1000},
		{Name: config.WorkloadDrain, Depth: 1000},
		{Name: config.WorkloadIter, Depth: 1000},
		{Name: config.WorkloadSnapshot, Depth: 1000},
	}}
	report, err := bench.New(cfg).Run(context.Background())
	require.Nil(t, err)

	// each of these observes the plain pop order of the same pushes.
	sums := make(map[uint64]struct{})
	for _, res := range report.Results {
		sums[res.Checksum] = struct{}{}
	}
	require.Len(t, sums, 1)
}

func TestRunDeepTeardown(t *testing.T) {
	cfg := config.BenchConfig{Rounds: 1, Workloads: []config.Workload{
		{Name: config.WorkloadTeardown, Depth: 1_000_000},
	}}
	report, err := bench.New(cfg).Run(context.Background())
	require.Nil(t, err)
	require.Len(t, report.Results, 1)
	require.Equal(t, uint64(1_000_000), report.Pushed)
}

func TestRunEmptyDepth(t *testing.T) {
	cfg := config.BenchConfig{Workers: 1, Rounds: 1, Workloads: allWorkloads(0)}
	_, err := bench.New(cfg).Run(context.Background())
	require.Nil(t, err)
}

func TestRunUnknownWorkload(t *testing.T) {
	cfg := config.BenchConfig{Workers: 1, Rounds: 1, Workloads: []config.Workload{
		{Name: "fifo", Depth: 1},
		{Name: config.WorkloadLIFO, Depth: 1},
	}}
	report, err := bench.New(cfg).Run(context.Background())
	require.NotNil(t, err)
	require.Equal(t, errs.RetBenchSetupFail, errs.Code(err))
	require.Len(t, report.Results, 2)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := config.BenchConfig{Workers: 1, Rounds: 1, Workloads: allWorkloads(10)}
	report, err := bench.New(cfg).Run(ctx)
	require.NotNil(t, err)
	require.True(t, errors.Is(err, context.Canceled))
	require.Empty(t, report.Results)
}

func TestRunSinkFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mockbench.NewMockSink(ctrl)
	sink.EXPECT().Write(gomock.Any()).Return(errs.New(errs.RetBenchReportFail, "disk full"))

	cfg := config.BenchConfig{Workers: 1, Rounds: 1, Workloads: allWorkloads(1)}
	report, err := bench.New(cfg, bench.WithSink(sink)).Run(context.Background())
	require.NotNil(t, report)
	require.Equal(t, errs.RetBenchReportFail, errs.Code(err))
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	sink, err := bench.NewFileSink(filepath.Join(dir, "reports", "stackbench-%Y%m%d.json"))
	require.Nil(t, err)

	started := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	require.Equal(t, filepath.Join(dir, "reports", "stackbench-20240309.json"), sink.Path(started))

	report := &bench.Report{
		Started:  started,
		Finished: started.Add(time.Second),
		Results:  []bench.Result{{Workload: config.WorkloadLIFO, Round: 1, Depth: 3, Checksum: 42}},
	}
	require.Nil(t, sink.Write(report))

	data, err := os.ReadFile(sink.Path(started))
	require.Nil(t, err)
	var got bench.Report
	require.Nil(t, json.Unmarshal(data, &got))
	assert.True(t, got.Started.Equal(started))
	assert.Equal(t, report.Results, got.Results)
}

func TestFileSinkBadPath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.Nil(t, os.WriteFile(file, nil, 0o644))

	// a regular file can not be used as a directory.
	sink, err := bench.NewFileSink(filepath.Join(file, "report.json"))
	require.Nil(t, err)
	err = sink.Write(&bench.Report{Started: time.Now()})
	require.Equal(t, errs.RetBenchReportFail, errs.Code(err))
}
