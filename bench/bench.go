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

// Package bench runs stack workloads at scale and reports what they observed.
// Every task owns its own stack; stacks are never shared between workers.
package bench

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/linkstack/config"
	"trpc.group/trpc-go/linkstack/errs"
	"trpc.group/trpc-go/linkstack/log"
)

// Runner runs the configured workloads on a worker pool.
type Runner struct {
	cfg  config.BenchConfig
	sink Sink
	now  func() time.Time
}

// Option sets Runner options.
type Option func(*Runner)

// WithSink sets where the finished report goes.
func WithSink(s Sink) Option {
	return func(r *Runner) {
		r.sink = s
	}
}

// New creates a Runner.
func New(cfg config.BenchConfig, opts ...Option) *Runner {
	r := &Runner{cfg: cfg, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run runs every workload cfg.Rounds times and waits for all of them.
// Tasks not yet submitted when ctx is done are skipped. The report is
// returned even if some workloads failed; the error aggregates every failure.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	workers := r.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errs.Wrap(err, errs.RetBenchSetupFail, "bench: new worker pool")
	}
	defer pool.Release()

	var (
		t       tally
		wg      sync.WaitGroup
		mu      sync.Mutex
		merr    *multierror.Error
		results []Result
	)
	collect := func(res Result, err error) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, res)
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	report := &Report{Started: r.now()}
	log.Infof("bench: %d workloads x %d rounds on %d workers",
		len(r.cfg.Workloads), r.cfg.Rounds, workers)
submit:
	for round := 1; round <= r.cfg.Rounds; round++ {
		for _, w := range r.cfg.Workloads {
			if ctx.Err() != nil {
				mu.Lock()
				merr = multierror.Append(merr, errs.Wrap(ctx.Err(), errs.RetBenchSetupFail, "bench: run interrupted"))
				mu.Unlock()
				break submit
			}
			wg.Add(1)
			if err := pool.Submit(func() {
				defer wg.Done()
				collect(r.runOne(w, round, &t))
			}); err != nil {
				wg.Done()
				collect(Result{Workload: w.Name, Round: round, Depth: w.Depth, Error: err.Error()},
					errs.Wrapf(err, errs.RetBenchSetupFail, "bench: submit %s", w.Name))
			}
		}
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Round != results[j].Round {
			return results[i].Round < results[j].Round
		}
		return results[i].Workload < results[j].Workload
	})
	report.Finished = r.now()
	report.Pushed = t.pushed.Load()
	report.Popped = t.popped.Load()
	report.Results = results

	if r.sink != nil {
		if err := r.sink.Write(report); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return report, merr.ErrorOrNil()
}

func (r *Runner) runOne(w config.Workload, round int, t *tally) (res Result, err error) {
	res = Result{Workload: w.Name, Round: round, Depth: w.Depth}
	defer func() {
		if p := recover(); p != nil {
			err = errs.Newf(errs.RetBenchMismatch, "bench: %s round %d panicked: %v", w.Name, round, p)
			res.Error = err.Error()
			log.Error(err)
		}
	}()
	run, ok := workloads[w.Name]
	if !ok {
		err = errs.Newf(errs.RetBenchSetupFail, "bench: unknown workload %q", w.Name)
		res.Error = err.Error()
		return res, err
	}
	start := time.Now()
	sum, err := run(w.Depth, t)
	res.Duration = time.Since(start)
	res.Checksum = sum
	if err != nil {
		res.Error = err.Error()
		log.Errorf("bench: %s round %d: %v", w.Name, round, err)
		return res, err
	}
	log.Debugf("bench: %s round %d depth %d took %s", w.Name, round, w.Depth, res.Duration)
	return res, nil
}
