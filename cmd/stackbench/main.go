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

// Command stackbench runs linkstack workloads described by a config file.
//
//	stackbench -conf ./stackbench.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"go.uber.org/automaxprocs/maxprocs"

	"trpc.group/trpc-go/linkstack/bench"
	"trpc.group/trpc-go/linkstack/config"
	"trpc.group/trpc-go/linkstack/errs"
	"trpc.group/trpc-go/linkstack/log"
)

const defaultConfigPath = "./stackbench.yaml"

func main() {
	confPath := flag.String("conf", defaultConfigPath, "stackbench config path")
	flag.Parse()

	if err := run(*confPath); err != nil {
		fmt.Fprintf(os.Stderr, "stackbench: %v\n", err)
		os.Exit(1)
	}
}

func run(confPath string) error {
	cfg, err := config.Load(confPath)
	if err != nil {
		return err
	}
	logger, err := log.NewZapLog(cfg.Log)
	if err != nil {
		return err
	}
	log.SetLogger(logger)
	defer logger.Close()
	applyDebug(cfg.Raw())

	undo, err := maxprocs.Set(maxprocs.Logger(log.Debugf))
	if err != nil {
		log.Warnf("stackbench: set GOMAXPROCS: %v", err)
	}
	defer undo()

	var opts []bench.Option
	if cfg.Bench.Report != "" {
		sink, err := bench.NewFileSink(cfg.Bench.Report)
		if err != nil {
			return err
		}
		opts = append(opts, bench.WithSink(sink))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := bench.New(cfg.Bench, opts...).Run(ctx)
	if report != nil {
		for _, res := range report.Results {
			if res.Error != "" {
				continue
			}
			log.Infof("%-9s round %d depth %-9s %12s checksum %016x",
				res.Workload, res.Round, humanize.Comma(int64(res.Depth)), res.Duration, res.Checksum)
		}
		log.Infof("pushed %s popped %s in %s",
			humanize.Comma(int64(report.Pushed)), humanize.Comma(int64(report.Popped)),
			report.Finished.Sub(report.Started))
	}
	return err
}

// applyDebug turns on the tracing switches of the optional debug section:
//
//	debug:
//	  log_trace: true     # emit Trace lines
//	  errs_trace: all     # attach stacks to errors; any other value keeps
//	                      # only the frames containing it
func applyDebug(raw *config.Raw) {
	if raw == nil || !raw.IsSet("debug") {
		return
	}
	if raw.GetBool("debug.log_trace", false) {
		log.EnableTrace()
	}
	switch content := raw.GetString("debug.errs_trace", ""); content {
	case "":
	case "all":
		errs.SetTraceable(true)
	default:
		errs.SetTraceableWithContent(content)
	}
}
