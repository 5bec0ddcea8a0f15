// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/dsoptimizer/pkg/logging"
	"github.com/AleutianAI/dsoptimizer/pkg/ux"
	"github.com/AleutianAI/dsoptimizer/services/optimizer"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/config"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/recommend"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/storage"
)

type runFlags struct {
	workload workloadFlags
	csvOut   string
	report   string
	save     bool
	compare  string
	minHeap  bool
	directed bool
}

func newRunCmd(a *app) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Benchmark every structure against a dataset and recommend one",
		Example: `  dsoptimizer run --type int --size 10000 --search 70 --insert 20 --delete 10
  dsoptimizer run --type string --file words.txt --prefix-search --csv results.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBenchmark(cmd, f)
		},
	}
	f.workload.register(cmd, true)
	fs := cmd.Flags()
	fs.StringVar(&f.csvOut, "csv", "", "write results to this CSV file")
	fs.StringVar(&f.report, "report", "", "write the recommendation report to this file")
	fs.BoolVar(&f.save, "save", true, "save the run to history")
	fs.StringVar(&f.compare, "compare", "", "compare two structures, e.g. BST,HashTable")
	fs.BoolVar(&f.minHeap, "min-heap", false, "benchmark a min-heap instead of a max-heap")
	fs.BoolVar(&f.directed, "directed", false, "benchmark a directed graph")
	return cmd
}

func (a *app) runBenchmark(cmd *cobra.Command, f *runFlags) error {
	cfg := a.cfg
	if err := f.workload.apply(cmd.Flags(), &cfg); err != nil {
		return err
	}
	if cmd.Flags().Changed("csv") {
		cfg.Output.CSV = f.csvOut
	}
	if cmd.Flags().Changed("report") {
		cfg.Output.Report = f.report
	}

	ctx := cmd.Context()
	defer a.initTelemetry(ctx, false)()

	var store *storage.Store
	if f.save {
		s, err := a.openStore()
		if err != nil {
			a.logger.Warn("run history unavailable", "error", err)
		}
		store = s
	}
	if store != nil {
		defer store.Close()
	}

	run, err := a.execute(cmd, cfg, store, []benchmark.RunOption{
		benchmark.WithMinHeap(f.minHeap),
		benchmark.WithDirectedGraph(f.directed),
	})
	if err != nil {
		ux.Error(err.Error())
		return err
	}

	printRun(run, splitPair(f.compare))

	if err := writeOutputs(cfg.Output, run); err != nil {
		ux.Error(err.Error())
		return err
	}
	if run.ID != "" {
		ux.Success("Saved run " + run.ID)
	}
	if ux.GetPersonality().ShowTips && cfg.Output.CSV == "" {
		ux.Muted("Tip: add --csv results.csv to export these results, then `dsoptimizer import results.csv` later.")
	}
	return nil
}

// execute loads the dataset and runs the service once.
func (a *app) execute(cmd *cobra.Command, cfg config.RunConfig, store *storage.Store, extra []benchmark.RunOption) (*storage.Run, error) {
	ds, source, skipped, err := loadDataset(cfg)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		ux.Warning(fmt.Sprintf("Skipped %d values that are not %s", skipped, ds.Type))
	}
	mix, err := cfg.OperationMix(ds.Len())
	if err != nil {
		return nil, err
	}

	opts := []optimizer.ServiceOption{optimizer.WithLogger(a.logger.Slog())}
	if store != nil {
		opts = append(opts, optimizer.WithStore(store))
	}
	svc := optimizer.NewService(optimizer.DefaultServiceConfig(), opts...)

	progress := ux.NewProgress(cmd.ErrOrStderr())
	defer progress.Done()

	return svc.Run(cmd.Context(), optimizer.RunRequest{
		Dataset:        ds,
		Mix:            mix,
		Intent:         cfg.Intent,
		Weights:        cfg.Weights,
		Seed:           cfg.Seed,
		Source:         source,
		Progress:       progress.Update,
		Persist:        store != nil,
		HarnessOptions: extra,
	})
}

func writeOutputs(out config.OutputConfig, run *storage.Run) error {
	if out.CSV != "" {
		var buf bytes.Buffer
		if err := benchmark.WriteCSV(&buf, run.Metrics); err != nil {
			return fmt.Errorf("exporting CSV: %w", err)
		}
		if err := os.WriteFile(logging.ExpandPath(out.CSV), buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out.CSV, err)
		}
		ux.Success("Results exported to " + out.CSV)
	}
	if out.Report != "" {
		report := benchmark.Report(run.Metrics) + recommend.Recommendation(run.Scores)
		if err := os.WriteFile(logging.ExpandPath(out.Report), []byte(report), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out.Report, err)
		}
		ux.Success("Report written to " + out.Report)
	}
	return nil
}
