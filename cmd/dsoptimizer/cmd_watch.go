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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/dsoptimizer/pkg/ux"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/dataset"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/storage"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		workload workloadFlags
		debounce time.Duration
		save     bool
	)
	cmd := &cobra.Command{
		Use:     "watch <dataset-file>",
		Short:   "Re-run the benchmark whenever a dataset file changes",
		Example: "  dsoptimizer watch --type string words.txt",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if err := workload.apply(cmd.Flags(), &cfg); err != nil {
				return err
			}
			cfg.DatasetPath = args[0]
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			defer a.initTelemetry(ctx, false)()

			var store *storage.Store
			if save {
				s, err := a.openStore()
				if err != nil {
					a.logger.Warn("run history unavailable", "error", err)
				}
				store = s
			}
			if store != nil {
				defer store.Close()
			}

			rerun := func(ctx context.Context, path string) {
				run, err := a.execute(cmd, cfg, store, nil)
				if err != nil {
					ux.Error(err.Error())
					return
				}
				printRun(run, nil)
				if err := writeOutputs(cfg.Output, run); err != nil {
					ux.Error(err.Error())
				}
			}
			rerun(ctx, args[0])

			w, err := dataset.NewWatcher(args[0], rerun, &dataset.WatchOptions{
				Debounce: debounce,
				Logger:   a.logger.Slog(),
			})
			if err != nil {
				ux.Error(err.Error())
				return err
			}

			spinner := ux.NewSpinner(fmt.Sprintf("Watching %s (Ctrl+C to stop)", w.Path()))
			spinner.Start()
			defer spinner.Stop()
			return w.Run(ctx)
		},
	}
	workload.register(cmd, false)
	cmd.Flags().DurationVar(&debounce, "debounce", dataset.DefaultDebounce, "quiet period before re-running")
	cmd.Flags().BoolVar(&save, "save", false, "save every run to history")
	return cmd
}
