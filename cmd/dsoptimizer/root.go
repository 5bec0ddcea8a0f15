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
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/dsoptimizer/pkg/logging"
	"github.com/AleutianAI/dsoptimizer/pkg/ux"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/config"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/storage"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/telemetry"
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	configPath       string
	personalityLevel string
	logLevel         string
	logDir           string
	logJSON          bool
	historyDir       string
	noHistory        bool

	cfg    config.RunConfig
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "dsoptimizer",
		Short: "Benchmark data structures and recommend one for your workload",
		Long: `dsoptimizer profiles a dataset, benchmarks a binary search tree, heap,
hash table, graph and (for strings) trie under an operation mix, and ranks
them by time, space and workload suitability.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.teardown() },
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "yaml run configuration")
	pf.StringVar(&a.personalityLevel, "personality", "", "output style: full, standard, minimal or machine")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&a.logDir, "log-dir", "", "also write JSON logs to this directory")
	pf.BoolVar(&a.logJSON, "log-json", false, "write console logs as JSON")
	pf.StringVar(&a.historyDir, "history-dir", "", "run history directory")
	pf.BoolVar(&a.noHistory, "no-history", false, "do not open the run history store")

	root.AddCommand(
		newRunCmd(a),
		newImportCmd(a),
		newSuggestCmd(a),
		newHistoryCmd(a),
		newServeCmd(a),
		newWatchCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.personalityLevel != "" {
		ux.SetPersonalityLevel(ux.ParsePersonalityLevel(a.personalityLevel))
	} else {
		ux.InitPersonality()
	}
	ux.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

	a.cfg = config.DefaultConfig()
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.logLevel != "" {
		a.cfg.Logging.Level = a.logLevel
	}
	if a.logDir != "" {
		a.cfg.Logging.Dir = a.logDir
	}
	if a.logJSON {
		a.cfg.Logging.JSON = true
	}
	if a.historyDir != "" {
		a.cfg.HistoryDir = a.historyDir
	}

	a.logger = logging.New(logging.Config{
		Level:   a.cfg.LogLevel(),
		LogDir:  a.cfg.Logging.Dir,
		Service: "dsoptimizer",
		JSON:    a.cfg.Logging.JSON,
		Output:  cmd.ErrOrStderr(),
	})
	slog.SetDefault(a.logger.Slog())
	return nil
}

func (a *app) teardown() {
	if a.logger != nil {
		_ = a.logger.Close()
	}
}

// openStore opens run history, or returns nil when history is disabled.
func (a *app) openStore() (*storage.Store, error) {
	if a.noHistory || a.cfg.HistoryDir == "" {
		return nil, nil
	}
	cfg := storage.DefaultConfig(logging.ExpandPath(a.cfg.HistoryDir))
	cfg.Logger = a.logger.Slog()
	store, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening run history: %w", err)
	}
	return store, nil
}

// requireStore is openStore for commands that cannot work without history.
func (a *app) requireStore() (*storage.Store, error) {
	if a.noHistory {
		return nil, fmt.Errorf("run history is disabled")
	}
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("no history directory configured")
	}
	return store, nil
}

// initTelemetry installs otel providers. withMetrics keeps a Prometheus
// metric exporter, which only makes sense when something serves /metrics.
func (a *app) initTelemetry(ctx context.Context, withMetrics bool) func() {
	cfg := a.cfg.Telemetry
	if !withMetrics && cfg.MetricExporter == telemetry.ExporterPrometheus {
		cfg.MetricExporter = telemetry.ExporterNone
	}
	shutdown, err := telemetry.Init(ctx, cfg)
	if err != nil {
		a.logger.Warn("telemetry disabled", "error", err)
		return func() {}
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			a.logger.Warn("telemetry shutdown failed", "error", err)
		}
	}
}
