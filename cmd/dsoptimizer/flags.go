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
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AleutianAI/dsoptimizer/pkg/ux"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/config"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/dataset"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/recommend"
)

// intentFlags binds the workload intent switches.
type intentFlags struct {
	rangeQueries, prefixSearch, priorityQueue bool
	memoryConstrained, speedCritical          bool
	relationships, connectivity               bool
}

func (f *intentFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.rangeQueries, "range-queries", false, "workload needs range queries")
	fs.BoolVar(&f.prefixSearch, "prefix-search", false, "workload needs prefix search")
	fs.BoolVar(&f.priorityQueue, "priority-queue", false, "workload needs priority-queue access")
	fs.BoolVar(&f.memoryConstrained, "memory-constrained", false, "memory is constrained")
	fs.BoolVar(&f.speedCritical, "speed-critical", false, "speed is critical")
	fs.BoolVar(&f.relationships, "relationships", false, "elements have relationships")
	fs.BoolVar(&f.connectivity, "connectivity", false, "workload needs connectivity queries")
}

// apply sets every flag that was given on the command line.
func (f *intentFlags) apply(fs *pflag.FlagSet, cfg *config.RunConfig) {
	set := func(name string, dst *bool, v bool) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("range-queries", &cfg.Intent.NeedsRangeQueries, f.rangeQueries)
	set("prefix-search", &cfg.Intent.NeedsPrefixSearch, f.prefixSearch)
	set("priority-queue", &cfg.Intent.NeedsPriorityQueue, f.priorityQueue)
	set("memory-constrained", &cfg.Intent.MemoryConstrained, f.memoryConstrained)
	set("speed-critical", &cfg.Intent.SpeedCritical, f.speedCritical)
	set("relationships", &cfg.Intent.HasRelationships, f.relationships)
	set("connectivity", &cfg.Intent.NeedsConnectivity, f.connectivity)
}

// workloadFlags binds dataset, mix and weight overrides.
type workloadFlags struct {
	intent intentFlags

	dataType string
	size     int
	file     string
	seed     uint64

	search, insert, del, ops int

	timeWeight, spaceWeight, suitabilityWeight float64
}

func (f *workloadFlags) register(cmd *cobra.Command, withSource bool) {
	fs := cmd.Flags()
	f.intent.register(fs)

	fs.StringVarP(&f.dataType, "type", "t", "", "element type: int, double or string")
	if withSource {
		fs.IntVarP(&f.size, "size", "n", 0, "synthetic dataset size")
		fs.StringVarP(&f.file, "file", "f", "", "dataset file of comma or whitespace separated values")
	}
	fs.Uint64Var(&f.seed, "seed", 0, "random seed for reproducible runs (0 is random)")

	fs.IntVar(&f.search, "search", 0, "search percentage")
	fs.IntVar(&f.insert, "insert", 0, "insert percentage")
	fs.IntVar(&f.del, "delete", 0, "delete percentage")
	fs.IntVar(&f.ops, "ops", 0, "total operations (default twice the dataset size)")

	fs.Float64Var(&f.timeWeight, "time-weight", 0, "weight of the time score")
	fs.Float64Var(&f.spaceWeight, "space-weight", 0, "weight of the space score")
	fs.Float64Var(&f.suitabilityWeight, "suitability-weight", 0, "weight of the suitability score")
}

// apply overlays given flags onto cfg and revalidates it.
func (f *workloadFlags) apply(fs *pflag.FlagSet, cfg *config.RunConfig) error {
	f.intent.apply(fs, cfg)

	if fs.Changed("type") {
		cfg.DataType = f.dataType
	}
	if fs.Changed("size") {
		cfg.DataSize = f.size
	}
	if fs.Changed("file") {
		cfg.DatasetPath = f.file
	}
	if fs.Changed("seed") {
		cfg.Seed = f.seed
	}
	if fs.Changed("search") {
		cfg.Mix.SearchPercent = f.search
	}
	if fs.Changed("insert") {
		cfg.Mix.InsertPercent = f.insert
	}
	if fs.Changed("delete") {
		cfg.Mix.DeletePercent = f.del
	}
	if fs.Changed("ops") {
		cfg.Mix.TotalOperations = f.ops
	}

	if fs.Changed("time-weight") || fs.Changed("space-weight") || fs.Changed("suitability-weight") {
		w := recommend.DefaultWeights()
		if cfg.Weights != nil {
			w = *cfg.Weights
		}
		if fs.Changed("time-weight") {
			w.Time = f.timeWeight
		}
		if fs.Changed("space-weight") {
			w.Space = f.spaceWeight
		}
		if fs.Changed("suitability-weight") {
			w.Suitability = f.suitabilityWeight
		}
		cfg.Weights = &w
	}
	return cfg.Validate()
}

// loadDataset reads cfg.DatasetPath or generates cfg.DataSize elements.
// It also returns the history source label and the skipped-token count.
func loadDataset(cfg config.RunConfig) (*dataset.Dataset, string, int, error) {
	typ, err := cfg.ElementType()
	if err != nil {
		return nil, "", 0, err
	}
	if cfg.DatasetPath != "" {
		res, err := dataset.LoadFile(cfg.DatasetPath, typ)
		if err != nil {
			return nil, "", 0, err
		}
		return res.Dataset, cfg.DatasetPath, res.Skipped, nil
	}

	var r *rand.Rand
	if cfg.Seed != 0 {
		r = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}
	ds, err := dataset.Generate(typ, cfg.DataSize, r)
	return ds, "synthetic", 0, err
}

// splitPair parses a --compare value. Anything but two names yields nil.
func splitPair(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		ux.Warning("--compare takes exactly two structure names")
		return nil
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
