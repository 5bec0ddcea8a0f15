// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads and validates dsoptimizer run configuration.
//
// A run configuration is a yaml document. Every field has a default, so
// an empty file is valid:
//
//	data_type: string
//	data_size: 5000
//	mix:
//	  search_percent: 60
//	  insert_percent: 30
//	  delete_percent: 10
//	intent:
//	  needs_prefix_search: true
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/dsoptimizer/pkg/logging"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/dataset"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/recommend"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/telemetry"
)

// ErrInvalidRunConfig wraps every validation failure.
var ErrInvalidRunConfig = errors.New("invalid run configuration")

// MixConfig is the operation mix as written in yaml. A zero total means
// twice the dataset size.
type MixConfig struct {
	SearchPercent   int `yaml:"search_percent" json:"search_percent" validate:"gte=0,lte=100"`
	InsertPercent   int `yaml:"insert_percent" json:"insert_percent" validate:"gte=0,lte=100"`
	DeletePercent   int `yaml:"delete_percent" json:"delete_percent" validate:"gte=0,lte=100"`
	TotalOperations int `yaml:"total_operations" json:"total_operations" validate:"gte=0,lte=20000000"`
}

// OutputConfig names optional result files.
type OutputConfig struct {
	CSV    string `yaml:"csv" json:"csv"`
	Report string `yaml:"report" json:"report"`
}

// LoggingConfig selects logger settings.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level" validate:"omitempty,oneof=debug info warn error"`
	Dir   string `yaml:"dir" json:"dir"`
	JSON  bool   `yaml:"json" json:"json"`
}

// RunConfig is one benchmark and recommendation run.
type RunConfig struct {
	DataType    string             `yaml:"data_type" json:"data_type" validate:"required,oneof=int integer double float float64 string str"`
	DataSize    int                `yaml:"data_size" json:"data_size" validate:"gte=0,lte=10000000"`
	DatasetPath string             `yaml:"dataset_path" json:"dataset_path"`
	Seed        uint64             `yaml:"seed" json:"seed"`
	Mix         MixConfig          `yaml:"mix" json:"mix"`
	Intent      profile.Intent     `yaml:"intent" json:"intent"`
	Weights     *recommend.Weights `yaml:"weights,omitempty" json:"weights,omitempty"`
	Output      OutputConfig       `yaml:"output" json:"output"`
	Telemetry   telemetry.Config   `yaml:"telemetry" json:"telemetry"`
	HistoryDir  string             `yaml:"history_dir" json:"history_dir"`
	Logging     LoggingConfig      `yaml:"logging" json:"logging"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterStructValidation(mixSumValidation, MixConfig{})
	validate.RegisterStructValidation(sourceValidation, RunConfig{})
}

// mixSumValidation requires the three percentages to sum to 100.
func mixSumValidation(sl validator.StructLevel) {
	m := sl.Current().Interface().(MixConfig)
	if m.SearchPercent+m.InsertPercent+m.DeletePercent != 100 {
		sl.ReportError(m.SearchPercent, "SearchPercent", "search_percent", "mixsum", "")
	}
}

// sourceValidation requires either a dataset file or a synthetic size.
func sourceValidation(sl validator.StructLevel) {
	c := sl.Current().Interface().(RunConfig)
	if c.DatasetPath == "" && c.DataSize == 0 {
		sl.ReportError(c.DataSize, "DataSize", "data_size", "required_without_dataset", "")
	}
}

// DefaultConfig returns a run over 1000 synthetic integers with a
// 50/30/20 mix.
func DefaultConfig() RunConfig {
	return RunConfig{
		DataType: "int",
		DataSize: 1000,
		Mix: MixConfig{
			SearchPercent: 50,
			InsertPercent: 30,
			DeletePercent: 20,
		},
		Telemetry:  telemetry.DefaultConfig(),
		HistoryDir: "~/.dsoptimizer/history",
		Logging:    LoggingConfig{Level: "info"},
	}
}

// Validate checks field constraints, the mix sum, and the dataset source.
func (c RunConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", ErrInvalidRunConfig, describe(verrs))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRunConfig, err)
	}
	if c.Weights != nil {
		if _, err := c.Weights.Normalize(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRunConfig, err)
		}
	}
	return nil
}

func describe(verrs validator.ValidationErrors) string {
	msg := ""
	for i, fe := range verrs {
		if i > 0 {
			msg += "; "
		}
		switch fe.Tag() {
		case "mixsum":
			msg += "mix percentages must sum to 100"
		case "required_without_dataset":
			msg += "data_size is required when dataset_path is empty"
		default:
			msg += fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
		}
	}
	return msg
}

// Load reads path over DefaultConfig and validates the result.
func Load(path string) (RunConfig, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(logging.ExpandPath(path))
	if err != nil {
		return RunConfig{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

// Save writes cfg to path as yaml, creating parent directories.
func Save(path string, cfg RunConfig) error {
	path = logging.ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Marshal encodes cfg as yaml in the same layout Load reads.
func Marshal(cfg RunConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

// ElementType resolves DataType.
func (c RunConfig) ElementType() (profile.DataType, error) {
	return dataset.ParseDataType(c.DataType)
}

// OperationMix builds the validated mix for a dataset of size elements.
func (c RunConfig) OperationMix(size int) (benchmark.OperationMix, error) {
	total := c.Mix.TotalOperations
	if total == 0 {
		total = 2 * size
	}
	return benchmark.NewOperationMix(c.Mix.SearchPercent, c.Mix.InsertPercent, c.Mix.DeletePercent, total)
}

// ResolveWeights returns the configured weights, or the preset suggested
// for p when none are configured.
func (c RunConfig) ResolveWeights(p profile.Profile) recommend.Weights {
	if c.Weights == nil {
		return recommend.SuggestWeights(p)
	}
	return *c.Weights
}

// LogLevel maps Logging.Level to a logging.Level.
func (c RunConfig) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}
