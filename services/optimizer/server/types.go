// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package server

import (
	"time"

	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/recommend"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/storage"
)

// MixRequest is an operation mix. A zero total means twice the dataset size.
type MixRequest struct {
	SearchPercent   int `json:"search_percent" binding:"gte=0,lte=100"`
	InsertPercent   int `json:"insert_percent" binding:"gte=0,lte=100"`
	DeletePercent   int `json:"delete_percent" binding:"gte=0,lte=100"`
	TotalOperations int `json:"total_operations" binding:"gte=0,lte=20000000"`
}

// BenchmarkRequest is the body of POST /v1/optimizer/benchmark.
//
// Exactly one of the value slices matching DataType is used. When it is
// empty a synthetic dataset of Size elements is generated.
type BenchmarkRequest struct {
	DataType string    `json:"data_type" binding:"required"`
	Size     int       `json:"size" binding:"gte=0"`
	Ints     []int     `json:"ints,omitempty"`
	Doubles  []float64 `json:"doubles,omitempty"`
	Strings  []string  `json:"strings,omitempty"`

	Seed    uint64             `json:"seed"`
	Mix     MixRequest         `json:"mix"`
	Intent  profile.Intent     `json:"intent"`
	Weights *recommend.Weights `json:"weights,omitempty"`

	// Save persists the run to history.
	Save bool `json:"save"`
}

// BenchmarkResponse carries the run and its rendered recommendation.
type BenchmarkResponse struct {
	Run            *storage.Run `json:"run"`
	Recommendation string       `json:"recommendation"`
}

// RecommendRequest is the JSON body of POST /v1/optimizer/recommend.
type RecommendRequest struct {
	Metrics map[string]*benchmark.Metrics `json:"metrics" binding:"required"`
	Profile profile.Profile               `json:"profile"`
	Mix     MixRequest                    `json:"mix"`
	Weights *recommend.Weights            `json:"weights,omitempty"`
}

// RecommendResponse is the ranking for submitted or imported results.
type RecommendResponse struct {
	Scores         []recommend.Score `json:"scores"`
	Recommendation string            `json:"recommendation"`

	// Failed counts skipped CSV rows. Always zero for JSON input.
	Failed int `json:"failed"`
}

// WeightsResponse is the result of POST /v1/optimizer/suggest-weights.
type WeightsResponse struct {
	Weights recommend.Weights `json:"weights"`
	Preset  string            `json:"preset"`
}

// RunSummary is one row of GET /v1/optimizer/runs.
type RunSummary struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Source    string           `json:"source,omitempty"`
	DataType  profile.DataType `json:"data_type"`
	DataSize  int              `json:"data_size"`
	Winner    string           `json:"winner"`
}

// RunListResponse wraps run summaries.
type RunListResponse struct {
	Runs []RunSummary `json:"runs"`
}

// HealthResponse is the health check body.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	HistoryOK bool   `json:"history_ok"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code.
	Code string `json:"code,omitempty"`
}
