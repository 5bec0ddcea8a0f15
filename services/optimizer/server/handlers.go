// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package server exposes the optimizer over HTTP with gin.
package server

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/dsoptimizer/services/optimizer"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/benchmark"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/dataset"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/profile"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/recommend"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/storage"
)

// ServiceVersion is the HTTP API version.
const ServiceVersion = "1.0.0"

const (
	defaultRunLimit = 20
	maxRunLimit     = 500
)

// Handlers contains the HTTP handlers for the optimizer.
type Handlers struct {
	svc     *optimizer.Service
	limiter *rate.Limiter
	logger  *slog.Logger
}

// HandlerOption configures Handlers.
type HandlerOption func(*Handlers)

// WithLimiter replaces the benchmark submission limiter. Nil disables it.
func WithLimiter(l *rate.Limiter) HandlerOption {
	return func(h *Handlers) { h.limiter = l }
}

// WithHandlerLogger sets the request logger. Nil is ignored.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handlers) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandlers creates handlers for svc. Benchmark submissions are limited
// to two per second with a burst of four unless WithLimiter overrides it.
func NewHandlers(svc *optimizer.Service, opts ...HandlerOption) *Handlers {
	h := &Handlers{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Limit(2), 4),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleBenchmark handles POST /v1/optimizer/benchmark.
//
// Description:
//
//	Builds the dataset from the request values, or generates one when no
//	values are given, then runs the full benchmark and ranking.
//
// Response:
//
//	200 OK: BenchmarkResponse
//	400 Bad Request: Invalid dataset, mix or weights
//	429 Too Many Requests: Submission rate exceeded
//	504 Gateway Timeout: The request deadline passed
//	500 Internal Server Error: Processing error
func (h *Handlers) HandleBenchmark(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.logger.With("request_id", requestID, "handler", "HandleBenchmark")

	if h.limiter != nil && !h.limiter.Allow() {
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error: "Too many benchmark submissions",
			Code:  "RATE_LIMITED",
		})
		return
	}

	var req BenchmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	ds, err := buildDataset(req)
	if err != nil {
		writeError(c, err)
		return
	}
	mix, err := toMix(req.Mix, ds.Len())
	if err != nil {
		writeError(c, err)
		return
	}

	logger.Info("Running benchmark", "data_type", ds.Type, "data_size", ds.Len())
	run, err := h.svc.Run(c.Request.Context(), optimizer.RunRequest{
		Dataset: ds,
		Mix:     mix,
		Intent:  req.Intent,
		Weights: req.Weights,
		Seed:    req.Seed,
		Source:  "api",
		Persist: req.Save,
	})
	if err != nil {
		logger.Warn("Benchmark failed", "error", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, BenchmarkResponse{
		Run:            run,
		Recommendation: recommend.Recommendation(run.Scores),
	})
}

// HandleRecommend handles POST /v1/optimizer/recommend.
//
// Description:
//
//	Ranks previously measured results. A text/csv body is parsed as an
//	exported results table and ranked by its stored scores; a JSON body
//	is rescored with the given profile, mix and weights.
//
// Response:
//
//	200 OK: RecommendResponse
//	400 Bad Request: Unreadable CSV, invalid body, or no metrics
func (h *Handlers) HandleRecommend(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.logger.With("request_id", requestID, "handler", "HandleRecommend")

	if strings.HasPrefix(c.ContentType(), "text/csv") {
		imported, err := benchmark.ReadCSV(c.Request.Body)
		if err != nil {
			logger.Warn("CSV import failed", "error", err)
			writeError(c, err)
			return
		}
		scores := recommend.FromImported(imported.Rows)
		c.JSON(http.StatusOK, RecommendResponse{
			Scores:         scores,
			Recommendation: recommend.Recommendation(scores),
			Failed:         imported.Failed,
		})
		return
	}

	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	mix, err := toMix(req.Mix, req.Profile.Size)
	if err != nil {
		writeError(c, err)
		return
	}
	weights := recommend.SuggestWeights(req.Profile)
	if req.Weights != nil {
		weights = *req.Weights
	}
	for name, m := range req.Metrics {
		if m == nil {
			delete(req.Metrics, name)
		}
	}

	scores, err := h.svc.Rank(c.Request.Context(), req.Metrics, req.Profile, mix, weights)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecommendResponse{
		Scores:         scores,
		Recommendation: recommend.Recommendation(scores),
	})
}

// HandleSuggestWeights handles POST /v1/optimizer/suggest-weights.
//
// The body is a profile; only its intent flags affect the result.
func (h *Handlers) HandleSuggestWeights(c *gin.Context) {
	var p profile.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	c.JSON(http.StatusOK, WeightsResponse{
		Weights: recommend.SuggestWeights(p),
		Preset:  presetName(p),
	})
}

func presetName(p profile.Profile) string {
	switch {
	case p.SpeedCritical:
		return "speed"
	case p.MemoryConstrained:
		return "memory"
	default:
		return "balanced"
	}
}

// HandleListRuns handles GET /v1/optimizer/runs.
//
// Query Parameters:
//
//	limit - Maximum runs to return (default 20, max 500).
func (h *Handlers) HandleListRuns(c *gin.Context) {
	limit := defaultRunLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "limit must be a positive integer",
				Code:  "INVALID_LIMIT",
			})
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := RunListResponse{Runs: make([]RunSummary, 0, len(runs))}
	for _, r := range runs {
		resp.Runs = append(resp.Runs, RunSummary{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Source:    r.Source,
			DataType:  r.DataType,
			DataSize:  r.Profile.Size,
			Winner:    r.Winner(),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// HandleGetRun handles GET /v1/optimizer/runs/:id.
func (h *Handlers) HandleGetRun(c *gin.Context) {
	run, err := h.svc.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// HandleDeleteRun handles DELETE /v1/optimizer/runs/:id.
func (h *Handlers) HandleDeleteRun(c *gin.Context) {
	if err := h.svc.Forget(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleHealth handles GET /v1/optimizer/health. Always 200 if running.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   ServiceVersion,
		HistoryOK: h.svc.Store() != nil,
	})
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func buildDataset(req BenchmarkRequest) (*dataset.Dataset, error) {
	typ, err := dataset.ParseDataType(req.DataType)
	if err != nil {
		return nil, err
	}
	switch {
	case typ == profile.TypeInteger && len(req.Ints) > 0:
		return dataset.FromInts(req.Ints), nil
	case typ == profile.TypeDouble && len(req.Doubles) > 0:
		return dataset.FromDoubles(req.Doubles), nil
	case typ == profile.TypeString && len(req.Strings) > 0:
		return dataset.FromStrings(req.Strings), nil
	}

	var r *rand.Rand
	if req.Seed != 0 {
		r = rand.New(rand.NewPCG(req.Seed, req.Seed))
	}
	return dataset.Generate(typ, req.Size, r)
}

func toMix(m MixRequest, size int) (benchmark.OperationMix, error) {
	total := m.TotalOperations
	if total == 0 {
		total = 2 * size
	}
	return benchmark.NewOperationMix(m.SearchPercent, m.InsertPercent, m.DeletePercent, total)
}

// writeError maps domain errors to status codes.
func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, storage.ErrRunNotFound):
		status, code = http.StatusNotFound, "RUN_NOT_FOUND"
	case errors.Is(err, optimizer.ErrNoStore), errors.Is(err, storage.ErrStoreClosed):
		status, code = http.StatusServiceUnavailable, "HISTORY_UNAVAILABLE"
	case errors.Is(err, dataset.ErrEmptyDataset),
		errors.Is(err, dataset.ErrDatasetTooLarge),
		errors.Is(err, dataset.ErrUnknownDataType):
		status, code = http.StatusBadRequest, "INVALID_DATASET"
	case errors.Is(err, benchmark.ErrInvalidConfig):
		status, code = http.StatusBadRequest, "INVALID_MIX"
	case errors.Is(err, recommend.ErrInvalidWeights):
		status, code = http.StatusBadRequest, "INVALID_WEIGHTS"
	case errors.Is(err, recommend.ErrNoMetrics):
		status, code = http.StatusBadRequest, "NO_METRICS"
	case errors.Is(err, benchmark.ErrImportFailed),
		errors.Is(err, benchmark.ErrBinaryFile),
		errors.Is(err, benchmark.ErrMissingHeader):
		status, code = http.StatusBadRequest, "INVALID_CSV"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "TIMEOUT"
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
