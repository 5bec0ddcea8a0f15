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
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RegisterRoutes registers all optimizer routes with the router group.
//
// Description:
//
//	Registers all /v1/optimizer/* endpoints with the given Gin router group.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST   /v1/optimizer/benchmark - Run a benchmark and ranking
//	POST   /v1/optimizer/recommend - Rank submitted or CSV-imported results
//	POST   /v1/optimizer/suggest-weights - Weights preset for a profile
//	GET    /v1/optimizer/runs - List persisted runs
//	GET    /v1/optimizer/runs/:id - Get one run
//	DELETE /v1/optimizer/runs/:id - Delete one run
//	GET    /v1/optimizer/health - Health check
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	opt := rg.Group("/optimizer")
	{
		opt.POST("/benchmark", handlers.HandleBenchmark)
		opt.POST("/recommend", handlers.HandleRecommend)
		opt.POST("/suggest-weights", handlers.HandleSuggestWeights)

		opt.GET("/runs", handlers.HandleListRuns)
		opt.GET("/runs/:id", handlers.HandleGetRun)
		opt.DELETE("/runs/:id", handlers.HandleDeleteRun)

		opt.GET("/health", handlers.HandleHealth)
	}
}

// NewRouter builds the full engine: recovery, tracing middleware, the v1
// routes, and /metrics when metrics is non-nil.
func NewRouter(handlers *Handlers, metrics http.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("dsoptimizer"))

	v1 := router.Group("/v1")
	RegisterRoutes(v1, handlers)

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}
	return router
}
