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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/dsoptimizer/pkg/ux"
	"github.com/AleutianAI/dsoptimizer/services/optimizer"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/server"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/storage"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/telemetry"
)

type serveFlags struct {
	addr     string
	rate     float64
	burst    int
	debug    bool
	shutdown time.Duration
}

func newServeCmd(a *app) *cobra.Command {
	f := &serveFlags{}
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the benchmark and recommendation HTTP API",
		Example: "  dsoptimizer serve --addr :8080 --rate 5 --burst 10",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd, f)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.addr, "addr", ":8080", "listen address")
	fs.Float64Var(&f.rate, "rate", 2, "benchmark submissions per second (0 disables limiting)")
	fs.IntVar(&f.burst, "burst", 4, "benchmark submission burst")
	fs.BoolVar(&f.debug, "debug", false, "run gin in debug mode")
	fs.DurationVar(&f.shutdown, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	return cmd
}

func (a *app) serve(cmd *cobra.Command, f *serveFlags) error {
	if f.debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.initTelemetry(ctx, true)()

	sink, err := telemetry.NewPrometheusSink(telemetry.DefaultSinkConfig())
	if err != nil {
		return fmt.Errorf("creating metrics sink: %w", err)
	}
	defer sink.Close()

	opts := []optimizer.ServiceOption{
		optimizer.WithLogger(a.logger.Slog()),
		optimizer.WithResultSink(sink),
		optimizer.WithScoreSink(sink),
	}
	store, err := a.openStore()
	if err != nil {
		a.logger.Warn("run history unavailable", "error", err)
	}
	if store != nil {
		defer store.Close()
		opts = append(opts, optimizer.WithStore(store))
	}
	svc := optimizer.NewService(optimizer.DefaultServiceConfig(), opts...)

	var limiter *rate.Limiter
	if f.rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(f.rate), f.burst)
	}
	handlers := server.NewHandlers(svc,
		server.WithLimiter(limiter),
		server.WithHandlerLogger(a.logger.Slog()),
	)

	metrics := telemetry.MetricsHandler()
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	router := server.NewRouter(handlers, metrics)

	srv := &http.Server{
		Addr:              f.addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	printBanner(f.addr, store)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting dsoptimizer server", slog.String("address", f.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening on %s: %w", f.addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down dsoptimizer server")
		sctx, cancel := context.WithTimeout(context.Background(), f.shutdown)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func printBanner(addr string, store *storage.Store) {
	history := "disabled"
	if store != nil {
		history = "enabled"
	}
	ux.Box("dsoptimizer "+server.ServiceVersion, fmt.Sprintf(
		"Listening on %s\nAPI:     /v1/optimizer\nMetrics: /metrics\nHistory: %s",
		addr, history))
}
