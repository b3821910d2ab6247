package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/TaroNakasendo/modularsynth"
	"github.com/TaroNakasendo/modularsynth/internal/cli"
	"github.com/TaroNakasendo/modularsynth/internal/presentation/tui"
	httpAdapter "github.com/TaroNakasendo/modularsynth/pkg/adapters/http"
	"github.com/TaroNakasendo/modularsynth/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Assembles the rack and serves it over HTTP: patch queries, gestures,
server-sent patch events on /events and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			cfg.HTTPAddr = addr
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		shutdownTracing, err := observability.Setup(ctx, "modularsynth", cfg.OTelEndpoint)
		if err != nil {
			return fmt.Errorf("failed to set up tracing: %w", err)
		}
		defer shutdownTracing(context.Background())

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}
		streams := httpAdapter.NewStreamManager()

		rack, closeEngine, err := cli.BuildRack(ctx, cfg, logger, metrics.Hooks(), streams.Hooks())
		if err != nil {
			return err
		}
		defer closeEngine()

		return serve(ctx, rack, reg, streams)
	},
}

func serve(ctx *cli.SignalContext, rack *modularsynth.Rack, reg *prometheus.Registry, streams *httpAdapter.StreamManager) error {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Mount("/", httpAdapter.NewHandler(rack, httpAdapter.WithStreams(streams), httpAdapter.WithLogger(logger)))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout, modularsynth.Version)
		}
		logger.Info("Starting modularsynth server", "address", srv.Addr, "engine", cfg.Engine, "cables", len(rack.Cables()))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("Start shutdown", "signal", ctx.Signal())

		// Give outstanding requests (and SSE streams) a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		logger.Info("modularsynth server stopped gracefully")
		return nil
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (default from MODULARSYNTH_HTTP_ADDR)")
}
