// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/ManuGH/e2ctl/internal/mcpserver"
	"github.com/ManuGH/e2ctl/internal/metrics"
	"github.com/ManuGH/e2ctl/internal/version"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	var metricsListen string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve receiver tools over MCP (stdio)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.receiver()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if metricsListen != "" {
				stop, err := a.serveMetrics(ctx, metricsListen)
				if err != nil {
					return err
				}
				defer stop()
			}

			srv := mcpserver.New(c, version.Version)
			err = srv.ServeStdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address, e.g. :9464")
	return cmd
}

// serveMetrics starts the metrics endpoint and returns a function that
// shuts it down.
func (a *app) serveMetrics(ctx context.Context, addr string) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	httpSrv := &http.Server{
		Handler:           metrics.NewRouter(metrics.DefaultRouterConfig),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.log.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		<-done
	}, nil
}
