package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/app-estudos/estudos/internal/errors"
	"github.com/app-estudos/estudos/pkg/middleware"
	"github.com/app-estudos/estudos/pkg/server"
)

func serveCmd(dir *string) *cobra.Command {
	var (
		port     int
		host     string
		prefetch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server.

Every route under the base path is served as a full page; the page
then navigates over a WebSocket. GET /_routes lists the route table
and, with metrics enabled, GET /metrics exposes Prometheus metrics.

Examples:
  estudos serve
  estudos serve --port=3000
  estudos serve --prefetch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*dir, host, port, prefetch)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from estudos.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from estudos.json)")
	cmd.Flags().BoolVar(&prefetch, "prefetch", false, "Load every view before accepting requests")

	return cmd
}

func runServe(dir, host string, port int, prefetch bool) error {
	a, err := newApp(dir, os.Stderr)
	if err != nil {
		return err
	}
	if port > 0 {
		a.cfg.Server.Port = port
	}
	if host != "" {
		a.cfg.Server.Host = host
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if prefetch {
		if err := a.table.Prefetch(ctx); err != nil {
			return errors.New("E202").WithDetail("prefetch").Wrap(err)
		}
		success("Loaded %d views", a.table.Len())
	}

	opts := []server.Option{server.WithLogger(a.logger.With("component", "server"))}
	if a.metrics != nil {
		opts = append(opts, server.WithMetrics(a.metrics, promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	}
	if a.cfg.Tracing.Enabled {
		opts = append(opts, server.WithMiddleware(middleware.OpenTelemetry(middleware.WithTracerName(a.cfg.Tracing.TracerName))))
	}

	srv := server.New(a.table, &server.Config{
		Address:      a.cfg.Address(),
		BasePath:     a.cfg.BasePath,
		Title:        a.cfg.Name,
		ReadTimeout:  a.cfg.ReadTimeout(),
		WriteTimeout: a.cfg.WriteTimeout(),
	}, opts...)

	success("Serving %s on http://%s%s", a.cfg.Name, a.cfg.Address(), a.history.Base())
	info("Press Ctrl+C to stop")
	fmt.Println()

	if err := srv.Run(ctx); err != nil {
		return errors.New("E402").WithDetailf("listening on %s", a.cfg.Address()).Wrap(err)
	}
	return nil
}
