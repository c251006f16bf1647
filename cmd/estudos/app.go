package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/app-estudos/estudos/app/routes"
	"github.com/app-estudos/estudos/app/views"
	"github.com/app-estudos/estudos/internal/config"
	"github.com/app-estudos/estudos/internal/errors"
	"github.com/app-estudos/estudos/pkg/history"
	"github.com/app-estudos/estudos/pkg/middleware"
	"github.com/app-estudos/estudos/pkg/modules"
	"github.com/app-estudos/estudos/pkg/router"
)

// app is the wired application shared by the commands.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	history *history.History
	table   *router.Table

	// Set when metrics are enabled.
	registry *prometheus.Registry
	metrics  *middleware.Metrics
}

// newApp loads the configuration in dir and builds the route table.
func newApp(dir string, logOut io.Writer) (*app, error) {
	cfg, err := config.LoadWithEnv(dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Log.NewLogger(logOut)
	slog.SetDefault(logger)

	src, err := moduleSource(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		history: history.New(cfg.BasePath),
	}

	var observers []router.Observer
	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.metrics = middleware.NewMetrics(
			middleware.WithRegistry(a.registry),
			middleware.WithNamespace(cfg.Metrics.Namespace),
		)
		observers = append(observers, a.metrics.Observer())
	}
	if cfg.Tracing.Enabled {
		observers = append(observers, middleware.Tracing(middleware.WithTracerName(cfg.Tracing.TracerName)))
	}

	loaders := views.NewLoaders(views.Options{
		Title:   cfg.Name,
		Source:  src,
		History: a.history,
		Logger:  logger.With("component", "views"),
	})
	table, err := routes.New(loaders,
		router.WithLogger(logger.With("component", "router")),
		router.WithObserver(router.Observers(observers...)),
	)
	if err != nil {
		return nil, errors.New("E200").Wrap(err)
	}
	a.table = table
	return a, nil
}

// moduleSource returns the configured page module source.
func moduleSource(cfg *config.Config) (modules.Source, error) {
	switch cfg.Modules.Source {
	case "", config.SourceEmbed:
		return views.Embedded(), nil
	case config.SourceDir:
		dir := cfg.ModulesDir()
		if _, err := os.Stat(dir); err != nil {
			return nil, errors.New("E302").
				WithDetailf("modules directory %s", dir).
				Wrap(err)
		}
		return modules.NewFSSource(os.DirFS(dir)), nil
	case config.SourceS3:
		s3 := cfg.Modules.S3
		client := modules.NewS3Client(modules.S3ClientOptions{
			Region:          s3.Region,
			Endpoint:        s3.Endpoint,
			UsePathStyle:    s3.UsePathStyle,
			AccessKeyID:     s3.AccessKeyID,
			SecretAccessKey: s3.SecretAccessKey,
		})
		return modules.NewS3Source(client, s3.Bucket, s3.Prefix), nil
	default:
		return nil, errors.New("E300").WithDetailf("modules.source is %q", cfg.Modules.Source)
	}
}
