// Package middleware provides the observability layer of the application
// shell: Prometheus metrics and OpenTelemetry tracing, each as HTTP
// middleware and as a route table observer.
//
// # Prometheus Metrics
//
//	reg := prometheus.NewRegistry()
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//
//	table, _ := router.New(root, router.WithObserver(m.Observer()))
//	r := chi.NewRouter()
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Route loads are counted by result: "loaded" when a loader ran, "cached"
// when the view was already loaded, "error" and "canceled" otherwise.
//
// # OpenTelemetry
//
// OpenTelemetry starts a server span per request; Tracing starts a child
// span per view load:
//
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("estudos")))
//	table, _ := router.New(root, router.WithObserver(router.Observers(
//	    m.Observer(),
//	    middleware.Tracing(),
//	)))
//
// Both use the global tracer provider unless WithTracerProvider is given.
package middleware
