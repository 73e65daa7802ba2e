// Package middleware provides the starter's observability middleware.
//
// # Prometheus Metrics
//
// Metrics instruments HTTP handlers and records live-session activity:
//   - starter_http_requests_total: requests by route, method and status
//   - starter_http_request_duration_seconds: request latency histogram
//   - starter_navigations_total: navigations by kind and whether a route matched
//   - starter_actions_total: client actions by name
//   - starter_active_sessions: current number of live sessions
//
//	m := middleware.NewMetrics(middleware.WithNamespace("my_app"))
//	r := chi.NewRouter()
//	r.Use(m.Handler)
//	r.Handle("/metrics", m.Exposer())
//
// # OpenTelemetry
//
// Tracing starts one span per HTTP request, named after the chi route
// pattern, using the global tracer provider unless one is given:
//
//	r.Use(middleware.Tracing(middleware.WithTracerName("my-app")))
//
// Configure the provider in main() before starting the server:
//
//	otel.SetTracerProvider(tp)
package middleware
