// Package middleware provides observability interceptors for navkit
// sessions.
//
// This package includes:
//   - Prometheus metrics for session events and navigation activity
//   - OpenTelemetry tracing with a span per client event
//
// Both are session.EventInterceptor values, wired at session
// construction:
//
//	sess := session.New(conn,
//	    session.WithInterceptor(
//	        middleware.Prometheus(),
//	        middleware.OpenTelemetry(),
//	    ),
//	)
//
// Expose the collected metrics with promhttp:
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// The tracer uses the global OpenTelemetry tracer provider; configure it
// in main() before serving.
package middleware
