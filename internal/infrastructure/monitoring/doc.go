/*
Package monitoring provides Prometheus metrics for the virtual windows host.

# Overview

Metrics cover the window lifecycle (open, close, focus), input routing (taps
and status bar taps by destination), picture-in-picture sessions and the HTTP
surface. Every collector is registered on the registry passed to NewMetrics,
so tests can use a fresh prometheus.NewRegistry().

# Usage

	registry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(registry)

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics)
	// ... await launcher readiness ...
	timer.ObserveOpen("success")
*/
package monitoring
