// Package main is the entry point for the virtual windows host server.
//
// The host keeps several app instances open as movable, focusable windows on
// one surface and serves them to a UI shell:
//
//	UI shell → REST (/windows, /pip, /dock, ...) → main loop → window host
//	        ← WebSocket (/ws/events)             ← event bus ←
//
// Configuration:
//   - Environment variables (12-factor), see internal/infrastructure/config
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	VW_MAX_WINDOWS=4 ./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
//	# Remote launcher and arrangement persistence
//	LAUNCHER_URL=http://localhost:9000 ARRANGEMENT_PATH=~/.vwhost/layout.yaml ./server
package main
