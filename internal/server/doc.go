// Package server wires the virtual windows host together and serves it.
//
// This package orchestrates all components:
//   - Main loop, event bus and the window host
//   - Status bar router, PiP coordinator, dock and relauncher
//   - App launcher (in-process, or a remote launch service over HTTP)
//   - HTTP routing with Gin, the WebSocket event stream and /metrics
//   - Middleware stack (recovery, request ids, metrics, CORS, rate limiting)
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Initialize logger (production or development)
//  3. Load window rules and the arrangement store
//  4. Build the host and its collaborators, start the main loop
//  5. Setup HTTP routes and middleware
//  6. Serve until a signal arrives
//  7. Close: drain HTTP, cancel relaunches, close every window, stop the loop
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	go srv.Run()
//	defer srv.Close(context.Background())
package server
