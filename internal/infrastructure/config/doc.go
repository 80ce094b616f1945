// Package config provides 12-factor configuration for the virtual windows host.
//
// Configuration is loaded from environment variables with defaults; CLI flags
// in cmd/server override a few of them.
//
// Configuration Sections:
//   - Server: HTTP listen address
//   - Logging: level and output format
//   - RateLimit: per-IP API rate limiting
//   - Host: window limits, composing surface, chrome metrics, stage behaviour
//   - PiP: floating presentation size
//   - Launcher: app-launch collaborator endpoint
//   - Relaunch: restart of unexpectedly terminated instances
//   - Arrangement: where window arrangements are persisted
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("hosting up to %d windows\n", cfg.Host.MaxWindows)
package config
