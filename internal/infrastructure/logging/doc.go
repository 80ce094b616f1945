// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: coloured console output for humans
//
// Core packages take a plain *zap.Logger; this package only builds it and
// attaches component names.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	hostLog := logger.Component("host")
//	hostLog.Info("window opened", zap.String("window_id", wid.String()))
package logging
