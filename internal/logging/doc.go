// Package logging provides structured logging with per-module log levels.
//
// Built on log/slog. Records go to stdout (text or json), to the systemd
// journal when journald is available, and to an in-memory ring buffer that
// keeps recent history for inspection.
//
// Initialize once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"camera": "debug",
//			"api":    "warn",
//		},
//	})
//
// Get a logger for a module:
//
//	logger := logging.GetLogger("camera")
//	logger.Info("Session ready", "camera", addr)
//
// Module levels can be changed at runtime with UpdateLevels, which the
// config file watcher uses to apply edits without a restart.
//
// When running under systemd:
//
//	journalctl -t camnode -f
//	journalctl -t camnode MODULE=camera
package logging
