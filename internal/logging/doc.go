// Package logging provides structured logging for the rdl2 tools.
//
// # Overview
//
// The logging package provides a structured logging interface with support for:
//
//   - Multiple log levels (debug, info, warn, error)
//   - Text and JSON output formats
//   - Component tags naming the subsystem that logged an entry
//   - Field-based contextual logging
//
// # Creating a Logger
//
// Create a logger with configuration:
//
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "/var/log/rdl2/convert.log",
//	})
//
// Or use defaults:
//
//	logger := logging.NewDefault() // Warn level, text format, stderr
//
// For testing, use a no-op logger or write to a buffer:
//
//	logger := logging.NewNop()
//	logger := logging.New(logging.Config{Level: "debug", Writer: &buf})
//
// # Log Levels
//
// Four log levels are supported:
//
//	logger.Debug("detailed debugging info", "key", "value")
//	logger.Info("informational message", "key", "value")
//	logger.Warn("warning message", "key", "value")
//	logger.Error("error message", "key", "value")
//
// Parse level from string:
//
//	level := logging.ParseLevel("debug") // Returns LevelDebug
//
// # Structured Logging
//
// Add key-value pairs to log entries:
//
//	logger.Warn("skipping value",
//	    "object", "/scene/ball",
//	    "error", "no attribute named 'radius'",
//	)
//
// Output (JSON format):
//
//	{
//	    "ts": "2026-02-18T10:30:00Z",
//	    "level": "warn",
//	    "msg": "skipping value",
//	    "object": "/scene/ball",
//	    "error": "no attribute named 'radius'"
//	}
//
// # Components
//
// Tag a logger with the subsystem it serves:
//
//	readerLogger := logger.WithComponent("rdlb")
//	readerLogger.Warn("skipping value") // Includes component field
//
// # Contextual Fields
//
// Create loggers with persistent fields:
//
//	fileLogger := logger.WithFields(
//	    "file", path,
//	    "delta", true,
//	)
//
//	// All subsequent logs include these fields
//	fileLogger.Info("writing scene")
//
// # Output Formats
//
// Text format (human-readable, fields in key order):
//
//	2026-02-18T10:30:00Z [warn] rdlb: skipping value error=... object=/scene/ball
//
// JSON format (machine-parseable):
//
//	{"ts":"2026-02-18T10:30:00Z","level":"warn","component":"rdlb",...}
//
// # Output Destinations
//
// Configure output destination:
//
//	logging.Config{Output: "stderr"}                 // Standard error (default)
//	logging.Config{Output: "stdout"}                 // Standard output
//	logging.Config{Output: "/var/log/rdl2/rdl2.log"} // File path
//	logging.Config{Writer: w}                        // Any io.Writer
package logging
