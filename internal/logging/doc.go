// Package logging provides structured logging for the iconn tools.
//
// This package wraps a global zap logger with convenience functions for the
// logging patterns used by the transports, the dispatcher and the bridge.
// Logging is silent unless a level is passed to Initialize or set through
// the ICONN_LOG_LEVEL environment variable; output goes to stderr so that
// command results on stdout stay machine readable.
//
// # Log Levels
//
//   - Debug: SysEx frames in both directions, listener bookkeeping
//   - Info: bridge connections, port open/close
//   - Warn: frames dropped for bad checksums, listener errors
//   - Error: startup failures
//
// # Structured Logging
//
//	logging.Warn("Dropping frame with invalid checksum",
//	    zap.String("port", port.String()),
//	    logging.Hex("hex", frame),
//	)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use once Initialize has
// returned.
package logging
