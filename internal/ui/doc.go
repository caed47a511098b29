// Package ui provides terminal UI components for the iconn-cfg CLI.
//
// Most commands run once and exit: they print a Header, the decoded values
// and a Result box, all styled with Lipgloss. Errors from the protocol
// layer are shown with troubleshooting tips derived from their type.
//
// The one interactive view is the meter display ("iconn-cfg meters
// --watch"), a Bubble Tea program that polls the device on a ticker and
// draws a bar per channel with bubbles/progress.
//
// # Logging Integration
//
// Zap logging is controlled by ICONN_LOG_LEVEL and goes to stderr, so the
// curated output on stdout stays clean.
//
// # Non-interactive Output
//
// IsTerminal reports whether stdout is a TTY; callers print plain text
// when it is not.
package ui
