// Package logging provides structured logging utilities for the todofewer application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Consistent attribute naming across the codebase
//   - Token sanitization for safe logging of credential-adjacent values
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "todo.tasks.list")
//	logger.Info("listing tasks",
//	    logging.List(listID),
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Debug("token refreshed",
//	    "access_token", logging.SanitizeToken(tok.AccessToken))
package logging
