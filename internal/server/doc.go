// Package server provides the MCP server context and operational HTTP
// endpoints for the todofewer application.
//
// # Key Components
//
// ServerContext manages Microsoft To Do clients with lazy initialization
// and caching. It supports multiple accounts; each account's client is
// backed by that account's stored OAuth token and refreshes it
// transparently.
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolating
// operational metrics from the MCP stdio transport.
//
// HealthChecker provides liveness and readiness endpoints suitable for
// Kubernetes probes.
package server
