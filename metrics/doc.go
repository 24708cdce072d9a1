// Package metrics exposes Prometheus counters for the verification flow and
// the ballot, plus a gauge of active sessions, served at GET /metrics.
package metrics
