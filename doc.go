// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the verivote API server.

verivote is a demo voter verification and ballot service: a voter proves a
phone number, uploads a document, passes simulated document and face checks,
confirms a one-time code, then casts one vote and receives a ledger-style
receipt. Results are live.

# Starting the Server

Only the two secrets are required; everything else has a default:

	ADMIN_KEY_SALT=... NULLIFIER_SALT=... go run .

A .env file in the working directory is loaded first. The default store is an
in-memory SQLite database, so state is lost on restart. Use PostgreSQL to keep
it:

	go run . -t postgres -d "postgres://..."

# Configuration

See package cliparse for every flag and environment variable.

# Architecture

  - wizard: Per-voter verification state machine
  - ballot: Candidates, selections, tally, and receipts
  - session: Token to voter registry with idle expiry
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - metrics: Prometheus collectors
  - models: Request/response types
  - auth: Identifier, code, and key generation
  - db: Schema and SQL-backed store
  - cliparse: Configuration parsing

cmd/ballotctl is the operator CLI.
*/
package main
