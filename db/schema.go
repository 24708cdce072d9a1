// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The SQL is shared by SQLite and PostgreSQL; timestamps are Unix nanoseconds.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Candidates, with live counts
CREATE TABLE IF NOT EXISTS candidate (
    election_id TEXT NOT NULL,
    id TEXT NOT NULL,
    position INTEGER NOT NULL,
    display_name TEXT NOT NULL DEFAULT '',
    candidate_name TEXT NOT NULL DEFAULT '',
    platform_summary TEXT NOT NULL DEFAULT '',
    symbol TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '',
    vote_count BIGINT NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
    PRIMARY KEY (election_id, id)
);

-- Ledger counters, one row per election
CREATE TABLE IF NOT EXISTS ledger_state (
    election_id TEXT PRIMARY KEY,
    total_votes_cast BIGINT NOT NULL,
    block_height BIGINT NOT NULL
);

-- Receipts
CREATE TABLE IF NOT EXISTS vote_receipt (
    transaction_id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL,
    candidate_id TEXT NOT NULL,
    vote_hash TEXT NOT NULL,
    block_number BIGINT NOT NULL,
    nullifier TEXT NOT NULL,
    cast_at BIGINT NOT NULL,
    UNIQUE (election_id, nullifier),
    UNIQUE (election_id, block_number),
    FOREIGN KEY (election_id, candidate_id) REFERENCES candidate(election_id, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_vote_receipt_block ON vote_receipt(election_id, block_number);
`
