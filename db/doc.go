// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles schema creation and the SQL-backed ballot store.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same SQL runs on SQLite (modernc.org/sqlite) and PostgreSQL (lib/pq).

# Tables

  - candidate: Ballot entries with live vote counts, ordered by position
  - ledger_state: Total votes cast and block height per election
  - vote_receipt: One receipt per nullifier per election

Every row carries an election_id, so several elections can share a database.

# Store

SQLStore implements ballot.Store:

	store := db.NewSQLStore(conn, cfg.ElectionID)
	election, err := ballot.NewElection(ctx, store, candidates, opts)

RecordVote runs in one transaction: the nullifier check, the candidate and
ledger updates, and the receipt insert commit together or not at all.
*/
package db
