// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballot holds the candidate set, per-voter selections, and the receipt
ledger.

An Election is created once per process over a Store:

	e, err := ballot.NewElection(ctx, store, ballot.DefaultCandidates(), ballot.Options{
		NullifierSalt: cfg.NullifierSalt,
	})

Each voter gets a Ballot. Cast checks verification first, then selection,
then whether the voter id has already voted:

	b := e.NewBallot()
	err := b.Select("party3")
	receipt, err := b.Cast(ctx, session)

CastRecord does the same and also reports which candidate was counted.

Audit cross-checks the ledger: one receipt per block since genesis, and
candidate counts summing to the ledger total.

Block numbers start at the genesis height and rise by one per cast. Casts are
serialized per Election, so numbers never repeat.

MemoryStore is the in-process Store; db.SQLStore persists the same data.
*/
package ballot
