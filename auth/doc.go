// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifier, code, and key generation utilities.

None of these values carry a cryptographic guarantee beyond what crypto/rand
and HMAC-SHA256 give them; they are labels for a demo ledger, not credentials.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(electionID, salt)
	err := auth.ValidateAdminKey(electionID, adminKey, salt)

The key guards POST /admin/reset. It is never stored.

# Session Tokens

	token := auth.GenerateSessionToken() // UUID v4

# Voter IDs and OTPs

	voterID, err := auth.GenerateVoterID() // "VTR" + 6 base-36 chars
	code, err := auth.GenerateOTP()        // "000000".."999999"

# Receipts

	txID, err := auth.GenerateTransactionID()      // "0x" + 16 hex
	hash, err := auth.ComputeVoteHash(txID, candidateID) // "0x" + 64 hex

# Nullifiers

Stores remember who voted through an HMAC of the voter id:

	n := auth.Nullifier(voterID, salt)
*/
package auth
