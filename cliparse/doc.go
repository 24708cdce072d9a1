// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

main loads a .env file first, so every variable below may live there.

# Flags and Environment Variables

	-p               PORT             Server port (3318)
	-d               DATABASE_URL     Database URL (file::memory:?cache=shared)
	-t               DATABASE_TYPE    sqlite or postgres (sqlite)
	-admin-salt      ADMIN_KEY_SALT   Secret for admin key HMAC (required)
	-nullifier-salt  NULLIFIER_SALT   Secret for voter nullifiers (required)
	-election        ELECTION_ID      Election id (general-election)
	-candidates      CANDIDATES_FILE  Candidate YAML file (built-in ballot)
	-genesis         GENESIS_BLOCK    Ledger height before the first vote (18500745)
	-step-delay      STEP_DELAY       Simulated verification delay (1s)
	-session-ttl     SESSION_TTL      Idle session lifetime (30m)
	-demo-otp        DEMO_OTP         Return OTP codes in responses (true)

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - ADMIN_KEY_SALT or NULLIFIER_SALT is missing
  - DATABASE_TYPE is postgres and no DATABASE_URL is given
  - a numeric, duration, or boolean value does not parse
*/
package cliparse
