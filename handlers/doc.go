// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the verivote API.

# Handler Types

Each handler is a struct with its dependencies injected:

  - VerificationHandler: Session lifecycle and the verification wizard
  - VotingHandler: Candidate listing, selection, and casting
  - ResultsHandler: Live tally, receipt lookup, and ledger stats
  - AdminHandler: Whole-election reset

	verificationHandler := handlers.NewVerificationHandler(sessions, election, metrics, cfg)

# Verification Flow

A session moves strictly forward; calling a step early returns 409.

	POST /sessions                 → CreateSession (phone, returns session_id)
	POST /sessions/{id}/document   → SubmitDocument
	POST /sessions/{id}/ai-checks  → RunAIChecks
	POST /sessions/{id}/face       → RunFaceMatch (issues OTP)
	POST /sessions/{id}/otp/verify → VerifyOTP

With DEMO_OTP on, the issued code is returned as demo_code in place of an
SMS. A wrong code returns 401 and the session stays at the OTP step.

# Voting

	PUT  /sessions/{id}/selection → SelectCandidate
	POST /sessions/{id}/vote      → CastVote

CastVote returns 403 for an unverified session before it looks at the
selection, 400 without a selection, and 409 once the voter has voted.

# Error Mapping

Domain errors are translated to status codes in one place (errors.go).
Unexpected errors are logged and returned as 500 with a generic message.
*/
package handlers
