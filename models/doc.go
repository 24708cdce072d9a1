// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SubmitPhoneRequest: phone
  - VerifyOTPRequest: code
  - SelectCandidateRequest: candidate_id

# Response Types

Types for JSON responses:

  - CreateSessionResponse: session_id, session, step
  - SessionStateResponse: wizard position, progress, selection, has_voted
  - AIChecksResponse: step, checks
  - OTPIssuedResponse: step, phone, demo_code (demo mode only)
  - VerifyOTPResponse: step, session
  - SelectionResponse: selected_candidate_id
  - CastVoteResponse: receipt, message
  - StatsResponse: ledger counters and recent transactions
  - ErrorResponse: error, message

# Domain Types

  - VoterSession: voter id, phone number, verified flag
  - CheckResult: one named AI verification check
  - Candidate: ballot entry with its seeded vote count
  - VoteReceipt: transaction id, vote hash, block number, cast time
  - VoteRecord: stored receipt plus candidate and nullifier
  - Tally, TallyEntry: ranked results with display percentages
  - LedgerStats: total votes cast and block height

# Constants

Wizard steps, in order:

	StepPhone           = "phone"
	StepDocument        = "document"
	StepAIProcessing    = "ai_processing"
	StepFaceRecognition = "face_recognition"
	StepOTP             = "otp"
	StepVerified        = "verified"
*/
package models
