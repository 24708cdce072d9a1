// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the verivote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(election, sessions, metrics, cfg)

# Endpoints

Health:

	GET /health
	GET /metrics

Verification wizard (session id in the path):

	POST   /sessions                   - Start session, submit phone
	GET    /sessions/{id}              - Current step and progress
	DELETE /sessions/{id}              - Reset and forget the session
	POST   /sessions/{id}/document     - Upload identity document
	POST   /sessions/{id}/ai-checks    - Run document checks
	POST   /sessions/{id}/face         - Face match, issues OTP
	POST   /sessions/{id}/otp/resend   - Replace the OTP
	POST   /sessions/{id}/otp/verify   - Enter the OTP

Ballot:

	GET    /candidates                 - Candidate list
	PUT    /sessions/{id}/selection    - Select a candidate
	DELETE /sessions/{id}/selection    - Clear the selection
	POST   /sessions/{id}/vote         - Cast, returns a receipt

Results (public, live):

	GET /results        - Ranked tally
	GET /receipts/{tx}  - Receipt lookup
	GET /stats          - Ledger health and recent transactions

Administration (requires X-Admin-Key):

	POST /admin/reset   - Restore seed counts and drop all sessions
*/
package router
