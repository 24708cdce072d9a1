// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/verivote/models"
)

// TestFullVotingWorkflow tests the complete end-to-end workflow:
// 1. Start a session with a phone number
// 2. Upload a document
// 3. Run document checks
// 4. Face match (issues OTP)
// 5. Verify OTP
// 6. Select and cast
// 7. Look up the receipt
// 8. Verify results and stats
func TestFullVotingWorkflow(t *testing.T) {
	env := newTestEnv(t)

	// Step 1: Start a session
	body, _ := json.Marshal(models.SubmitPhoneRequest{Phone: "+91 98765 43210"})
	req := httptest.NewRequest("POST", "/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.verification.CreateSession(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create session failed: %d - %s", w.Code, w.Body.String())
	}

	var createResp models.CreateSessionResponse
	json.NewDecoder(w.Body).Decode(&createResp)
	sessionID := createResp.SessionID
	t.Logf("Step 1 - Created session for voter %s", createResp.Session.VoterID)

	// Step 2: Upload a document
	req = httptest.NewRequest("POST", "/sessions/"+sessionID+"/document", bytes.NewReader([]byte("passport")))
	req.Header.Set("Content-Type", "image/png")
	req.SetPathValue("id", sessionID)
	w = httptest.NewRecorder()
	env.verification.SubmitDocument(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 2 - Document upload failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 3: Document checks
	w = httptest.NewRecorder()
	env.verification.RunAIChecks(w, sessionRequest("POST", "/sessions/"+sessionID+"/ai-checks", sessionID, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - AI checks failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 4: Face match
	w = httptest.NewRecorder()
	env.verification.RunFaceMatch(w, sessionRequest("POST", "/sessions/"+sessionID+"/face", sessionID, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Step 4 - Face match failed: %d - %s", w.Code, w.Body.String())
	}
	var otpResp models.OTPIssuedResponse
	json.NewDecoder(w.Body).Decode(&otpResp)
	if otpResp.DemoCode == nil {
		t.Fatal("Step 4 - Expected demo code in demo mode")
	}

	// Casting before verification is forbidden
	w = httptest.NewRecorder()
	env.voting.CastVote(w, sessionRequest("POST", "/sessions/"+sessionID+"/vote", sessionID, nil))
	if w.Code != http.StatusForbidden {
		t.Errorf("Early cast should be forbidden, got %d", w.Code)
	}

	// Step 5: Verify OTP
	w = httptest.NewRecorder()
	env.verification.VerifyOTP(w, sessionRequest("POST", "/sessions/"+sessionID+"/otp/verify", sessionID,
		models.VerifyOTPRequest{Code: *otpResp.DemoCode}))

	if w.Code != http.StatusOK {
		t.Fatalf("Step 5 - OTP verification failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 6: Select and cast
	w = httptest.NewRecorder()
	env.voting.SelectCandidate(w, sessionRequest("PUT", "/sessions/"+sessionID+"/selection", sessionID,
		models.SelectCandidateRequest{CandidateID: "party3"}))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - Select failed: %d - %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	env.voting.CastVote(w, sessionRequest("POST", "/sessions/"+sessionID+"/vote", sessionID, nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 6 - Cast failed: %d - %s", w.Code, w.Body.String())
	}
	var castResp models.CastVoteResponse
	json.NewDecoder(w.Body).Decode(&castResp)
	t.Logf("Step 6 - Receipt %s in block %d", castResp.Receipt.TransactionID, castResp.Receipt.BlockNumber)

	// Step 7: Receipt lookup
	req = httptest.NewRequest("GET", "/receipts/"+castResp.Receipt.TransactionID, nil)
	req.SetPathValue("tx", castResp.Receipt.TransactionID)
	w = httptest.NewRecorder()
	env.results.GetReceipt(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 7 - Receipt lookup failed: %d - %s", w.Code, w.Body.String())
	}
	var found models.VoteReceipt
	json.NewDecoder(w.Body).Decode(&found)
	if found.VoteHash != castResp.Receipt.VoteHash || found.BlockNumber != castResp.Receipt.BlockNumber {
		t.Errorf("Step 7 - Receipt mismatch: %+v vs %+v", found, castResp.Receipt)
	}

	// Step 8: Results and stats
	w = httptest.NewRecorder()
	env.results.GetResults(w, httptest.NewRequest("GET", "/results", nil))
	var tally models.Tally
	json.NewDecoder(w.Body).Decode(&tally)
	if tally.TotalVotes != 57061 {
		t.Errorf("Step 8 - Expected 57061 total, got %d", tally.TotalVotes)
	}

	w = httptest.NewRecorder()
	env.verification.GetSession(w, sessionRequest("GET", "/sessions/"+sessionID, sessionID, nil))
	var state models.SessionStateResponse
	json.NewDecoder(w.Body).Decode(&state)
	if !state.HasVoted || state.SelectedID != nil {
		t.Errorf("Step 8 - Expected voted with no pending selection, got %+v", state)
	}
}
