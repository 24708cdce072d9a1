// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/verivote/models"
	"github.com/danielhkuo/verivote/testutil"
	"github.com/danielhkuo/verivote/wizard"
)

func TestCreateSession(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.CreateSessionResponse)
	}{
		{
			name:           "valid phone",
			body:           `{"phone":"+91 98765 43210"}`,
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.CreateSessionResponse) {
				if resp.SessionID == "" {
					t.Error("Expected non-empty session_id")
				}
				if resp.Step != models.StepDocument {
					t.Errorf("Expected step %s, got %s", models.StepDocument, resp.Step)
				}
				if !strings.HasPrefix(resp.Session.VoterID, "VTR") {
					t.Errorf("Expected VTR voter id, got %s", resp.Session.VoterID)
				}
				if resp.Session.PhoneNumber != "+91 98765 43210" {
					t.Errorf("Expected phone echoed back, got %s", resp.Session.PhoneNumber)
				}
				if resp.Session.Verified {
					t.Error("New session must not be verified")
				}
			},
		},
		{
			name:           "blank phone",
			body:           `{"phone":"   "}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing phone",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			body:           `{invalid`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := env.sessions.Len()
			req := httptest.NewRequest("POST", "/sessions", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			env.verification.CreateSession(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.checkResponse != nil {
				var resp models.CreateSessionResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			} else if env.sessions.Len() != before {
				t.Error("Rejected request must not leave a session behind")
			}
		})
	}
}

func TestGetSession(t *testing.T) {
	env := newTestEnv(t)

	t.Run("fresh after phone", func(t *testing.T) {
		v := env.sessions.Create()
		if _, err := v.Wizard.SubmitPhone("+15550100"); err != nil {
			t.Fatal(err)
		}

		w := httptest.NewRecorder()
		env.verification.GetSession(w, sessionRequest("GET", "/sessions/"+v.Token, v.Token, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.SessionStateResponse
		testutil.AssertJSON(t, w, &resp)

		if resp.Step != models.StepDocument || resp.StepNumber != 2 {
			t.Errorf("Expected document step 2, got %s %d", resp.Step, resp.StepNumber)
		}
		if resp.Progress != 40 {
			t.Errorf("Expected progress 40, got %v", resp.Progress)
		}
		if resp.StepTitle != "Document Upload" {
			t.Errorf("Expected title 'Document Upload', got %s", resp.StepTitle)
		}
		if resp.Session == nil || resp.HasVoted {
			t.Error("Expected session present and not voted")
		}
	})

	t.Run("verified and voted", func(t *testing.T) {
		v := env.verifiedVoter(t)
		if err := v.Ballot.Select("party1"); err != nil {
			t.Fatal(err)
		}
		voter, _ := v.Wizard.Session()
		if _, err := v.Ballot.Cast(t.Context(), voter); err != nil {
			t.Fatal(err)
		}

		w := httptest.NewRecorder()
		env.verification.GetSession(w, sessionRequest("GET", "/sessions/"+v.Token, v.Token, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.SessionStateResponse
		testutil.AssertJSON(t, w, &resp)

		if resp.Step != models.StepVerified || resp.Progress != 100 {
			t.Errorf("Expected verified at 100%%, got %s %v", resp.Step, resp.Progress)
		}
		if !resp.HasVoted {
			t.Error("Expected has_voted after cast")
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		w := httptest.NewRecorder()
		env.verification.GetSession(w, sessionRequest("GET", "/sessions/missing", "missing", nil))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestDeleteSession(t *testing.T) {
	env := newTestEnv(t)
	v := env.verifiedVoter(t)
	if err := v.Ballot.Select("party2"); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	env.verification.DeleteSession(w, sessionRequest("DELETE", "/sessions/"+v.Token, v.Token, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	if v.Wizard.Step() != wizard.StepPhone {
		t.Errorf("Expected wizard back at phone step, got %s", v.Wizard.Step())
	}
	if _, ok := v.Ballot.Selected(); ok {
		t.Error("Expected selection cleared")
	}

	w = httptest.NewRecorder()
	env.verification.GetSession(w, sessionRequest("GET", "/sessions/"+v.Token, v.Token, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func multipartDocument(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if content != nil {
		fw, err := mw.CreateFormFile(field, "passport.jpg")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(content)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestSubmitDocument(t *testing.T) {
	env := newTestEnv(t)

	newAtDocument := func(t *testing.T) string {
		v := env.sessions.Create()
		if _, err := v.Wizard.SubmitPhone("+15550100"); err != nil {
			t.Fatal(err)
		}
		return v.Token
	}

	tests := []struct {
		name           string
		build          func(t *testing.T) (body *bytes.Buffer, contentType string)
		expectedStatus int
	}{
		{
			name: "multipart upload",
			build: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartDocument(t, "document", []byte("scan"))
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "raw body",
			build: func(t *testing.T) (*bytes.Buffer, string) {
				return bytes.NewBufferString("raw image bytes"), "image/jpeg"
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "multipart without document field",
			build: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartDocument(t, "document", nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "empty raw body",
			build: func(t *testing.T) (*bytes.Buffer, string) {
				return &bytes.Buffer{}, "application/octet-stream"
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := newAtDocument(t)
			body, contentType := tt.build(t)
			req := httptest.NewRequest("POST", "/sessions/"+id+"/document", body)
			req.Header.Set("Content-Type", contentType)
			req.SetPathValue("id", id)
			w := httptest.NewRecorder()

			env.verification.SubmitDocument(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var resp models.StepResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Step != models.StepAIProcessing {
					t.Errorf("Expected step %s, got %s", models.StepAIProcessing, resp.Step)
				}
			}
		})
	}

	t.Run("out of order", func(t *testing.T) {
		v := env.sessions.Create()
		req := httptest.NewRequest("POST", "/sessions/"+v.Token+"/document", strings.NewReader("scan"))
		req.SetPathValue("id", v.Token)
		w := httptest.NewRecorder()

		env.verification.SubmitDocument(w, req)

		testutil.AssertStatus(t, w, http.StatusConflict)
	})
}

func TestWizardFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	v := env.sessions.Create()
	if _, err := v.Wizard.SubmitPhone("+15550100"); err != nil {
		t.Fatal(err)
	}
	if err := v.Wizard.SubmitDocument([]byte("scan")); err != nil {
		t.Fatal(err)
	}

	// Face before checks is out of order
	w := httptest.NewRecorder()
	env.verification.RunFaceMatch(w, sessionRequest("POST", "/face", v.Token, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)

	w = httptest.NewRecorder()
	env.verification.RunAIChecks(w, sessionRequest("POST", "/ai-checks", v.Token, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var checks models.AIChecksResponse
	testutil.AssertJSON(t, w, &checks)
	if len(checks.Checks) != len(wizard.CheckNames) {
		t.Fatalf("Expected %d checks, got %d", len(wizard.CheckNames), len(checks.Checks))
	}
	for _, c := range checks.Checks {
		if !c.Passed {
			t.Errorf("Expected check %s to pass", c.Name)
		}
	}

	w = httptest.NewRecorder()
	env.verification.RunFaceMatch(w, sessionRequest("POST", "/face", v.Token, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var issued models.OTPIssuedResponse
	testutil.AssertJSON(t, w, &issued)
	if issued.Step != models.StepOTP || issued.DemoCode == nil || len(*issued.DemoCode) != 6 {
		t.Fatalf("Expected OTP step with 6 digit demo code, got %+v", issued)
	}
	firstCode := *issued.DemoCode

	w = httptest.NewRecorder()
	env.verification.ResendOTP(w, sessionRequest("POST", "/otp/resend", v.Token, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var resent models.OTPIssuedResponse
	testutil.AssertJSON(t, w, &resent)
	secondCode := *resent.DemoCode

	if firstCode != secondCode {
		w = httptest.NewRecorder()
		env.verification.VerifyOTP(w, sessionRequest("POST", "/otp/verify", v.Token, models.VerifyOTPRequest{Code: firstCode}))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	}

	w = httptest.NewRecorder()
	env.verification.VerifyOTP(w, sessionRequest("POST", "/otp/verify", v.Token, models.VerifyOTPRequest{Code: "abc"}))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	w = httptest.NewRecorder()
	env.verification.VerifyOTP(w, sessionRequest("POST", "/otp/verify", v.Token, models.VerifyOTPRequest{Code: secondCode}))
	testutil.AssertStatus(t, w, http.StatusOK)
	var verified models.VerifyOTPResponse
	testutil.AssertJSON(t, w, &verified)
	if !verified.Session.Verified || verified.Step != models.StepVerified {
		t.Errorf("Expected verified session, got %+v", verified)
	}

	if v.Wizard.OTPAttempts() < 1 {
		t.Error("Expected failed attempts to be counted")
	}
}

func TestDemoOTPDisabled(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.DemoOTP = false
	env := newTestEnvWithConfig(t, cfg)

	v := env.sessions.Create()
	if _, err := v.Wizard.SubmitPhone("+15550100"); err != nil {
		t.Fatal(err)
	}
	if err := v.Wizard.SubmitDocument([]byte("scan")); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Wizard.RunAIChecks(t.Context()); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	env.verification.RunFaceMatch(w, sessionRequest("POST", "/face", v.Token, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var raw map[string]any
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}
	if _, present := raw["demo_code"]; present {
		t.Error("demo_code must be omitted when demo OTP is off")
	}
	if raw["phone"] != "+15550100" {
		t.Errorf("Expected phone in response, got %v", raw["phone"])
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{wizard.ErrEmptyInput, http.StatusBadRequest},
		{wizard.ErrInvalidCode, http.StatusUnauthorized},
		{wizard.ErrStepOutOfOrder, http.StatusConflict},
		{wizard.ErrStepInProgress, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, got)
			}
		})
	}
}
