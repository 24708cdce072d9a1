// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/verivote/ballot"
	"github.com/danielhkuo/verivote/cliparse"
	"github.com/danielhkuo/verivote/metrics"
	"github.com/danielhkuo/verivote/middleware"
	"github.com/danielhkuo/verivote/models"
	"github.com/danielhkuo/verivote/session"
	"github.com/danielhkuo/verivote/wizard"
)

// MaxDocumentBytes caps identity document uploads
const MaxDocumentBytes = 10 << 20

type VerificationHandler struct {
	sessions *session.Registry
	election *ballot.Election
	metrics  *metrics.Metrics
	cfg      cliparse.Config
}

func NewVerificationHandler(sessions *session.Registry, election *ballot.Election, m *metrics.Metrics, cfg cliparse.Config) *VerificationHandler {
	return &VerificationHandler{sessions: sessions, election: election, metrics: m, cfg: cfg}
}

// CreateSession handles POST /sessions
// Starts a voter context and submits the phone number in one call.
func (h *VerificationHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitPhoneRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	v := h.sessions.Create()
	voter, err := v.Wizard.SubmitPhone(req.Phone)
	if err != nil {
		h.sessions.Delete(v.Token)
		writeError(w, err, "failed to submit phone")
		return
	}
	h.metrics.StepCompleted(models.StepPhone)

	slog.Info("session created", "session_id", v.Token, "voter_id", voter.VoterID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: v.Token,
		Session:   voter,
		Step:      v.Wizard.Step().String(),
	})
}

// GetSession handles GET /sessions/{id}
func (h *VerificationHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	v, ok := lookupVoter(h.sessions, w, r)
	if !ok {
		return
	}

	step := v.Wizard.Step()
	resp := models.SessionStateResponse{
		SessionID:   v.Token,
		Step:        step.String(),
		StepNumber:  int(step),
		StepTitle:   step.Title(),
		Progress:    step.Progress(),
		OTPAttempts: v.Wizard.OTPAttempts(),
	}

	if voter, ok := v.Wizard.Session(); ok {
		resp.Session = &voter
		voted, err := h.election.HasVoted(r.Context(), voter.VoterID)
		if err != nil {
			writeError(w, err, "failed to check voter", "session_id", v.Token)
			return
		}
		resp.HasVoted = voted
	}
	if id, ok := v.Ballot.Selected(); ok {
		resp.SelectedID = &id
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// DeleteSession handles DELETE /sessions/{id}
// Resets the voter's wizard and selection and forgets the token.
func (h *VerificationHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	v, ok := lookupVoter(h.sessions, w, r)
	if !ok {
		return
	}

	v.Wizard.Reset()
	v.Ballot.Clear()
	if err := h.sessions.Delete(v.Token); err != nil {
		writeError(w, err, "failed to delete session")
		return
	}

	slog.Info("session reset", "session_id", v.Token)

	middleware.JSONResponse(w, http.StatusOK, models.ResetResponse{
		Message: "Session reset",
	})
}

// SubmitDocument handles POST /sessions/{id}/document
// Accepts a multipart "document" field or the raw request body.
func (h *VerificationHandler) SubmitDocument(w http.ResponseWriter, r *http.Request) {
	v, ok := lookupVoter(h.sessions, w, r)
	if !ok {
		return
	}

	doc, err := readDocument(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "document too large")
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "failed to read document")
		return
	}

	if err := v.Wizard.SubmitDocument(doc); err != nil {
		writeError(w, err, "failed to submit document", "session_id", v.Token)
		return
	}
	h.metrics.StepCompleted(models.StepDocument)

	middleware.JSONResponse(w, http.StatusOK, models.StepResponse{
		Step: v.Wizard.Step().String(),
	})
}

func readDocument(r *http.Request) ([]byte, error) {
	defer r.Body.Close()

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("document")
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	return io.ReadAll(r.Body)
}

// RunAIChecks handles POST /sessions/{id}/ai-checks
// Blocks for the simulated checks; a client disconnect cancels them.
func (h *VerificationHandler) RunAIChecks(w http.ResponseWriter, r *http.Request) {
	v, ok := lookupVoter(h.sessions, w, r)
	if !ok {
		return
	}

	checks, err := v.Wizard.RunAIChecks(r.Context())
	if err != nil {
		writeError(w, err, "document checks failed", "session_id", v.Token)
		return
	}
	h.metrics.StepCompleted(models.StepAIProcessing)

	middleware.JSONResponse(w, http.StatusOK, models.AIChecksResponse{
		Step:   v.Wizard.Step().String(),
		Checks: checks,
	})
}

// RunFaceMatch handles POST /sessions/{id}/face
// Issues the first OTP on success.
func (h *VerificationHandler) RunFaceMatch(w http.ResponseWriter, r *http.Request) {
	v, ok := lookupVoter(h.sessions, w, r)
	if !ok {
		return
	}

	code, err := v.Wizard.RunFaceMatch(r.Context())
	if err != nil {
		writeError(w, err, "face match failed", "session_id", v.Token)
		return
	}
	h.metrics.StepCompleted(models.StepFaceRecognition)

	middleware.JSONResponse(w, http.StatusOK, h.otpIssued(v, code))
}

// ResendOTP handles POST /sessions/{id}/otp/resend
// The previous code stops working.
func (h *VerificationHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	v, ok := lookupVoter(h.sessions, w, r)
	if !ok {
		return
	}

	code, err := v.Wizard.ResendOTP()
	if err != nil {
		writeError(w, err, "failed to resend code", "session_id", v.Token)
		return
	}

	slog.Info("otp reissued", "session_id", v.Token)

	middleware.JSONResponse(w, http.StatusOK, h.otpIssued(v, code))
}

// otpIssued stands in for SMS delivery: the code is returned only in demo mode
func (h *VerificationHandler) otpIssued(v *session.Voter, code string) models.OTPIssuedResponse {
	resp := models.OTPIssuedResponse{Step: v.Wizard.Step().String()}
	if voter, ok := v.Wizard.Session(); ok {
		resp.Phone = voter.PhoneNumber
	}
	if h.cfg.DemoOTP {
		resp.DemoCode = &code
	}
	return resp
}

// VerifyOTP handles POST /sessions/{id}/otp/verify
func (h *VerificationHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	v, ok := lookupVoter(h.sessions, w, r)
	if !ok {
		return
	}

	var req models.VerifyOTPRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voter, err := v.Wizard.VerifyOTP(req.Code)
	if err != nil {
		if errors.Is(err, wizard.ErrInvalidCode) {
			h.metrics.OTPFailed()
			slog.Warn("otp mismatch", "session_id", v.Token, "attempts", v.Wizard.OTPAttempts())
		}
		writeError(w, err, "failed to verify code", "session_id", v.Token)
		return
	}
	h.metrics.StepCompleted(models.StepOTP)

	slog.Info("voter verified", "session_id", v.Token, "voter_id", voter.VoterID)

	middleware.JSONResponse(w, http.StatusOK, models.VerifyOTPResponse{
		Step:    v.Wizard.Step().String(),
		Session: voter,
	})
}
