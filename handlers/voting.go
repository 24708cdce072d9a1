// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/verivote/ballot"
	"github.com/danielhkuo/verivote/metrics"
	"github.com/danielhkuo/verivote/middleware"
	"github.com/danielhkuo/verivote/models"
	"github.com/danielhkuo/verivote/session"
)

type VotingHandler struct {
	election *ballot.Election
	sessions *session.Registry
	metrics  *metrics.Metrics
}

func NewVotingHandler(election *ballot.Election, sessions *session.Registry, m *metrics.Metrics) *VotingHandler {
	return &VotingHandler{election: election, sessions: sessions, metrics: m}
}

// ListCandidates handles GET /candidates
func (h *VotingHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.election.Candidates(r.Context())
	if err != nil {
		writeError(w, err, "failed to load candidates")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// SelectCandidate handles PUT /sessions/{id}/selection
func (h *VotingHandler) SelectCandidate(w http.ResponseWriter, r *http.Request) {
	v, ok := lookupVoter(h.sessions, w, r)
	if !ok {
		return
	}

	var req models.SelectCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := v.Ballot.Select(req.CandidateID); err != nil {
		writeError(w, err, "failed to select candidate", "session_id", v.Token)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SelectionResponse{
		SelectedID: &req.CandidateID,
	})
}

// ClearSelection handles DELETE /sessions/{id}/selection
func (h *VotingHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	v, ok := lookupVoter(h.sessions, w, r)
	if !ok {
		return
	}

	v.Ballot.Clear()

	middleware.JSONResponse(w, http.StatusOK, models.SelectionResponse{})
}

// CastVote handles POST /sessions/{id}/vote
// Verification is checked before selection.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	v, ok := lookupVoter(h.sessions, w, r)
	if !ok {
		return
	}

	// An unverified wizard yields a zero session, which Cast rejects
	voter, _ := v.Wizard.Session()

	rec, err := v.Ballot.CastRecord(r.Context(), voter)
	if err != nil {
		writeError(w, err, "failed to cast vote", "session_id", v.Token)
		return
	}
	h.metrics.VoteCast(rec.CandidateID)
	receipt := rec.Receipt

	slog.Info("vote cast",
		"session_id", v.Token,
		"transaction_id", receipt.TransactionID,
		"block_number", receipt.BlockNumber,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		Receipt: receipt,
		Message: "Vote cast successfully",
	})
}
