// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/verivote/ballot"
	"github.com/danielhkuo/verivote/middleware"
	"github.com/danielhkuo/verivote/models"
	"github.com/danielhkuo/verivote/session"
)

type ResultsHandler struct {
	election *ballot.Election
	sessions *session.Registry
}

func NewResultsHandler(election *ballot.Election, sessions *session.Registry) *ResultsHandler {
	return &ResultsHandler{election: election, sessions: sessions}
}

// GetResults handles GET /results
// Results are live: every call reflects all recorded votes.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	tally, err := h.election.Tally(r.Context())
	if err != nil {
		writeError(w, err, "failed to compute tally")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tally)
}

// GetReceipt handles GET /receipts/{tx}
// The receipt proves inclusion only; the chosen candidate is never returned.
func (h *ResultsHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	txID := r.PathValue("tx")
	if txID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "transaction id is required")
		return
	}

	receipt, err := h.election.Receipt(r.Context(), txID)
	if err != nil {
		writeError(w, err, "failed to load receipt", "transaction_id", txID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, receipt)
}

// GetStats handles GET /stats
func (h *ResultsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.election.Stats(ctx)
	if err != nil {
		writeError(w, err, "failed to load ledger stats")
		return
	}

	recent, err := h.election.RecentTransactions(ctx, ballot.DefaultRecentLimit)
	if err != nil {
		writeError(w, err, "failed to load recent transactions")
		return
	}

	audit, err := h.election.Audit(ctx)
	if err != nil {
		writeError(w, err, "failed to audit ledger")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StatsResponse{
		TotalVotesCast:     stats.TotalVotesCast,
		TotalVotesHuman:    humanize.Comma(stats.TotalVotesCast),
		BlockHeight:        stats.BlockHeight,
		Candidates:         h.election.CandidateCount(),
		ActiveSessions:     h.sessions.Len(),
		RecentTransactions: recent,
		Audit:              audit,
	})
}
