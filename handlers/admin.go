// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/verivote/auth"
	"github.com/danielhkuo/verivote/ballot"
	"github.com/danielhkuo/verivote/cliparse"
	"github.com/danielhkuo/verivote/metrics"
	"github.com/danielhkuo/verivote/middleware"
	"github.com/danielhkuo/verivote/models"
	"github.com/danielhkuo/verivote/session"
)

type AdminHandler struct {
	election *ballot.Election
	sessions *session.Registry
	metrics  *metrics.Metrics
	cfg      cliparse.Config
}

func NewAdminHandler(election *ballot.Election, sessions *session.Registry, m *metrics.Metrics, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{election: election, sessions: sessions, metrics: m, cfg: cfg}
}

// Reset handles POST /admin/reset
// Drops every session and restores the seed tally. Requires X-Admin-Key.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(h.cfg.ElectionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	if err := h.election.Reset(r.Context()); err != nil {
		writeError(w, err, "failed to reset election")
		return
	}
	dropped := h.sessions.Len()
	h.sessions.Reset()
	h.metrics.ElectionReset()

	slog.Warn("system reset", "election_id", h.cfg.ElectionID, "sessions_dropped", dropped)

	middleware.JSONResponse(w, http.StatusOK, models.ResetResponse{
		Message: "Election reset",
	})
}
