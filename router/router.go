// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/verivote/ballot"
	"github.com/danielhkuo/verivote/cliparse"
	"github.com/danielhkuo/verivote/handlers"
	"github.com/danielhkuo/verivote/metrics"
	"github.com/danielhkuo/verivote/middleware"
	"github.com/danielhkuo/verivote/session"
)

func NewRouter(election *ballot.Election, sessions *session.Registry, m *metrics.Metrics, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	verificationHandler := handlers.NewVerificationHandler(sessions, election, m, cfg)
	votingHandler := handlers.NewVotingHandler(election, sessions, m)
	resultsHandler := handlers.NewResultsHandler(election, sessions)
	adminHandler := handlers.NewAdminHandler(election, sessions, m, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Verification wizard
	mux.HandleFunc("POST /sessions", middleware.WithLogging(verificationHandler.CreateSession))
	mux.HandleFunc("GET /sessions/{id}", middleware.WithLogging(verificationHandler.GetSession))
	mux.HandleFunc("DELETE /sessions/{id}", middleware.WithLogging(verificationHandler.DeleteSession))
	mux.HandleFunc("POST /sessions/{id}/document", middleware.WithLogging(
		middleware.LimitBody(handlers.MaxDocumentBytes, verificationHandler.SubmitDocument)))
	mux.HandleFunc("POST /sessions/{id}/ai-checks", middleware.WithLogging(verificationHandler.RunAIChecks))
	mux.HandleFunc("POST /sessions/{id}/face", middleware.WithLogging(verificationHandler.RunFaceMatch))
	mux.HandleFunc("POST /sessions/{id}/otp/resend", middleware.WithLogging(verificationHandler.ResendOTP))
	mux.HandleFunc("POST /sessions/{id}/otp/verify", middleware.WithLogging(verificationHandler.VerifyOTP))

	// Ballot
	mux.HandleFunc("GET /candidates", middleware.WithLogging(votingHandler.ListCandidates))
	mux.HandleFunc("PUT /sessions/{id}/selection", middleware.WithLogging(votingHandler.SelectCandidate))
	mux.HandleFunc("DELETE /sessions/{id}/selection", middleware.WithLogging(votingHandler.ClearSelection))
	mux.HandleFunc("POST /sessions/{id}/vote", middleware.WithLogging(votingHandler.CastVote))

	// Results (public, live)
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /receipts/{tx}", middleware.WithLogging(resultsHandler.GetReceipt))
	mux.HandleFunc("GET /stats", middleware.WithLogging(resultsHandler.GetStats))

	// Administration
	mux.HandleFunc("POST /admin/reset", middleware.WithLogging(adminHandler.Reset))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("verivote API v1"))
	})

	return mux
}
