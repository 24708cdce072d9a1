// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/verivote/ballot"
	"github.com/danielhkuo/verivote/middleware"
	"github.com/danielhkuo/verivote/session"
	"github.com/danielhkuo/verivote/wizard"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, wizard.ErrEmptyInput),
		errors.Is(err, ballot.ErrUnknownCandidate),
		errors.Is(err, ballot.ErrNoSelection):
		return http.StatusBadRequest
	case errors.Is(err, wizard.ErrInvalidCode):
		return http.StatusUnauthorized
	case errors.Is(err, ballot.ErrNotVerified):
		return http.StatusForbidden
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, ballot.ErrReceiptNotFound):
		return http.StatusNotFound
	case errors.Is(err, wizard.ErrStepOutOfOrder),
		errors.Is(err, wizard.ErrStepInProgress),
		errors.Is(err, ballot.ErrAlreadyVoted):
		return http.StatusConflict
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds with the status for err. Unmapped errors are logged
// and hidden from the client.
func writeError(w http.ResponseWriter, err error, msg string, args ...any) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(msg, append(args, "error", err)...)
		middleware.ErrorResponse(w, status, msg)
		return
	}
	middleware.ErrorResponse(w, status, err.Error())
}

// lookupVoter resolves the {id} path value to a registered voter
func lookupVoter(sessions *session.Registry, w http.ResponseWriter, r *http.Request) (*session.Voter, bool) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return nil, false
	}

	v, err := sessions.Get(id)
	if err != nil {
		writeError(w, err, "failed to load session")
		return nil, false
	}
	return v, true
}
