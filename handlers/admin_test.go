// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/verivote/auth"
	"github.com/danielhkuo/verivote/models"
	"github.com/danielhkuo/verivote/testutil"
)

func TestAdminReset(t *testing.T) {
	env := newTestEnv(t)
	receipt := castFor(t, env, "party2")
	validKey := auth.GenerateAdminKey(env.cfg.ElectionID, env.cfg.AdminKeySalt)

	tests := []struct {
		name           string
		adminKey       string
		expectedStatus int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "not-the-key", http.StatusUnauthorized},
		{"key for another election", auth.GenerateAdminKey("other", env.cfg.AdminKeySalt), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/admin/reset", nil)
			if tt.adminKey != "" {
				req.Header.Set("X-Admin-Key", tt.adminKey)
			}
			w := httptest.NewRecorder()

			env.admin.Reset(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if env.sessions.Len() != 1 {
				t.Error("Rejected reset must not drop sessions")
			}
		})
	}

	t.Run("valid key", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/admin/reset", nil)
		req.Header.Set("X-Admin-Key", validKey)
		w := httptest.NewRecorder()

		env.admin.Reset(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.ResetResponse
		testutil.AssertJSON(t, w, &resp)

		if env.sessions.Len() != 0 {
			t.Errorf("Expected all sessions dropped, got %d", env.sessions.Len())
		}

		tally, err := env.election.Tally(t.Context())
		if err != nil {
			t.Fatal(err)
		}
		if tally.TotalVotes != 57060 {
			t.Errorf("Expected seed total after reset, got %d", tally.TotalVotes)
		}

		req = httptest.NewRequest("GET", "/receipts/"+receipt.TransactionID, nil)
		req.SetPathValue("tx", receipt.TransactionID)
		w = httptest.NewRecorder()
		env.results.GetReceipt(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}
