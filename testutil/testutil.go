// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/danielhkuo/verivote/ballot"
	"github.com/danielhkuo/verivote/cliparse"
	"github.com/danielhkuo/verivote/db"
	"github.com/danielhkuo/verivote/models"
	"github.com/danielhkuo/verivote/session"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := db.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   cliparse.DefaultDatabaseURL,
		DatabaseType:  "sqlite",
		AdminKeySalt:  "test-admin-salt",
		NullifierSalt: "test-nullifier-salt",
		ElectionID:    "test-election",
		StepDelay:     0,
		SessionTTL:    cliparse.DefaultSessionTTL,
		GenesisBlock:  cliparse.DefaultGenesisBlock,
		DemoOTP:       true,
	}
}

// NewTestElection seeds the default candidates into a SQL store on a fresh database
func NewTestElection(t *testing.T, cfg cliparse.Config) *ballot.Election {
	t.Helper()

	store := db.NewSQLStore(SetupTestDB(t), cfg.ElectionID)
	e, err := ballot.NewElection(context.Background(), store, ballot.DefaultCandidates(), ballot.Options{
		GenesisBlock:  cfg.GenesisBlock,
		NullifierSalt: cfg.NullifierSalt,
	})
	if err != nil {
		t.Fatalf("Failed to create election: %v", err)
	}
	return e
}

// VerifyVoter walks a voter through every wizard step and returns the session
func VerifyVoter(t *testing.T, v *session.Voter, phone string) models.VoterSession {
	t.Helper()
	ctx := context.Background()

	if _, err := v.Wizard.SubmitPhone(phone); err != nil {
		t.Fatalf("SubmitPhone: %v", err)
	}
	if err := v.Wizard.SubmitDocument([]byte("passport scan")); err != nil {
		t.Fatalf("SubmitDocument: %v", err)
	}
	if _, err := v.Wizard.RunAIChecks(ctx); err != nil {
		t.Fatalf("RunAIChecks: %v", err)
	}
	code, err := v.Wizard.RunFaceMatch(ctx)
	if err != nil {
		t.Fatalf("RunFaceMatch: %v", err)
	}
	s, err := v.Wizard.VerifyOTP(code)
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	return s
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
