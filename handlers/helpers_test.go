// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/verivote/ballot"
	"github.com/danielhkuo/verivote/cliparse"
	"github.com/danielhkuo/verivote/metrics"
	"github.com/danielhkuo/verivote/session"
	"github.com/danielhkuo/verivote/testutil"
)

type testEnv struct {
	cfg      cliparse.Config
	election *ballot.Election
	sessions *session.Registry
	metrics  *metrics.Metrics

	verification *VerificationHandler
	voting       *VotingHandler
	results      *ResultsHandler
	admin        *AdminHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, testutil.GetTestConfig())
}

func newTestEnvWithConfig(t *testing.T, cfg cliparse.Config) *testEnv {
	t.Helper()

	election := testutil.NewTestElection(t, cfg)
	sessions := session.NewRegistry(election, cfg.StepDelay, nil)
	m := metrics.New(sessions.Len)

	return &testEnv{
		cfg:          cfg,
		election:     election,
		sessions:     sessions,
		metrics:      m,
		verification: NewVerificationHandler(sessions, election, m, cfg),
		voting:       NewVotingHandler(election, sessions, m),
		results:      NewResultsHandler(election, sessions),
		admin:        NewAdminHandler(election, sessions, m, cfg),
	}
}

// verifiedVoter registers a voter and walks it to the verified step
func (e *testEnv) verifiedVoter(t *testing.T) *session.Voter {
	t.Helper()
	v := e.sessions.Create()
	testutil.VerifyVoter(t, v, "+15550100")
	return v
}

// sessionRequest builds a request with the {id} path value set
func sessionRequest(method, path, id string, body interface{}) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.SetPathValue("id", id)
	return req
}
