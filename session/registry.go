// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/verivote/auth"
	"github.com/danielhkuo/verivote/ballot"
	"github.com/danielhkuo/verivote/wizard"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// Voter is one browser's context: a wizard and a ballot.
type Voter struct {
	Token     string
	Wizard    *wizard.Wizard
	Ballot    *ballot.Ballot
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

func (v *Voter) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

// LastSeen is the time of the most recent Create or Get
func (v *Voter) LastSeen() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen
}

// Registry maps session tokens to voters.
type Registry struct {
	election  *ballot.Election
	stepDelay time.Duration
	clock     ballot.Clock

	mu     sync.RWMutex
	voters map[string]*Voter
}

func NewRegistry(election *ballot.Election, stepDelay time.Duration, clock ballot.Clock) *Registry {
	if clock == nil {
		clock = ballot.RealClock{}
	}
	return &Registry{
		election:  election,
		stepDelay: stepDelay,
		clock:     clock,
		voters:    make(map[string]*Voter),
	}
}

// Create starts a fresh voter context under a new token
func (r *Registry) Create() *Voter {
	now := r.clock.Now()
	v := &Voter{
		Token:     auth.GenerateSessionToken(),
		Wizard:    wizard.New(r.stepDelay),
		Ballot:    r.election.NewBallot(),
		CreatedAt: now,
		lastSeen:  now,
	}

	r.mu.Lock()
	r.voters[v.Token] = v
	r.mu.Unlock()

	return v
}

func (r *Registry) Get(token string) (*Voter, error) {
	r.mu.RLock()
	v, ok := r.voters[token]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	v.touch(r.clock.Now())
	return v, nil
}

func (r *Registry) Delete(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.voters[token]; !ok {
		return ErrSessionNotFound
	}
	delete(r.voters, token)
	return nil
}

// Reset drops every voter
func (r *Registry) Reset() {
	r.mu.Lock()
	r.voters = make(map[string]*Voter)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.voters)
}

// Sweep removes voters idle for longer than ttl and returns how many went.
func (r *Registry) Sweep(now time.Time, ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, v := range r.voters {
		if now.Sub(v.LastSeen()) > ttl {
			delete(r.voters, token)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(r.clock.Now(), ttl); n > 0 {
				slog.Info("expired idle sessions", "removed", n, "active", r.Len())
			}
		}
	}
}
