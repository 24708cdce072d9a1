// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"sync"

	"github.com/danielhkuo/verivote/models"
)

// Ballot holds one voter's single active selection
type Ballot struct {
	election *Election

	mu       sync.Mutex
	selected string
	receipt  *models.VoteReceipt
}

// Select replaces any earlier selection
func (b *Ballot) Select(candidateID string) error {
	if !b.election.IsCandidate(candidateID) {
		return ErrUnknownCandidate
	}

	b.mu.Lock()
	b.selected = candidateID
	b.mu.Unlock()
	return nil
}

// Clear drops the selection
func (b *Ballot) Clear() {
	b.mu.Lock()
	b.selected = ""
	b.mu.Unlock()
}

// Selected returns the current selection
func (b *Ballot) Selected() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected, b.selected != ""
}

// Receipt returns the receipt of this ballot's successful cast
func (b *Ballot) Receipt() (models.VoteReceipt, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.receipt == nil {
		return models.VoteReceipt{}, false
	}
	return *b.receipt, true
}

// Cast submits the selection for a verified session.
// Verification is checked before selection; a voter id can cast once.
func (b *Ballot) Cast(ctx context.Context, session models.VoterSession) (models.VoteReceipt, error) {
	rec, err := b.CastRecord(ctx, session)
	return rec.Receipt, err
}

// CastRecord is Cast returning the stored record, so callers learn which
// candidate was counted without racing a concurrent Select.
func (b *Ballot) CastRecord(ctx context.Context, session models.VoterSession) (models.VoteRecord, error) {
	if !session.Verified {
		return models.VoteRecord{}, ErrNotVerified
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.selected == "" {
		return models.VoteRecord{}, ErrNoSelection
	}

	rec, err := b.election.cast(ctx, session.VoterID, b.selected)
	if err != nil {
		return models.VoteRecord{}, err
	}

	b.selected = ""
	b.receipt = &rec.Receipt
	return rec, nil
}
