// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"errors"
	"sync"

	"github.com/danielhkuo/verivote/models"
)

var (
	ErrReceiptNotFound = errors.New("receipt not found")
)

// Store keeps the candidate counters and the receipt ledger.
// RecordVote must apply all of its writes or none of them.
type Store interface {
	// Seed loads candidates and the genesis height if the store is empty.
	Seed(ctx context.Context, candidates []models.Candidate, genesisBlock int64) error
	// Reset drops every receipt and reloads candidates and the genesis height.
	Reset(ctx context.Context, candidates []models.Candidate, genesisBlock int64) error
	// Candidates returns candidates in seed order.
	Candidates(ctx context.Context) ([]models.Candidate, error)
	HasVoted(ctx context.Context, nullifier string) (bool, error)
	// RecordVote increments the candidate and the total, advances the block
	// height to the receipt's block and appends the receipt.
	RecordVote(ctx context.Context, rec models.VoteRecord) error
	Receipt(ctx context.Context, transactionID string) (models.VoteReceipt, error)
	// RecentReceipts returns up to limit receipts, newest first.
	RecentReceipts(ctx context.Context, limit int) ([]models.VoteReceipt, error)
	ReceiptCount(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (models.LedgerStats, error)
}

// MemoryStore keeps everything in process memory (dev/test use)
type MemoryStore struct {
	mu         sync.RWMutex
	candidates []models.Candidate
	index      map[string]int
	receipts   []models.VoteReceipt
	byTx       map[string]int
	nullifiers map[string]bool
	stats      models.LedgerStats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index:      make(map[string]int),
		byTx:       make(map[string]int),
		nullifiers: make(map[string]bool),
	}
}

func (s *MemoryStore) Seed(ctx context.Context, candidates []models.Candidate, genesisBlock int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.candidates) > 0 {
		return nil
	}
	s.load(candidates, genesisBlock)
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context, candidates []models.Candidate, genesisBlock int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load(candidates, genesisBlock)
	return nil
}

// load must be called with mu held
func (s *MemoryStore) load(candidates []models.Candidate, genesisBlock int64) {
	s.candidates = make([]models.Candidate, len(candidates))
	copy(s.candidates, candidates)

	s.index = make(map[string]int, len(candidates))
	var total int64
	for i, c := range s.candidates {
		s.index[c.ID] = i
		total += c.VoteCount
	}

	s.receipts = nil
	s.byTx = make(map[string]int)
	s.nullifiers = make(map[string]bool)
	s.stats = models.LedgerStats{TotalVotesCast: total, BlockHeight: genesisBlock}
}

func (s *MemoryStore) Candidates(ctx context.Context) ([]models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out, nil
}

func (s *MemoryStore) HasVoted(ctx context.Context, nullifier string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nullifiers[nullifier], nil
}

func (s *MemoryStore) RecordVote(ctx context.Context, rec models.VoteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[rec.CandidateID]
	if !ok {
		return ErrUnknownCandidate
	}
	if s.nullifiers[rec.Nullifier] {
		return ErrAlreadyVoted
	}

	s.candidates[i].VoteCount++
	s.stats.TotalVotesCast++
	s.stats.BlockHeight = rec.Receipt.BlockNumber
	s.nullifiers[rec.Nullifier] = true
	s.byTx[rec.Receipt.TransactionID] = len(s.receipts)
	s.receipts = append(s.receipts, rec.Receipt)

	return nil
}

func (s *MemoryStore) Receipt(ctx context.Context, transactionID string) (models.VoteReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byTx[transactionID]
	if !ok {
		return models.VoteReceipt{}, ErrReceiptNotFound
	}
	return s.receipts[i], nil
}

func (s *MemoryStore) RecentReceipts(ctx context.Context, limit int) ([]models.VoteReceipt, error) {
	if limit <= 0 {
		return []models.VoteReceipt{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.VoteReceipt, 0, limit)
	for i := len(s.receipts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.receipts[i])
	}
	return out, nil
}

func (s *MemoryStore) ReceiptCount(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.receipts)), nil
}

func (s *MemoryStore) Stats(ctx context.Context) (models.LedgerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, nil
}
