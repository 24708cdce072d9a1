// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/verivote/auth"
	"github.com/danielhkuo/verivote/models"
)

var (
	ErrUnknownCandidate = errors.New("unknown candidate")
	ErrNotVerified      = errors.New("voter session is not verified")
	ErrNoSelection      = errors.New("no candidate selected")
	ErrAlreadyVoted     = errors.New("voter has already cast a ballot")
	ErrBallotMismatch   = errors.New("stored candidates differ from configured candidates")
)

// DefaultRecentLimit is how many transactions the health view lists
const DefaultRecentLimit = 5

type Options struct {
	GenesisBlock  int64
	NullifierSalt string
	Clock         Clock
}

// Election owns the fixed candidate set and serializes casts against its Store.
type Election struct {
	store   Store
	clock   Clock
	salt    string
	genesis int64

	seed       []models.Candidate
	candidates map[string]bool

	castMu sync.Mutex
}

// NewElection seeds store with candidates unless it already holds a ballot,
// in which case the stored counts win. A stored ballot with different
// candidate ids fails with ErrBallotMismatch.
func NewElection(ctx context.Context, store Store, candidates []models.Candidate, opts Options) (*Election, error) {
	if err := ValidateCandidates(candidates); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.GenesisBlock == 0 {
		opts.GenesisBlock = DefaultGenesisBlock
	}

	seed := make([]models.Candidate, len(candidates))
	copy(seed, candidates)

	if err := store.Seed(ctx, seed, opts.GenesisBlock); err != nil {
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	stored, err := store.Candidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	if err := ValidateCandidates(stored); err != nil {
		return nil, fmt.Errorf("stored ballot is invalid: %w", err)
	}

	ids := make(map[string]bool, len(stored))
	for _, c := range stored {
		ids[c.ID] = true
	}
	// Reset reloads seed, so both sets must name the same candidates
	if len(ids) != len(seed) {
		return nil, ErrBallotMismatch
	}
	for _, c := range seed {
		if !ids[c.ID] {
			return nil, fmt.Errorf("%w: %q is not stored", ErrBallotMismatch, c.ID)
		}
	}

	return &Election{
		store:      store,
		clock:      opts.Clock,
		salt:       opts.NullifierSalt,
		genesis:    opts.GenesisBlock,
		seed:       seed,
		candidates: ids,
	}, nil
}

// NewBallot returns an empty selection bound to this election
func (e *Election) NewBallot() *Ballot {
	return &Ballot{election: e}
}

// IsCandidate reports whether id belongs to the fixed candidate set
func (e *Election) IsCandidate(id string) bool {
	return e.candidates[id]
}

// Candidates returns the ballot in seed order with live counts
func (e *Election) Candidates(ctx context.Context) ([]models.Candidate, error) {
	return e.store.Candidates(ctx)
}

// HasVoted reports whether voterID already has a receipt
func (e *Election) HasVoted(ctx context.Context, voterID string) (bool, error) {
	return e.store.HasVoted(ctx, auth.Nullifier(voterID, e.salt))
}

// cast records one vote. Only one cast runs at a time per Election.
func (e *Election) cast(ctx context.Context, voterID, candidateID string) (models.VoteRecord, error) {
	if !e.candidates[candidateID] {
		return models.VoteRecord{}, ErrUnknownCandidate
	}

	e.castMu.Lock()
	defer e.castMu.Unlock()

	nullifier := auth.Nullifier(voterID, e.salt)
	voted, err := e.store.HasVoted(ctx, nullifier)
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to check voter: %w", err)
	}
	if voted {
		return models.VoteRecord{}, ErrAlreadyVoted
	}

	stats, err := e.store.Stats(ctx)
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to read ledger height: %w", err)
	}

	txID, err := auth.GenerateTransactionID()
	if err != nil {
		return models.VoteRecord{}, err
	}
	voteHash, err := auth.ComputeVoteHash(txID, candidateID)
	if err != nil {
		return models.VoteRecord{}, err
	}

	receipt := models.VoteReceipt{
		TransactionID: txID,
		VoteHash:      voteHash,
		BlockNumber:   stats.BlockHeight + 1,
		CastAt:        e.clock.Now().UTC(),
	}

	rec := models.VoteRecord{
		Receipt:     receipt,
		CandidateID: candidateID,
		Nullifier:   nullifier,
	}
	if err := e.store.RecordVote(ctx, rec); err != nil {
		return models.VoteRecord{}, err
	}

	slog.Info("vote recorded", "transaction_id", txID, "block_number", receipt.BlockNumber)

	return rec, nil
}

// Tally ranks candidates by votes, highest first. Ties keep seed order.
func (e *Election) Tally(ctx context.Context) (models.Tally, error) {
	candidates, err := e.store.Candidates(ctx)
	if err != nil {
		return models.Tally{}, fmt.Errorf("failed to load candidates: %w", err)
	}

	var total int64
	for _, c := range candidates {
		total += c.VoteCount
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].VoteCount > candidates[j].VoteCount
	})

	entries := make([]models.TallyEntry, len(candidates))
	for i, c := range candidates {
		entries[i] = models.TallyEntry{
			Rank:       i + 1,
			Candidate:  c,
			VoteCount:  c.VoteCount,
			VotesHuman: humanize.Comma(c.VoteCount),
			Percentage: percentage(c.VoteCount, total),
		}
	}

	return models.Tally{
		TotalVotes:      total,
		TotalVotesHuman: humanize.Comma(total),
		Entries:         entries,
		ComputedAt:      e.clock.Now().UTC(),
	}, nil
}

// percentage is part/total*100 rounded to one decimal; 0 when total is 0
func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// Receipt looks up a receipt by transaction id
func (e *Election) Receipt(ctx context.Context, transactionID string) (models.VoteReceipt, error) {
	return e.store.Receipt(ctx, transactionID)
}

// RecentTransactions lists the newest receipts with a relative age
func (e *Election) RecentTransactions(ctx context.Context, limit int) ([]models.RecentTransaction, error) {
	receipts, err := e.store.RecentReceipts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent receipts: %w", err)
	}

	now := e.clock.Now()
	out := make([]models.RecentTransaction, len(receipts))
	for i, r := range receipts {
		out[i] = models.RecentTransaction{
			TransactionID: r.TransactionID,
			BlockNumber:   r.BlockNumber,
			CastAt:        r.CastAt,
			CastAgo:       humanize.RelTime(r.CastAt, now, "ago", "from now"),
		}
	}
	return out, nil
}

// Audit compares the ledger counters with the stored receipts and candidate
// counts. It holds the cast lock so a vote cannot land between the reads.
func (e *Election) Audit(ctx context.Context) (models.LedgerAudit, error) {
	e.castMu.Lock()
	defer e.castMu.Unlock()

	stats, err := e.store.Stats(ctx)
	if err != nil {
		return models.LedgerAudit{}, fmt.Errorf("failed to read ledger: %w", err)
	}
	receipts, err := e.store.ReceiptCount(ctx)
	if err != nil {
		return models.LedgerAudit{}, fmt.Errorf("failed to count receipts: %w", err)
	}
	candidates, err := e.store.Candidates(ctx)
	if err != nil {
		return models.LedgerAudit{}, fmt.Errorf("failed to load candidates: %w", err)
	}

	audit := models.LedgerAudit{
		Receipts:         receipts,
		CastSinceGenesis: stats.BlockHeight - e.genesis,
		TotalVotesCast:   stats.TotalVotesCast,
		Discrepancies:    []string{},
	}
	for _, c := range candidates {
		audit.CandidateTotal += c.VoteCount
	}

	if audit.Receipts != audit.CastSinceGenesis {
		audit.Discrepancies = append(audit.Discrepancies,
			fmt.Sprintf("%d receipts for %d blocks since genesis", audit.Receipts, audit.CastSinceGenesis))
	}
	if audit.CandidateTotal != audit.TotalVotesCast {
		audit.Discrepancies = append(audit.Discrepancies,
			fmt.Sprintf("candidate counts sum to %d, ledger total is %d", audit.CandidateTotal, audit.TotalVotesCast))
	}
	audit.Consistent = len(audit.Discrepancies) == 0

	if !audit.Consistent {
		slog.Warn("ledger inconsistent", "discrepancies", audit.Discrepancies)
	}
	return audit, nil
}

// Stats returns the ledger counters
func (e *Election) Stats(ctx context.Context) (models.LedgerStats, error) {
	return e.store.Stats(ctx)
}

// CandidateCount is the size of the fixed candidate set
func (e *Election) CandidateCount() int {
	return len(e.candidates)
}

// Reset restores seed counts and clears the ledger
func (e *Election) Reset(ctx context.Context) error {
	e.castMu.Lock()
	defer e.castMu.Unlock()

	if err := e.store.Reset(ctx, e.seed, e.genesis); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	slog.Info("election reset", "candidates", len(e.seed), "genesis_block", e.genesis)
	return nil
}
