// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/verivote/ballot"
	"github.com/danielhkuo/verivote/models"
)

// SQLStore is a ballot.Store over database/sql, scoped to one election id.
type SQLStore struct {
	db         *sql.DB
	electionID string
}

var _ ballot.Store = (*SQLStore)(nil)

func NewSQLStore(db *sql.DB, electionID string) *SQLStore {
	return &SQLStore{db: db, electionID: electionID}
}

func (s *SQLStore) Seed(ctx context.Context, candidates []models.Candidate, genesisBlock int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM candidate WHERE election_id = $1
	`, s.electionID).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count candidates: %w", err)
	}
	if count > 0 {
		slog.Info("election already seeded", "election_id", s.electionID, "candidates", count)
		return nil
	}

	if err := s.insertSeed(ctx, tx, candidates, genesisBlock); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

func (s *SQLStore) Reset(ctx context.Context, candidates []models.Candidate, genesisBlock int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM vote_receipt WHERE election_id = $1`,
		`DELETE FROM candidate WHERE election_id = $1`,
		`DELETE FROM ledger_state WHERE election_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, s.electionID); err != nil {
			return fmt.Errorf("failed to clear election: %w", err)
		}
	}

	if err := s.insertSeed(ctx, tx, candidates, genesisBlock); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}
	return nil
}

func (s *SQLStore) insertSeed(ctx context.Context, tx *sql.Tx, candidates []models.Candidate, genesisBlock int64) error {
	var total int64
	for i, c := range candidates {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO candidate (election_id, id, position, display_name, candidate_name,
				platform_summary, symbol, color, vote_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, s.electionID, c.ID, i, c.DisplayName, c.CandidateName, c.Platform, c.Symbol, c.Color, c.VoteCount)
		if err != nil {
			return fmt.Errorf("failed to insert candidate %s: %w", c.ID, err)
		}
		total += c.VoteCount
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_state (election_id, total_votes_cast, block_height)
		VALUES ($1, $2, $3)
	`, s.electionID, total, genesisBlock)
	if err != nil {
		return fmt.Errorf("failed to insert ledger state: %w", err)
	}
	return nil
}

func (s *SQLStore) Candidates(ctx context.Context) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, display_name, candidate_name, platform_summary, symbol, color, vote_count
		FROM candidate
		WHERE election_id = $1
		ORDER BY position
	`, s.electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.DisplayName, &c.CandidateName, &c.Platform, &c.Symbol, &c.Color, &c.VoteCount); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (s *SQLStore) HasVoted(ctx context.Context, nullifier string) (bool, error) {
	return hasVoted(ctx, s.db, s.electionID, nullifier)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func hasVoted(ctx context.Context, q queryer, electionID, nullifier string) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote_receipt WHERE election_id = $1 AND nullifier = $2
	`, electionID, nullifier).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check nullifier: %w", err)
	}
	return count > 0, nil
}

func (s *SQLStore) RecordVote(ctx context.Context, rec models.VoteRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	voted, err := hasVoted(ctx, tx, s.electionID, rec.Nullifier)
	if err != nil {
		return err
	}
	if voted {
		return ballot.ErrAlreadyVoted
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE candidate SET vote_count = vote_count + 1
		WHERE election_id = $1 AND id = $2
	`, s.electionID, rec.CandidateID)
	if err != nil {
		return fmt.Errorf("failed to increment candidate: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check candidate update: %w", err)
	} else if n == 0 {
		return ballot.ErrUnknownCandidate
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE ledger_state SET total_votes_cast = total_votes_cast + 1, block_height = $2
		WHERE election_id = $1
	`, s.electionID, rec.Receipt.BlockNumber)
	if err != nil {
		return fmt.Errorf("failed to advance ledger: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote_receipt (transaction_id, election_id, candidate_id, vote_hash,
			block_number, nullifier, cast_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rec.Receipt.TransactionID, s.electionID, rec.CandidateID, rec.Receipt.VoteHash,
		rec.Receipt.BlockNumber, rec.Nullifier, rec.Receipt.CastAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vote: %w", err)
	}
	return nil
}

func (s *SQLStore) Receipt(ctx context.Context, transactionID string) (models.VoteReceipt, error) {
	var r models.VoteReceipt
	var castAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT transaction_id, vote_hash, block_number, cast_at
		FROM vote_receipt
		WHERE election_id = $1 AND transaction_id = $2
	`, s.electionID, transactionID).Scan(&r.TransactionID, &r.VoteHash, &r.BlockNumber, &castAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VoteReceipt{}, ballot.ErrReceiptNotFound
	}
	if err != nil {
		return models.VoteReceipt{}, fmt.Errorf("failed to query receipt: %w", err)
	}

	r.CastAt = time.Unix(0, castAt).UTC()
	return r, nil
}

func (s *SQLStore) RecentReceipts(ctx context.Context, limit int) ([]models.VoteReceipt, error) {
	receipts := []models.VoteReceipt{}
	if limit <= 0 {
		return receipts, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, vote_hash, block_number, cast_at
		FROM vote_receipt
		WHERE election_id = $1
		ORDER BY block_number DESC
		LIMIT $2
	`, s.electionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r models.VoteReceipt
		var castAt int64
		if err := rows.Scan(&r.TransactionID, &r.VoteHash, &r.BlockNumber, &castAt); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		r.CastAt = time.Unix(0, castAt).UTC()
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

func (s *SQLStore) ReceiptCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote_receipt WHERE election_id = $1
	`, s.electionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count receipts: %w", err)
	}
	return n, nil
}

func (s *SQLStore) Stats(ctx context.Context) (models.LedgerStats, error) {
	var st models.LedgerStats
	err := s.db.QueryRowContext(ctx, `
		SELECT total_votes_cast, block_height FROM ledger_state WHERE election_id = $1
	`, s.electionID).Scan(&st.TotalVotesCast, &st.BlockHeight)
	if err != nil {
		return models.LedgerStats{}, fmt.Errorf("failed to query ledger state: %w", err)
	}
	return st, nil
}
