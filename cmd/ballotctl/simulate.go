// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/verivote/auth"
	"github.com/danielhkuo/verivote/ballot"
	"github.com/danielhkuo/verivote/models"
	"github.com/danielhkuo/verivote/session"
)

type simulateOptions struct {
	voters         int
	stepDelay      time.Duration
	candidatesFile string
}

var simOpts simulateOptions

func init() {
	simulateCmd.Flags().IntVarP(&simOpts.voters, "voters", "n", 10, "Number of voters to run through the flow")
	simulateCmd.Flags().DurationVar(&simOpts.stepDelay, "step-delay", 0, "Simulated verification delay per step")
	simulateCmd.Flags().StringVar(&simOpts.candidatesFile, "candidates", "", "Candidates YAML file (default built-in ballot)")
	rootCmd.AddCommand(simulateCmd)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Verify voters and cast ballots against an in-memory election",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return simulate(cmd.Context(), cmd.OutOrStdout(), simOpts)
	},
}

func simulate(ctx context.Context, out io.Writer, opts simulateOptions) error {
	if opts.voters < 0 {
		return fmt.Errorf("voters must not be negative, got %d", opts.voters)
	}

	candidates := ballot.DefaultCandidates()
	if opts.candidatesFile != "" {
		var err error
		if candidates, err = ballot.LoadCandidates(opts.candidatesFile); err != nil {
			return err
		}
	}

	salt, err := auth.GenerateID(16)
	if err != nil {
		return err
	}
	election, err := ballot.NewElection(ctx, ballot.NewMemoryStore(), candidates, ballot.Options{
		NullifierSalt: salt,
	})
	if err != nil {
		return err
	}
	sessions := session.NewRegistry(election, opts.stepDelay, nil)

	for i := 0; i < opts.voters; i++ {
		pick := candidates[rand.IntN(len(candidates))].ID
		receipt, voterID, err := simulateVoter(ctx, sessions, fmt.Sprintf("+1555%07d", i), pick)
		if err != nil {
			return fmt.Errorf("voter %d: %w", i+1, err)
		}
		fmt.Fprintf(out, "%s  block %d  tx %s\n", voterID, receipt.BlockNumber, receipt.TransactionID)
	}

	tally, err := election.Tally(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTotal votes: %s\n", tally.TotalVotesHuman)
	for _, e := range tally.Entries {
		fmt.Fprintf(out, "%d. %-30s %10s  %5.1f%%\n", e.Rank, e.Candidate.DisplayName, e.VotesHuman, e.Percentage)
	}

	stats, err := election.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Block height: %s\n", humanize.Comma(stats.BlockHeight))
	return nil
}

// simulateVoter runs one voter through every wizard step and casts for candidateID
func simulateVoter(ctx context.Context, sessions *session.Registry, phone, candidateID string) (models.VoteReceipt, string, error) {
	v := sessions.Create()
	defer sessions.Delete(v.Token)

	voter, err := v.Wizard.SubmitPhone(phone)
	if err != nil {
		return models.VoteReceipt{}, "", err
	}
	if err := v.Wizard.SubmitDocument([]byte("simulated document")); err != nil {
		return models.VoteReceipt{}, "", err
	}
	if _, err := v.Wizard.RunAIChecks(ctx); err != nil {
		return models.VoteReceipt{}, "", err
	}
	code, err := v.Wizard.RunFaceMatch(ctx)
	if err != nil {
		return models.VoteReceipt{}, "", err
	}
	if voter, err = v.Wizard.VerifyOTP(code); err != nil {
		return models.VoteReceipt{}, "", err
	}

	if err := v.Ballot.Select(candidateID); err != nil {
		return models.VoteReceipt{}, "", err
	}
	receipt, err := v.Ballot.Cast(ctx, voter)
	if err != nil {
		return models.VoteReceipt{}, "", err
	}
	return receipt, voter.VoterID, nil
}
