// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/verivote/models"
)

// DefaultGenesisBlock is the ledger height before the first cast
const DefaultGenesisBlock int64 = 18500745

// DefaultCandidates returns the stock ballot with its seed counts
func DefaultCandidates() []models.Candidate {
	return []models.Candidate{
		{
			ID:            "party1",
			DisplayName:   "Democratic Progress Party",
			CandidateName: "Dr. Sarah Johnson",
			Platform:      "Education & Healthcare Reform",
			Symbol:        "🏛️",
			Color:         "#2563eb",
			VoteCount:     15847,
		},
		{
			ID:            "party2",
			DisplayName:   "National Unity Coalition",
			CandidateName: "Prof. Michael Chen",
			Platform:      "Economic Development & Jobs",
			Symbol:        "🤝",
			Color:         "#dc2626",
			VoteCount:     18923,
		},
		{
			ID:            "party3",
			DisplayName:   "Green Future Alliance",
			CandidateName: "Ms. Priya Sharma",
			Platform:      "Environment & Sustainability",
			Symbol:        "🌱",
			Color:         "#16a34a",
			VoteCount:     12456,
		},
		{
			ID:            "party4",
			DisplayName:   "Progressive Reform Movement",
			CandidateName: "Dr. Raj Patel",
			Platform:      "Social Justice & Equality",
			Symbol:        "⚖️",
			Color:         "#7c3aed",
			VoteCount:     9834,
		},
	}
}

type candidateFile struct {
	Candidates []models.Candidate `yaml:"candidates"`
}

// LoadCandidates reads a ballot from a YAML file of the form
//
//	candidates:
//	  - id: party1
//	    display_name: Democratic Progress Party
//	    candidate_name: Dr. Sarah Johnson
//	    platform_summary: Education & Healthcare Reform
//	    votes: 15847
func LoadCandidates(path string) ([]models.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates file: %w", err)
	}

	var f candidateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse candidates file: %w", err)
	}

	if err := ValidateCandidates(f.Candidates); err != nil {
		return nil, fmt.Errorf("invalid candidates file %s: %w", path, err)
	}
	return f.Candidates, nil
}

// ValidateCandidates checks that the set is non-empty with unique, non-empty ids
// and non-negative seed counts.
func ValidateCandidates(candidates []models.Candidate) error {
	if len(candidates) == 0 {
		return errors.New("at least one candidate is required")
	}

	seen := make(map[string]bool, len(candidates))
	for i, c := range candidates {
		if c.ID == "" {
			return fmt.Errorf("candidate %d has no id", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate candidate id %q", c.ID)
		}
		if c.VoteCount < 0 {
			return fmt.Errorf("candidate %q has negative votes", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}
