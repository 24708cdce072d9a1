package models

import "time"

// Wizard step names as they appear in API responses
const (
	StepPhone           = "phone"
	StepDocument        = "document"
	StepAIProcessing    = "ai_processing"
	StepFaceRecognition = "face_recognition"
	StepOTP             = "otp"
	StepVerified        = "verified"
)

// Request types

type SubmitPhoneRequest struct {
	Phone string `json:"phone"`
}

type VerifyOTPRequest struct {
	Code string `json:"code"`
}

type SelectCandidateRequest struct {
	CandidateID string `json:"candidate_id"`
}

// Response types

type CreateSessionResponse struct {
	SessionID string       `json:"session_id"`
	Session   VoterSession `json:"session"`
	Step      string       `json:"step"`
}

type SessionStateResponse struct {
	SessionID   string        `json:"session_id"`
	Step        string        `json:"step"`
	StepNumber  int           `json:"step_number"`
	StepTitle   string        `json:"step_title"`
	Progress    float64       `json:"progress"`
	Session     *VoterSession `json:"session,omitempty"`
	SelectedID  *string       `json:"selected_candidate_id,omitempty"`
	HasVoted    bool          `json:"has_voted"`
	OTPAttempts int           `json:"otp_attempts"`
}

type StepResponse struct {
	Step string `json:"step"`
}

type AIChecksResponse struct {
	Step   string        `json:"step"`
	Checks []CheckResult `json:"checks"`
}

// DemoCode is the OTP side channel; only populated when the server runs in demo mode.
type OTPIssuedResponse struct {
	Step     string  `json:"step"`
	Phone    string  `json:"phone"`
	DemoCode *string `json:"demo_code,omitempty"`
}

type VerifyOTPResponse struct {
	Step    string       `json:"step"`
	Session VoterSession `json:"session"`
}

type SelectionResponse struct {
	SelectedID *string `json:"selected_candidate_id"`
}

type CastVoteResponse struct {
	Receipt VoteReceipt `json:"receipt"`
	Message string      `json:"message"`
}

type ResetResponse struct {
	Message string `json:"message"`
}

// Domain types

type VoterSession struct {
	VoterID     string `json:"voter_id"`
	PhoneNumber string `json:"phone_number"`
	Verified    bool   `json:"verified"`
}

type CheckResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
}

type Candidate struct {
	ID            string `json:"id" yaml:"id"`
	DisplayName   string `json:"display_name" yaml:"display_name"`
	CandidateName string `json:"candidate_name" yaml:"candidate_name"`
	Platform      string `json:"platform_summary" yaml:"platform_summary"`
	Symbol        string `json:"symbol,omitempty" yaml:"symbol"`
	Color         string `json:"color,omitempty" yaml:"color"`
	VoteCount     int64  `json:"vote_count" yaml:"votes"`
}

type VoteReceipt struct {
	TransactionID string    `json:"transaction_id"`
	VoteHash      string    `json:"vote_hash"`
	BlockNumber   int64     `json:"block_number"`
	CastAt        time.Time `json:"cast_at"`
}

// VoteRecord is what a store persists for one cast. Nullifier is an HMAC of
// the voter id and never leaves the server.
type VoteRecord struct {
	Receipt     VoteReceipt
	CandidateID string
	Nullifier   string
}

// Tally types

type TallyEntry struct {
	Rank       int       `json:"rank"` // 1-indexed
	Candidate  Candidate `json:"candidate"`
	VoteCount  int64     `json:"vote_count"`
	VotesHuman string    `json:"votes_display"`
	Percentage float64   `json:"percentage"`
}

type Tally struct {
	TotalVotes      int64        `json:"total_votes"`
	TotalVotesHuman string       `json:"total_votes_display"`
	Entries         []TallyEntry `json:"entries"`
	ComputedAt      time.Time    `json:"computed_at"`
}

type LedgerStats struct {
	TotalVotesCast int64 `json:"total_votes_cast"`
	BlockHeight    int64 `json:"block_height"`
}

// LedgerAudit cross-checks the counters against the receipt ledger.
// Every cast since genesis must have exactly one receipt, and the
// candidate counts must add up to the ledger total.
type LedgerAudit struct {
	Receipts         int64    `json:"receipts"`
	CastSinceGenesis int64    `json:"cast_since_genesis"`
	CandidateTotal   int64    `json:"candidate_total"`
	TotalVotesCast   int64    `json:"total_votes_cast"`
	Consistent       bool     `json:"consistent"`
	Discrepancies    []string `json:"discrepancies"`
}

type RecentTransaction struct {
	TransactionID string    `json:"transaction_id"`
	BlockNumber   int64     `json:"block_number"`
	CastAt        time.Time `json:"cast_at"`
	CastAgo       string    `json:"cast_ago"`
}

type StatsResponse struct {
	TotalVotesCast     int64               `json:"total_votes_cast"`
	TotalVotesHuman    string              `json:"total_votes_display"`
	BlockHeight        int64               `json:"block_height"`
	Candidates         int                 `json:"candidates"`
	ActiveSessions     int                 `json:"active_sessions"`
	RecentTransactions []RecentTransaction `json:"recent_transactions"`
	Audit              LedgerAudit         `json:"audit"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
