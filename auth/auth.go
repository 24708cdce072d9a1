// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
)

// VoterIDPrefix marks every generated voter id
const VoterIDPrefix = "VTR"

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateAdminKey creates an HMAC-based admin key for an election
// This is deterministic and verifiable
func GenerateAdminKey(electionID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(electionID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the election
func ValidateAdminKey(electionID, adminKey, salt string) error {
	expected := GenerateAdminKey(electionID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateSessionToken returns the opaque handle a client uses to address its
// wizard session.
func GenerateSessionToken() string {
	return uuid.NewString()
}

// GenerateVoterID creates a pseudo voter id like "VTR4K9Z1Q".
// Uniqueness is best-effort: 36^6 possible values, no registry is consulted.
func GenerateVoterID() (string, error) {
	const base36Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	b := make([]byte, 6)
	limit := big.NewInt(int64(len(base36Chars)))
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate voter ID: %w", err)
		}
		b[i] = base36Chars[n.Int64()]
	}
	return VoterIDPrefix + string(b), nil
}

// GenerateOTP returns a uniformly random 6-digit code, zero padded
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// GenerateTransactionID fabricates a ledger transaction id: "0x" + 16 hex chars.
// It identifies a receipt inside this process only.
func GenerateTransactionID() (string, error) {
	id, err := GenerateID(8)
	if err != nil {
		return "", err
	}
	return "0x" + id, nil
}

// ComputeVoteHash binds a transaction to its candidate with a random salt so
// the hash alone does not reveal the choice.
func ComputeVoteHash(transactionID, candidateID string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate vote salt: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(transactionID))
	h.Write([]byte{0})
	h.Write([]byte(candidateID))
	h.Write([]byte{0})
	h.Write(salt)
	return "0x" + hex.EncodeToString(h.Sum(nil)), nil
}

// Nullifier derives a one-way marker for a voter id.
// Stores keep the nullifier instead of the voter id to detect repeat casts.
func Nullifier(voterID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(voterID))
	return hex.EncodeToString(h.Sum(nil))
}
