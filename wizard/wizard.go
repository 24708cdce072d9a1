// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/verivote/auth"
	"github.com/danielhkuo/verivote/models"
)

var (
	ErrEmptyInput     = errors.New("input is empty")
	ErrInvalidCode    = errors.New("invalid verification code")
	ErrStepOutOfOrder = errors.New("operation not allowed at current step")
	ErrStepInProgress = errors.New("step is already running")
)

// CheckNames lists the document checks in the order they complete
var CheckNames = []string{"authenticity", "quality", "validity", "data"}

// Wizard drives one voter from phone entry to a verified session.
// All methods are safe for concurrent use; delays run without holding the lock.
type Wizard struct {
	mu sync.Mutex

	step        Step
	session     *models.VoterSession
	code        string
	otpAttempts int
	running     bool
	generation  int // bumped by Reset so in-flight delays notice

	stepDelay time.Duration
}

// New returns a wizard at the phone step. stepDelay paces each simulated
// check; face matching waits twice as long. Zero disables pacing.
func New(stepDelay time.Duration) *Wizard {
	return &Wizard{
		step:      StepPhone,
		stepDelay: stepDelay,
	}
}

// Step returns the current step
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Progress returns the completion percentage shown in the progress bar
func (w *Wizard) Progress() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step.Progress()
}

// Session returns a copy of the voter session, if one was created
func (w *Wizard) Session() (models.VoterSession, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.session == nil {
		return models.VoterSession{}, false
	}
	return *w.session, true
}

// OTPAttempts returns the number of failed code entries since the last reset
func (w *Wizard) OTPAttempts() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.otpAttempts
}

// SubmitPhone opens a voter session for the given phone number
func (w *Wizard) SubmitPhone(phone string) (models.VoterSession, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return models.VoterSession{}, ErrEmptyInput
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepPhone {
		return models.VoterSession{}, ErrStepOutOfOrder
	}

	voterID, err := auth.GenerateVoterID()
	if err != nil {
		return models.VoterSession{}, err
	}

	w.session = &models.VoterSession{
		VoterID:     voterID,
		PhoneNumber: phone,
		Verified:    false,
	}
	w.step = StepDocument

	return *w.session, nil
}

// SubmitDocument accepts any non-empty upload
func (w *Wizard) SubmitDocument(doc []byte) error {
	if len(doc) == 0 {
		return ErrEmptyInput
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepDocument {
		return ErrStepOutOfOrder
	}
	w.step = StepAIProcessing
	return nil
}

// RunAIChecks runs the document checks one after another. Every check passes.
// If ctx ends first the wizard stays at the AI step and the call may be retried.
func (w *Wizard) RunAIChecks(ctx context.Context) ([]models.CheckResult, error) {
	gen, err := w.begin(StepAIProcessing)
	if err != nil {
		return nil, err
	}
	defer w.end()

	results := make([]models.CheckResult, 0, len(CheckNames))
	for _, name := range CheckNames {
		if err := pause(ctx, w.stepDelay); err != nil {
			return nil, fmt.Errorf("check %s interrupted: %w", name, err)
		}
		results = append(results, models.CheckResult{Name: name, Passed: true})
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.generation != gen || w.step != StepAIProcessing {
		return nil, ErrStepOutOfOrder
	}
	w.step = StepFaceRecognition

	return results, nil
}

// RunFaceMatch always matches. On success the wizard enters the OTP step and
// the first code is returned for delivery.
func (w *Wizard) RunFaceMatch(ctx context.Context) (string, error) {
	gen, err := w.begin(StepFaceRecognition)
	if err != nil {
		return "", err
	}
	defer w.end()

	if err := pause(ctx, 2*w.stepDelay); err != nil {
		return "", fmt.Errorf("face match interrupted: %w", err)
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.generation != gen || w.step != StepFaceRecognition {
		return "", ErrStepOutOfOrder
	}
	w.step = StepOTP
	w.code = code

	return code, nil
}

// GenerateOTP issues a fresh code, replacing any earlier one
func (w *Wizard) GenerateOTP() (string, error) {
	code, err := auth.GenerateOTP()
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepOTP {
		return "", ErrStepOutOfOrder
	}
	w.code = code
	return code, nil
}

// ResendOTP invalidates the current code and issues a new one
func (w *Wizard) ResendOTP() (string, error) {
	return w.GenerateOTP()
}

// VerifyOTP compares entered against the latest code byte for byte.
// A mismatch keeps the wizard at the OTP step.
func (w *Wizard) VerifyOTP(entered string) (models.VoterSession, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepOTP {
		return models.VoterSession{}, ErrStepOutOfOrder
	}

	if w.code == "" || subtle.ConstantTimeCompare([]byte(entered), []byte(w.code)) != 1 {
		w.otpAttempts++
		return models.VoterSession{}, ErrInvalidCode
	}

	w.session.Verified = true
	w.code = ""
	w.step = StepVerified

	return *w.session, nil
}

// Reset discards the session and returns to the phone step
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.step = StepPhone
	w.session = nil
	w.code = ""
	w.otpAttempts = 0
	w.generation++
}

func (w *Wizard) begin(want Step) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != want {
		return 0, ErrStepOutOfOrder
	}
	if w.running {
		return 0, ErrStepInProgress
	}
	w.running = true
	return w.generation, nil
}

func (w *Wizard) end() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
