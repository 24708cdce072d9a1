// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package wizard implements the voter verification flow.

# Steps

A Wizard moves strictly forward through five steps and one terminal state:

	phone → document → ai_processing → face_recognition → otp → verified

Each operation is valid in exactly one step and returns ErrStepOutOfOrder
anywhere else. The OTP step loops on ErrInvalidCode until the latest code is
entered.

	w := wizard.New(cfg.StepDelay)
	session, err := w.SubmitPhone("+91 98765 43210")
	err = w.SubmitDocument(upload)
	checks, err := w.RunAIChecks(ctx)
	code, err := w.RunFaceMatch(ctx) // deliver code out of band
	session, err = w.VerifyOTP(entered)

# Simulated Work

Document checks and face matching never fail. They wait stepDelay (face
matching waits twice that) purely for pacing, and honour ctx cancellation.

# Ownership

A Wizard is one voter's context object. Callers keep one per session; there
is no shared global state.
*/
package wizard
