// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wizard

import "github.com/danielhkuo/verivote/models"

// Step is a position in the verification flow
type Step int

const (
	StepPhone Step = iota + 1
	StepDocument
	StepAIProcessing
	StepFaceRecognition
	StepOTP
	StepVerified
)

// TotalSteps is the number of user-facing steps (Verified is not one of them)
const TotalSteps = 5

var stepInfo = map[Step]struct {
	name  string
	title string
}{
	StepPhone:           {models.StepPhone, "Phone Verification"},
	StepDocument:        {models.StepDocument, "Document Upload"},
	StepAIProcessing:    {models.StepAIProcessing, "AI Verification"},
	StepFaceRecognition: {models.StepFaceRecognition, "Face Recognition"},
	StepOTP:             {models.StepOTP, "OTP Verification"},
	StepVerified:        {models.StepVerified, "Ready to Vote"},
}

func (s Step) String() string {
	if info, ok := stepInfo[s]; ok {
		return info.name
	}
	return "unknown"
}

// Title is the heading shown for the step
func (s Step) Title() string {
	if info, ok := stepInfo[s]; ok {
		return info.title
	}
	return ""
}

// Progress is step/TotalSteps as a percentage, capped at 100
func (s Step) Progress() float64 {
	if s >= StepVerified {
		return 100
	}
	if s < StepPhone {
		return 0
	}
	return float64(s) / TotalSteps * 100
}
