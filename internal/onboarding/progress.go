// Package onboarding scores setup progress and gates dashboard access until
// the flow is finished.
package onboarding

import (
	"strings"

	"onboard-backend/internal/profiles"
	"onboard-backend/internal/resumes"
)

// Step weights. The profile step counts only when the whole bucket of
// name and location fields is filled in.
const (
	weightRoleName = 15
	weightProfile  = 40
	weightWorkType = 10
	weightResume   = 35
)

// Bands group the total for the progress UI.
const (
	BandLow      = "low"
	BandMid      = "mid"
	BandComplete = "complete"
)

// Score carries the per-step credit and the total out of 100.
type Score struct {
	Total    int `json:"total"`
	RoleName int `json:"roleName"`
	Profile  int `json:"profile"`
	WorkType int `json:"workType"`
	Resume   int `json:"resume"`
}

// Compute scores a profile and its parsed resume. Each step earns its full
// weight or nothing.
func Compute(profile profiles.UserProfile, resume *resumes.ParsingResult) Score {
	var score Score
	if strings.TrimSpace(profile.RoleName) != "" {
		score.RoleName = weightRoleName
	}
	if filled(profile.FirstName) && filled(profile.LastName) && filled(profile.Country) && filled(profile.City) {
		score.Profile = weightProfile
	}
	if len(profile.WorkTypes) > 0 {
		score.WorkType = weightWorkType
	}
	if resume.HasContent() {
		score.Resume = weightResume
	}
	score.Total = score.RoleName + score.Profile + score.WorkType + score.Resume
	return score
}

// Band maps a score total to its display band.
func Band(total int) string {
	switch {
	case total >= 100:
		return BandComplete
	case total >= 50:
		return BandMid
	default:
		return BandLow
	}
}

func filled(value string) bool {
	return strings.TrimSpace(value) != ""
}
