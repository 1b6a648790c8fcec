package profiles

import "time"

// Work types users may select during onboarding. Anything else is dropped.
const (
	WorkTypePartTime   = "part-time"
	WorkTypeFullTime   = "full-time"
	WorkTypeInternship = "internship"
)

// UserProfile is one row per identity key in user_profiles.
type UserProfile struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	RoleName              string    `json:"roleName,omitempty"`
	FirstName             string    `json:"firstName,omitempty"`
	LastName              string    `json:"lastName,omitempty"`
	Country               string    `json:"country,omitempty"`
	City                  string    `json:"city,omitempty"`
	WorkTypes             []string  `json:"workTypes,omitempty"`
	OnboardingCompleted   bool      `json:"onboardingCompleted"`
	HasSeenDashboardGuide bool      `json:"hasSeenDashboardGuide"`
	StripeCustomerID      string    `json:"-"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// FilterWorkTypes drops values outside the allowed set, preserving order.
func FilterWorkTypes(entries []string) []string {
	var out []string
	for _, e := range entries {
		switch e {
		case WorkTypePartTime, WorkTypeFullTime, WorkTypeInternship:
			out = append(out, e)
		}
	}
	return out
}
