package onboarding

import (
	"context"
	"errors"

	"onboard-backend/internal/profiles"
	"onboard-backend/internal/shared/telemetry"
)

// Resolver answers whether a user has finished onboarding.
type Resolver struct {
	Profiles *profiles.Service
}

func NewResolver(profilesSvc *profiles.Service) *Resolver {
	return &Resolver{Profiles: profilesSvc}
}

// IsComplete fails closed: a missing profile or a store error both count as
// incomplete, which sends the user back into the flow instead of past it.
func (r *Resolver) IsComplete(ctx context.Context, userID string) bool {
	if r == nil || r.Profiles == nil || userID == "" {
		return false
	}
	profile, err := r.Profiles.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, profiles.ErrNotFound) {
			telemetry.Warn("onboarding.resolve_failed", map[string]any{"user_id": userID, "error": err.Error()})
		}
		return false
	}
	return profile.OnboardingCompleted
}
