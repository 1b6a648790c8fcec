package profiles

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "profile not found" }

// Repo persists user profiles keyed on the external identity string.
type Repo interface {
	// UpsertRole creates the profile row if absent and sets email + role name.
	UpsertRole(ctx context.Context, id, email, roleName string) error
	// UpdateName sets name and location fields on an existing row.
	// Returns ErrNotFound when no row exists for id.
	UpdateName(ctx context.Context, id, firstName, lastName, country, city string) error
	// UpdateWorkTypes replaces the work-type selection. An empty slice stores NULL.
	UpdateWorkTypes(ctx context.Context, id string, workTypes []string) error
	// SetOnboardingCompleted marks onboarding done. Safe to call repeatedly.
	SetOnboardingCompleted(ctx context.Context, id string) error
	SetGuideSeen(ctx context.Context, id string, seen bool) error
	SetStripeCustomerID(ctx context.Context, id, customerID string) error
	GetByID(ctx context.Context, id string) (UserProfile, error)
}
