package profiles

import (
	"context"
	"errors"
	"strings"

	"onboard-backend/internal/shared/telemetry"
)

// Validation failures shown to users without a persistence attempt.
var (
	ErrRoleNameRequired  = errors.New("Role name is required")
	ErrFirstNameRequired = errors.New("First name is required")
	ErrLastNameRequired  = errors.New("Last name is required")
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// SaveRoleName upserts the profile row with the role name and the email
// captured from the identity provider at call time.
func (s *Service) SaveRoleName(ctx context.Context, id, email, roleName string) error {
	if err := s.ready(id); err != nil {
		return err
	}
	roleName = strings.TrimSpace(roleName)
	if roleName == "" {
		return ErrRoleNameRequired
	}
	return s.Repo.UpsertRole(ctx, id, email, roleName)
}

// SaveProfile updates name and location on an existing row. The row must
// already exist; a missing row surfaces as ErrNotFound from the repo.
func (s *Service) SaveProfile(ctx context.Context, id, firstName, lastName, country, city string) error {
	if err := s.ready(id); err != nil {
		return err
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" {
		return ErrFirstNameRequired
	}
	if lastName == "" {
		return ErrLastNameRequired
	}
	return s.Repo.UpdateName(ctx, id, firstName, lastName, strings.TrimSpace(country), strings.TrimSpace(city))
}

// SaveWorkTypes stores the selection, silently dropping values outside the
// allowed set. An empty selection stores NULL, not an empty list.
func (s *Service) SaveWorkTypes(ctx context.Context, id string, entries []string) error {
	if err := s.ready(id); err != nil {
		return err
	}
	return s.Repo.UpdateWorkTypes(ctx, id, FilterWorkTypes(entries))
}

// CompleteOnboarding marks onboarding done. Idempotent.
func (s *Service) CompleteOnboarding(ctx context.Context, id string) error {
	if err := s.ready(id); err != nil {
		return err
	}
	return s.Repo.SetOnboardingCompleted(ctx, id)
}

// MarkGuideSeen records that the dashboard guide was shown. Store errors are
// swallowed so a broken optional feature does not block navigation.
func (s *Service) MarkGuideSeen(ctx context.Context, id string) {
	if s == nil || s.Repo == nil || strings.TrimSpace(id) == "" {
		return
	}
	if err := s.Repo.SetGuideSeen(ctx, id, true); err != nil {
		telemetry.Warn("guide.mark_seen_failed", map[string]any{"user_id": id, "error": err.Error()})
	}
}

// ResetGuide clears the guide-seen flag. Exposed via a dev-only endpoint.
func (s *Service) ResetGuide(ctx context.Context, id string) error {
	if err := s.ready(id); err != nil {
		return err
	}
	return s.Repo.SetGuideSeen(ctx, id, false)
}

// SetStripeCustomerID stamps the payment processor's customer id on the row.
func (s *Service) SetStripeCustomerID(ctx context.Context, id, customerID string) error {
	if err := s.ready(id); err != nil {
		return err
	}
	return s.Repo.SetStripeCustomerID(ctx, id, customerID)
}

func (s *Service) GetByID(ctx context.Context, id string) (UserProfile, error) {
	if err := s.ready(id); err != nil {
		return UserProfile{}, err
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) ready(id string) error {
	if s == nil || s.Repo == nil {
		return errors.New("profiles service not configured")
	}
	if strings.TrimSpace(id) == "" {
		return errors.New("user id is required")
	}
	return nil
}
