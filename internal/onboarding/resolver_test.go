package onboarding

import (
	"context"
	"fmt"
	"testing"

	"onboard-backend/internal/profiles"
)

// flakyRepo wraps a MemoryRepo and lets tests override the read path.
type flakyRepo struct {
	*profiles.MemoryRepo
	getErr error
}

func (r *flakyRepo) GetByID(ctx context.Context, id string) (profiles.UserProfile, error) {
	if r.getErr != nil {
		return profiles.UserProfile{}, r.getErr
	}
	return r.MemoryRepo.GetByID(ctx, id)
}

func TestResolverCompletedUser(t *testing.T) {
	ctx := context.Background()
	svc := profiles.NewService(profiles.NewMemoryRepo())
	if err := svc.SaveRoleName(ctx, "user-1", "u@example.com", "Engineer"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := svc.CompleteOnboarding(ctx, "user-1"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	resolver := NewResolver(svc)
	if !resolver.IsComplete(ctx, "user-1") {
		t.Fatal("expected completed user to resolve as complete")
	}
	if resolver.IsComplete(ctx, "user-2") {
		t.Fatal("expected unknown user to resolve as incomplete")
	}
}

func TestResolverFailsClosedOnStoreError(t *testing.T) {
	ctx := context.Background()
	repo := &flakyRepo{MemoryRepo: profiles.NewMemoryRepo(), getErr: fmt.Errorf("query canceled")}
	resolver := NewResolver(profiles.NewService(repo))

	if resolver.IsComplete(ctx, "user-1") {
		t.Fatal("expected store error to resolve as incomplete")
	}
}

func TestResolverTreatsWrappedNotFoundAsMissing(t *testing.T) {
	ctx := context.Background()
	repo := &flakyRepo{
		MemoryRepo: profiles.NewMemoryRepo(),
		getErr:     fmt.Errorf("load profile: %w", profiles.ErrNotFound),
	}
	resolver := NewResolver(profiles.NewService(repo))

	if resolver.IsComplete(ctx, "user-1") {
		t.Fatal("expected wrapped not-found to resolve as incomplete")
	}
}
