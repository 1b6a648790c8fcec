package profiles

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string]UserProfile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{profiles: make(map[string]UserProfile)}
}

func (r *MemoryRepo) UpsertRole(ctx context.Context, id, email, roleName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	profile, ok := r.profiles[id]
	if !ok {
		profile = UserProfile{ID: id, CreatedAt: now}
	}
	profile.Email = email
	profile.RoleName = roleName
	profile.UpdatedAt = now
	r.profiles[id] = profile
	return nil
}

func (r *MemoryRepo) UpdateName(ctx context.Context, id, firstName, lastName, country, city string) error {
	return r.update(ctx, id, func(p *UserProfile) {
		p.FirstName = firstName
		p.LastName = lastName
		p.Country = country
		p.City = city
	})
}

func (r *MemoryRepo) UpdateWorkTypes(ctx context.Context, id string, workTypes []string) error {
	return r.update(ctx, id, func(p *UserProfile) {
		if len(workTypes) == 0 {
			p.WorkTypes = nil
			return
		}
		p.WorkTypes = append([]string(nil), workTypes...)
	})
}

func (r *MemoryRepo) SetOnboardingCompleted(ctx context.Context, id string) error {
	return r.update(ctx, id, func(p *UserProfile) {
		p.OnboardingCompleted = true
	})
}

func (r *MemoryRepo) SetGuideSeen(ctx context.Context, id string, seen bool) error {
	return r.update(ctx, id, func(p *UserProfile) {
		p.HasSeenDashboardGuide = seen
	})
}

func (r *MemoryRepo) SetStripeCustomerID(ctx context.Context, id, customerID string) error {
	return r.update(ctx, id, func(p *UserProfile) {
		p.StripeCustomerID = customerID
	})
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return UserProfile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[id]
	if !ok {
		return UserProfile{}, ErrNotFound
	}
	return profile, nil
}

func (r *MemoryRepo) update(ctx context.Context, id string, apply func(*UserProfile)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return ErrNotFound
	}
	apply(&profile)
	profile.UpdatedAt = time.Now().UTC()
	r.profiles[id] = profile
	return nil
}
