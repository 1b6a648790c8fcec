package billing

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	subs map[string]Subscription
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{subs: make(map[string]Subscription)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, sub *Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	stored := *sub
	if existing, ok := r.subs[sub.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.subs[sub.ID] = stored
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := sub
	return &out, nil
}

func (r *MemoryRepo) DeactivateBySubscriptionID(ctx context.Context, subscriptionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, sub := range r.subs {
		if sub.StripeSubscriptionID == nil || *sub.StripeSubscriptionID != subscriptionID {
			continue
		}
		sub.Plan = PlanFree
		sub.Active = false
		sub.NextBillingDate = nil
		sub.UpdatedAt = time.Now().UTC()
		r.subs[id] = sub
	}
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, id)
	return nil
}
