package resumes

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	results map[string]ParsingResult
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{results: make(map[string]ParsingResult)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, result ParsingResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	existing, ok := r.results[result.ID]
	if ok {
		result.CreatedAt = existing.CreatedAt
	} else {
		result.CreatedAt = now
	}
	result.UpdatedAt = now
	if result.Skills == nil {
		result.Skills = []string{}
	}
	if result.Experiences == nil {
		result.Experiences = []Experience{}
	}
	r.results[result.ID] = result
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (ParsingResult, error) {
	if err := ctx.Err(); err != nil {
		return ParsingResult{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	result, ok := r.results[id]
	if !ok {
		return ParsingResult{}, ErrNotFound
	}
	return result, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.results, id)
	return nil
}
