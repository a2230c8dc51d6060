package profiles

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores golden profiles in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string]GoldenProfile
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{profiles: make(map[string]GoldenProfile)}
}

// Get returns the profile for a job.
func (r *MemoryRepo) Get(ctx context.Context, jobID string) (GoldenProfile, error) {
	if err := ctx.Err(); err != nil {
		return GoldenProfile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[jobID]
	if !ok {
		return GoldenProfile{}, ErrNotFound
	}
	return profile, nil
}

// Put stores the profile, overwriting any previous one.
func (r *MemoryRepo) Put(ctx context.Context, jobID string, profile GoldenProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	profile.UpdatedAt = time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[jobID] = profile
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
