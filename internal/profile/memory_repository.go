package profile

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]UserProfile
}

// NewMemoryRepository builds an in-memory profile store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{profiles: make(map[string]UserProfile)}
}

func (r *memoryRepository) Create(_ context.Context, p UserProfile) error {
	if p.GuestMode {
		return ErrGuest
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.profiles[p.Username]; exists {
		return ErrExists
	}
	r.profiles[p.Username] = p.clone()
	return nil
}

func (r *memoryRepository) Get(_ context.Context, username string) (UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[username]
	if !ok {
		return UserProfile{}, ErrNotFound
	}
	return p.clone(), nil
}

func (r *memoryRepository) Put(_ context.Context, p UserProfile) error {
	if p.GuestMode {
		return ErrGuest
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.Username]; !ok {
		return ErrNotFound
	}
	r.profiles[p.Username] = p.clone()
	return nil
}

func (r *memoryRepository) Exists(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.profiles[username]
	return ok, nil
}

func (r *memoryRepository) List(_ context.Context) ([]UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]UserProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
