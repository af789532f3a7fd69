package sessions

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for dev mode and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Session
}

// NewMemoryRepo creates an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Session)}
}

// Get returns the session for the identity.
func (r *MemoryRepo) Get(ctx context.Context, identity string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.data[identity]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

// Save upserts the session.
func (r *MemoryRepo) Save(ctx context.Context, s Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[s.Identity] = s
	return nil
}

// ListIdle returns unreminded sessions idle beyond the cutoff.
func (r *MemoryRepo) ListIdle(ctx context.Context, cutoff time.Time) ([]Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Session
	for _, s := range r.data {
		if s.ReminderSent || s.State == InitialState || s.State == CompletedState {
			continue
		}
		if s.LastInteraction.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out, nil
}

// MarkReminded flips the reminder flag.
func (r *MemoryRepo) MarkReminded(ctx context.Context, identity string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.data[identity]
	if !ok {
		return ErrNotFound
	}
	s.ReminderSent = true
	r.data[identity] = s
	return nil
}
