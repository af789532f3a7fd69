package sessions

import (
	"context"
	"sync"
	"time"
)

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Locker serializes all mutation of a given identity's session. Entries are
// reference counted so the map does not grow with every identity ever seen.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

// NewLocker creates an empty Locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*lockEntry)}
}

func (l *Locker) acquire(identity string) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.locks[identity]
	if !ok {
		entry = &lockEntry{}
		l.locks[identity] = entry
	}
	entry.refs++
	return entry
}

func (l *Locker) release(identity string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.locks[identity]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(l.locks, identity)
	}
}

// WithLock runs fn while holding the identity's lock. Two events for the same
// identity never race on the session record; distinct identities proceed in
// parallel.
func (l *Locker) WithLock(ctx context.Context, identity string, fn func(context.Context) error) error {
	entry := l.acquire(identity)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		l.release(identity)
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// Store bundles a Repo with the Locker and a clock, exposing the
// load-mutate-save contract every engine component goes through.
type Store struct {
	Repo   Repo
	Locker *Locker
	Now    func() time.Time
}

// NewStore creates a Store over the given repo.
func NewStore(repo Repo) *Store {
	return &Store{Repo: repo, Locker: NewLocker(), Now: time.Now}
}

// Mutate loads (or creates) the identity's session, applies fn, and saves the
// result, all under the identity lock. fn returning an error aborts the save.
func (st *Store) Mutate(ctx context.Context, identity string, fn func(*Session) error) error {
	return st.Locker.WithLock(ctx, identity, func(ctx context.Context) error {
		s, err := st.Repo.Get(ctx, identity)
		if err != nil {
			if err != ErrNotFound {
				return err
			}
			s = New(identity, st.Now())
		}
		if err := fn(&s); err != nil {
			return err
		}
		s.LastInteraction = st.Now().UTC()
		return st.Repo.Save(ctx, s)
	})
}

// View loads the identity's session under the lock without saving.
func (st *Store) View(ctx context.Context, identity string) (Session, error) {
	var s Session
	err := st.Locker.WithLock(ctx, identity, func(ctx context.Context) error {
		var err error
		s, err = st.Repo.Get(ctx, identity)
		return err
	})
	return s, err
}
