package sessions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestStoreMutateCreatesMissingSession(t *testing.T) {
	repo := NewMemoryRepo()
	st := NewStore(repo)

	err := st.Mutate(context.Background(), "5511999990000", func(s *Session) error {
		if s.State != InitialState {
			t.Fatalf("state = %q, want fresh session", s.State)
		}
		s.State = "plan_choice"
		return nil
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}

	got, err := repo.Get(context.Background(), "5511999990000")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != "plan_choice" {
		t.Fatalf("state = %q, want saved mutation", got.State)
	}
}

func TestStoreMutateAbortsSaveOnError(t *testing.T) {
	repo := NewMemoryRepo()
	st := NewStore(repo)
	sentinel := errors.New("nope")

	err := st.Mutate(context.Background(), "5511999990000", func(s *Session) error {
		s.State = "plan_choice"
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}
	if _, err := repo.Get(context.Background(), "5511999990000"); !errors.Is(err, ErrNotFound) {
		t.Fatal("session must not be saved when fn fails")
	}
}

func TestStoreMutateBumpsLastInteraction(t *testing.T) {
	repo := NewMemoryRepo()
	st := NewStore(repo)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st.Now = func() time.Time { return fixed }

	if err := st.Mutate(context.Background(), "x", func(s *Session) error { return nil }); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	got, _ := repo.Get(context.Background(), "x")
	if !got.LastInteraction.Equal(fixed) {
		t.Fatalf("last interaction = %v, want %v", got.LastInteraction, fixed)
	}
}

func TestStoreMutateSerializesPerIdentity(t *testing.T) {
	repo := NewMemoryRepo()
	st := NewStore(repo)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = st.Mutate(context.Background(), "same", func(s *Session) error {
				s.Credits++
				return nil
			})
		}()
	}
	wg.Wait()

	got, _ := repo.Get(context.Background(), "same")
	if got.Credits != workers {
		t.Fatalf("credits = %d, want %d lost-update-free increments", got.Credits, workers)
	}
}

func TestLockerReleasesEntries(t *testing.T) {
	l := NewLocker()
	done := make(chan struct{})
	go func() {
		_ = l.WithLock(context.Background(), "a", func(ctx context.Context) error { return nil })
		close(done)
	}()
	<-done

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.locks) != 0 {
		t.Fatalf("locks map has %d entries, want drained", len(l.locks))
	}
}

func TestWithLockHonorsCancelledContext(t *testing.T) {
	l := NewLocker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.WithLock(ctx, "a", func(ctx context.Context) error {
		t.Fatal("fn must not run with a cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
