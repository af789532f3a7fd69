package reminder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cvbot-backend/internal/resume"
	"cvbot-backend/internal/sessions"
)

type recordingSender struct {
	texts []string
	err   error
}

func (r *recordingSender) SendText(ctx context.Context, phone, message string) error {
	if r.err != nil {
		return r.err
	}
	r.texts = append(r.texts, message)
	return nil
}

func (r *recordingSender) SendImage(ctx context.Context, phone, imageURL, caption string) error {
	return nil
}

func (r *recordingSender) SendDocument(ctx context.Context, phone string, document []byte, filename, caption string) error {
	return nil
}

func seedIdleSession(t *testing.T, repo sessions.Repo, identity string, last time.Time) {
	t.Helper()
	s := sessions.New(identity, last)
	s.State = "collect_cidade"
	s.Record.Nome = resume.Provide("Bruna Costa")
	if err := repo.Save(context.Background(), s); err != nil {
		t.Fatalf("seed %s: %v", identity, err)
	}
}

func TestSweepNudgesIdleSessionsOnce(t *testing.T) {
	repo := sessions.NewMemoryRepo()
	sender := &recordingSender{}
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	sw := NewSweeper(repo, sender)
	sw.Now = func() time.Time { return now }
	seedIdleSession(t, repo, "5511999990000", now.Add(-30*time.Hour))

	sent, err := sw.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if sent != 1 || len(sender.texts) != 1 {
		t.Fatalf("sent = %d texts = %d, want a single nudge", sent, len(sender.texts))
	}
	if !strings.Contains(sender.texts[0], "Bruna") {
		t.Fatalf("nudge = %q, want first-name greeting", sender.texts[0])
	}

	// Second pass finds nothing: the flag is set and last_interaction
	// did not move.
	sent, err = sw.Sweep(context.Background())
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if sent != 0 {
		t.Fatalf("sent = %d, want no repeat nudges", sent)
	}
	s, _ := repo.Get(context.Background(), "5511999990000")
	if !s.LastInteraction.Equal(now.Add(-30 * time.Hour)) {
		t.Fatal("sweep must not touch last_interaction")
	}
}

func TestSweepSkipsRecentSessions(t *testing.T) {
	repo := sessions.NewMemoryRepo()
	sender := &recordingSender{}
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	sw := NewSweeper(repo, sender)
	sw.Now = func() time.Time { return now }
	seedIdleSession(t, repo, "5511999990000", now.Add(-2*time.Hour))

	sent, err := sw.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if sent != 0 || len(sender.texts) != 0 {
		t.Fatal("recently active sessions must not be nudged")
	}
}

func TestSweepRetriesAfterSendFailure(t *testing.T) {
	repo := sessions.NewMemoryRepo()
	sender := &recordingSender{err: errors.New("gateway down")}
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	sw := NewSweeper(repo, sender)
	sw.Now = func() time.Time { return now }
	seedIdleSession(t, repo, "5511999990000", now.Add(-30*time.Hour))

	if sent, err := sw.Sweep(context.Background()); err != nil || sent != 0 {
		t.Fatalf("sweep: sent = %d err = %v", sent, err)
	}
	s, _ := repo.Get(context.Background(), "5511999990000")
	if s.ReminderSent {
		t.Fatal("flag must not flip when the send failed")
	}

	// Gateway recovers; the same session is picked up again.
	sender.err = nil
	if sent, err := sw.Sweep(context.Background()); err != nil || sent != 1 {
		t.Fatalf("retry sweep: sent = %d err = %v", sent, err)
	}
}

func TestSweepGreetsWithoutNameWhenUnknown(t *testing.T) {
	repo := sessions.NewMemoryRepo()
	sender := &recordingSender{}
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	sw := NewSweeper(repo, sender)
	sw.Now = func() time.Time { return now }
	s := sessions.New("5511999990000", now.Add(-30*time.Hour))
	s.State = "collect_nome"
	if err := repo.Save(context.Background(), s); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := sw.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(sender.texts) != 1 || strings.Contains(sender.texts[0], ", !") {
		t.Fatalf("nudge = %v, want generic greeting", sender.texts)
	}
}
