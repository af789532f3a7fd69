package reminder

import (
	"context"
	"fmt"
	"time"

	"cvbot-backend/internal/sessions"
	"cvbot-backend/internal/shared/telemetry"
	"cvbot-backend/internal/zapi"
)

// DefaultIdle is how long a conversation may sit quiet before one nudge.
const DefaultIdle = 24 * time.Hour

// Sweeper finds conversations abandoned mid-flow and sends a single nudge
// per session. The reminder flag is flipped only after a successful send, so
// a failed send is retried on the next sweep; a send that succeeds but whose
// flag write fails can at worst repeat the nudge once.
type Sweeper struct {
	Repo   sessions.Repo
	Sender zapi.Sender
	Idle   time.Duration
	Now    func() time.Time
}

// NewSweeper builds a sweeper with the default idle window.
func NewSweeper(repo sessions.Repo, sender zapi.Sender) *Sweeper {
	return &Sweeper{Repo: repo, Sender: sender, Idle: DefaultIdle, Now: time.Now}
}

// Sweep runs one pass and returns how many reminders went out.
func (sw *Sweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := sw.now().Add(-sw.idle())
	idle, err := sw.Repo.ListIdle(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("reminder: list idle sessions: %w", err)
	}
	sent := 0
	for _, s := range idle {
		if err := sw.remind(ctx, s); err != nil {
			telemetry.Warn("reminder: nudge failed", map[string]any{
				"identity": s.Identity,
				"error":    err.Error(),
			})
			continue
		}
		sent++
	}
	telemetry.Info("reminder: sweep finished", map[string]any{
		"candidates": len(idle),
		"sent":       sent,
	})
	return sent, nil
}

// Run sweeps on the given interval until the context ends.
func (sw *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sw.Sweep(ctx); err != nil {
				telemetry.Error("reminder: sweep failed", map[string]any{
					"error": err.Error(),
				})
			}
		}
	}
}

func (sw *Sweeper) remind(ctx context.Context, s sessions.Session) error {
	if err := sw.Sender.SendText(ctx, s.Identity, message(s)); err != nil {
		return err
	}
	return sw.Repo.MarkReminded(ctx, s.Identity)
}

func message(s sessions.Session) string {
	if name := s.Record.FirstName(); name != "" {
		return fmt.Sprintf("Oi, %s! 👋 Seu currículo ficou pela metade por aqui.\n"+
			"É só mandar uma mensagem que a gente continua de onde parou!", name)
	}
	return "Oi! 👋 Seu currículo ficou pela metade por aqui.\n" +
		"É só mandar uma mensagem que a gente continua de onde parou!"
}

func (sw *Sweeper) now() time.Time {
	if sw.Now != nil {
		return sw.Now()
	}
	return time.Now()
}

func (sw *Sweeper) idle() time.Duration {
	if sw.Idle > 0 {
		return sw.Idle
	}
	return DefaultIdle
}
