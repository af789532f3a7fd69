package sessions

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates no session exists for the identity.
var ErrNotFound = errors.New("session not found")

// Repo persists sessions keyed by conversant identity.
type Repo interface {
	Get(ctx context.Context, identity string) (Session, error)
	Save(ctx context.Context, s Session) error
	// ListIdle returns sessions whose last interaction predates the cutoff,
	// that have not been reminded yet, and that sit in a resumable state
	// (anything but the initial and completed states).
	ListIdle(ctx context.Context, cutoff time.Time) ([]Session, error)
	// MarkReminded flips the reminder flag without touching last_interaction,
	// so the sweep cannot resurrect a session as "active".
	MarkReminded(ctx context.Context, identity string) error
}

// CompletedState mirrors the terminal engine state; repos use it to exclude
// finished conversations from the idle sweep.
const CompletedState = "completed"
