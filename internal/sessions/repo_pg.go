package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cvbot-backend/internal/resume"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Get returns the session for the identity.
func (r *PGRepo) Get(ctx context.Context, identity string) (Session, error) {
	const query = `
SELECT identity, state, record, plan, template, credits, subscription_valid_until, editing_field, reminder_sent, created_at, last_interaction
FROM sessions
WHERE identity = $1`
	row := r.DB.QueryRowContext(ctx, query, identity)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	return s, nil
}

// Save upserts the session.
func (r *PGRepo) Save(ctx context.Context, s Session) error {
	recordJSON, err := json.Marshal(s.Record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	var validUntil sql.NullTime
	if s.SubscriptionValidUntil != nil {
		validUntil = sql.NullTime{Time: *s.SubscriptionValidUntil, Valid: true}
	}

	const query = `
INSERT INTO sessions (identity, state, record, plan, template, credits, subscription_valid_until, editing_field, reminder_sent, created_at, last_interaction)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (identity) DO UPDATE SET
    state = EXCLUDED.state,
    record = EXCLUDED.record,
    plan = EXCLUDED.plan,
    template = EXCLUDED.template,
    credits = EXCLUDED.credits,
    subscription_valid_until = EXCLUDED.subscription_valid_until,
    editing_field = EXCLUDED.editing_field,
    reminder_sent = EXCLUDED.reminder_sent,
    last_interaction = EXCLUDED.last_interaction`

	_, err = r.DB.ExecContext(
		ctx,
		query,
		s.Identity,
		s.State,
		recordJSON,
		s.Plan,
		s.Template,
		s.Credits,
		validUntil,
		s.EditingField,
		s.ReminderSent,
		s.CreatedAt,
		s.LastInteraction,
	)
	return err
}

// ListIdle returns unreminded sessions idle beyond the cutoff.
func (r *PGRepo) ListIdle(ctx context.Context, cutoff time.Time) ([]Session, error) {
	const query = `
SELECT identity, state, record, plan, template, credits, subscription_valid_until, editing_field, reminder_sent, created_at, last_interaction
FROM sessions
WHERE NOT reminder_sent
  AND state NOT IN ($1, $2)
  AND last_interaction < $3
ORDER BY last_interaction ASC`

	rows, err := r.DB.QueryContext(ctx, query, InitialState, CompletedState, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// MarkReminded flips the reminder flag; last_interaction is left untouched.
func (r *PGRepo) MarkReminded(ctx context.Context, identity string) error {
	const query = `UPDATE sessions SET reminder_sent = TRUE WHERE identity = $1`
	res, err := r.DB.ExecContext(ctx, query, identity)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (Session, error) {
	var (
		s          Session
		recordJSON []byte
		validUntil sql.NullTime
	)
	err := row.Scan(
		&s.Identity,
		&s.State,
		&recordJSON,
		&s.Plan,
		&s.Template,
		&s.Credits,
		&validUntil,
		&s.EditingField,
		&s.ReminderSent,
		&s.CreatedAt,
		&s.LastInteraction,
	)
	if err != nil {
		return Session{}, err
	}
	if len(recordJSON) > 0 {
		var rec resume.Record
		if err := json.Unmarshal(recordJSON, &rec); err != nil {
			return Session{}, fmt.Errorf("unmarshal record: %w", err)
		}
		s.Record = rec
	}
	if validUntil.Valid {
		t := validUntil.Time
		s.SubscriptionValidUntil = &t
	}
	return s, nil
}
