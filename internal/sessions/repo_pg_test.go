package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"cvbot-backend/internal/resume"
)

func sessionColumns() []string {
	return []string{
		"identity", "state", "record", "plan", "template", "credits",
		"subscription_valid_until", "editing_field", "reminder_sent",
		"created_at", "last_interaction",
	}
}

func TestPGRepoGetScansRecordJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rec := resume.Record{Nome: resume.Provide("Carlos Silva")}
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT identity, state, record").
		WithArgs("5511999990000").
		WillReturnRows(sqlmock.NewRows(sessionColumns()).AddRow(
			"5511999990000", "review_menu", recordJSON, "basico", "1", 1,
			nil, "", false, now, now,
		))

	repo := &PGRepo{DB: db}
	s, err := repo.Get(context.Background(), "5511999990000")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.State != "review_menu" || s.Credits != 1 {
		t.Fatalf("session = %+v", s)
	}
	if got := s.Record.Nome.Or(""); got != "Carlos Silva" {
		t.Fatalf("nome = %q, want decoded record", got)
	}
	if s.SubscriptionValidUntil != nil {
		t.Fatal("nil subscription column must stay nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetMissingMapsToErrNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT identity, state, record").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(sessionColumns()))

	repo := &PGRepo{DB: db}
	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoSaveUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s := New("5511999990000", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.State = "awaiting_payment_proof"
	s.Plan = "premium"
	s.Template = "2"
	s.Credits = 1

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(
			s.Identity,
			s.State,
			sqlmock.AnyArg(), // record json
			s.Plan,
			s.Template,
			s.Credits,
			sqlmock.AnyArg(), // subscription_valid_until
			s.EditingField,
			s.ReminderSent,
			s.CreatedAt,
			s.LastInteraction,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Save(context.Background(), s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkRemindedMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("UPDATE sessions SET reminder_sent").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	if err := repo.MarkReminded(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoListIdleExcludesTerminalStates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-24 * time.Hour)
	recordJSON, _ := json.Marshal(resume.Record{})

	mock.ExpectQuery("SELECT identity, state, record").
		WithArgs(InitialState, CompletedState, cutoff).
		WillReturnRows(sqlmock.NewRows(sessionColumns()).AddRow(
			"stale", "collect_nome", recordJSON, "basico", "1", 1,
			nil, "", false, now.Add(-48*time.Hour), now.Add(-48*time.Hour),
		))

	repo := &PGRepo{DB: db}
	idle, err := repo.ListIdle(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("ListIdle: %v", err)
	}
	if len(idle) != 1 || idle[0].Identity != "stale" {
		t.Fatalf("idle = %+v", idle)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
