package entitlement

import (
	"errors"
	"testing"
	"time"

	"cvbot-backend/internal/sessions"
)

func newLedgerAt(now time.Time) *Ledger {
	l := NewLedger(sessions.NewStore(sessions.NewMemoryRepo()))
	l.Now = func() time.Time { return now }
	return l
}

func TestGrantConsumableSetsCredits(t *testing.T) {
	l := newLedgerAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s := sessions.New("x", l.Now())

	plan, _ := LookupPlan(PlanBasico)
	l.Grant(&s, plan)

	if s.Plan != PlanBasico || s.Credits != 1 {
		t.Fatalf("session = %+v, want basico with 1 credit", s)
	}
	if s.SubscriptionValidUntil != nil {
		t.Fatal("consumable plans carry no subscription window")
	}
}

func TestGrantUnlimitedDoesNotOpenWindow(t *testing.T) {
	l := newLedgerAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s := sessions.New("x", l.Now())

	plan, _ := LookupPlan(PlanIlimitado)
	l.Grant(&s, plan)

	if s.SubscriptionValidUntil != nil {
		t.Fatal("window must open only after payment activation")
	}
	if l.CanDeliver(s) {
		t.Fatal("unpaid unlimited plan must not be deliverable")
	}
}

func TestActivateOpensSubscriptionWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := newLedgerAt(now)
	s := sessions.New("x", now)
	plan, _ := LookupPlan(PlanIlimitado)
	l.Grant(&s, plan)

	l.Activate(&s)

	if s.SubscriptionValidUntil == nil {
		t.Fatal("activation must open the window")
	}
	want := now.Add(30 * 24 * time.Hour)
	if !s.SubscriptionValidUntil.Equal(want) {
		t.Fatalf("valid until = %v, want %v", s.SubscriptionValidUntil, want)
	}
	if !l.CanDeliver(s) {
		t.Fatal("activated subscription must be deliverable")
	}
}

func TestActivateIsNoopForConsumablePlans(t *testing.T) {
	l := newLedgerAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s := sessions.New("x", l.Now())
	plan, _ := LookupPlan(PlanPremium)
	l.Grant(&s, plan)

	l.Activate(&s)

	if s.SubscriptionValidUntil != nil {
		t.Fatal("consumable plans never get a window")
	}
}

func TestConsumeDecrementsExactlyOnce(t *testing.T) {
	l := newLedgerAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s := sessions.New("x", l.Now())
	plan, _ := LookupPlan(PlanBasico)
	l.Grant(&s, plan)

	if err := l.Consume(&s); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if s.Credits != 0 {
		t.Fatalf("credits = %d, want 0", s.Credits)
	}
	if err := l.Consume(&s); !errors.Is(err, ErrNoCredits) {
		t.Fatalf("err = %v, want ErrNoCredits, credits = %d", err, s.Credits)
	}
	if s.Credits != 0 {
		t.Fatalf("credits = %d, must never go negative", s.Credits)
	}
}

func TestConsumeUnlimitedWithinWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := newLedgerAt(now)
	s := sessions.New("x", now)
	plan, _ := LookupPlan(PlanIlimitado)
	l.Grant(&s, plan)
	l.Activate(&s)

	for i := 0; i < 5; i++ {
		if err := l.Consume(&s); err != nil {
			t.Fatalf("consume %d: %v", i, err)
		}
	}
	if s.Credits != 0 {
		t.Fatalf("credits = %d, unlimited must not touch credits", s.Credits)
	}
}

func TestConsumeUnlimitedAfterExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := newLedgerAt(now)
	s := sessions.New("x", now)
	plan, _ := LookupPlan(PlanIlimitado)
	l.Grant(&s, plan)
	l.Activate(&s)

	l.Now = func() time.Time { return now.Add(31 * 24 * time.Hour) }
	if err := l.Consume(&s); !errors.Is(err, ErrNoCredits) {
		t.Fatalf("err = %v, want ErrNoCredits after expiry", err)
	}
}

func TestCanDeliverUnknownPlan(t *testing.T) {
	l := newLedgerAt(time.Now())
	s := sessions.New("x", time.Now())
	s.Credits = 5

	if l.CanDeliver(s) {
		t.Fatal("sessions without a known plan are never deliverable")
	}
}
