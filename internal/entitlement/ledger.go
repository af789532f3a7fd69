package entitlement

import (
	"context"
	"errors"
	"time"

	"cvbot-backend/internal/sessions"
)

// ErrNoCredits indicates delivery was refused before any artifact was
// rendered: the plan is consumable and the session has no credit left.
var ErrNoCredits = errors.New("no delivery credits remaining")

// Plan is a service tier. It determines price, the artifact set a delivery
// produces, and whether delivery consumes a credit.
type Plan struct {
	ID             string
	Name           string
	Price          float64
	Credits        int
	Subscription   time.Duration
	Translation    bool
	CoverLetter    bool
	OperatorReview bool
}

// Service tiers.
const (
	PlanBasico    = "basico"
	PlanPremium   = "premium"
	PlanIlimitado = "ilimitado"
)

var plans = map[string]Plan{
	PlanBasico: {
		ID:      PlanBasico,
		Name:    "Básico",
		Price:   5.99,
		Credits: 1,
	},
	PlanPremium: {
		ID:             PlanPremium,
		Name:           "Premium",
		Price:          10.99,
		Credits:        1,
		Translation:    true,
		CoverLetter:    true,
		OperatorReview: true,
	},
	PlanIlimitado: {
		ID:             PlanIlimitado,
		Name:           "Ilimitado",
		Price:          29.90,
		Subscription:   30 * 24 * time.Hour,
		Translation:    true,
		CoverLetter:    true,
		OperatorReview: true,
	},
}

// LookupPlan returns a plan by ID.
func LookupPlan(id string) (Plan, bool) {
	p, ok := plans[id]
	return p, ok
}

// Unlimited reports whether the plan is the subscription tier.
func (p Plan) Unlimited() bool {
	return p.Subscription > 0
}

// Ledger gates delivery on credits or subscription validity. It reads and
// writes entitlement data on the session record through the locked store.
type Ledger struct {
	Store *sessions.Store
	Now   func() time.Time
}

// NewLedger creates a Ledger over the session store.
func NewLedger(store *sessions.Store) *Ledger {
	return &Ledger{Store: store, Now: time.Now}
}

// Grant applies a plan choice to the session: sets the plan and the initial
// credits. The subscription window of the unlimited tier is NOT opened here;
// that happens in Activate once payment is confirmed, otherwise picking the
// plan would be enough to skip the payment gate.
func (l *Ledger) Grant(s *sessions.Session, plan Plan) {
	s.Plan = plan.ID
	s.Credits = plan.Credits
	s.SubscriptionValidUntil = nil
}

// Activate opens the subscription window after a verified payment. Consumable
// plans need no activation; their credits were set at Grant time.
func (l *Ledger) Activate(s *sessions.Session) {
	plan, ok := LookupPlan(s.Plan)
	if !ok || !plan.Unlimited() {
		return
	}
	until := l.Now().UTC().Add(plan.Subscription)
	s.SubscriptionValidUntil = &until
}

// CanDeliver reports whether the session is entitled to one delivery.
func (l *Ledger) CanDeliver(s sessions.Session) bool {
	plan, ok := LookupPlan(s.Plan)
	if !ok {
		return false
	}
	if plan.Unlimited() {
		return s.HasActiveSubscription(l.Now())
	}
	return s.Credits >= 1
}

// Consume decrements exactly one credit for consumable plans. Unlimited plans
// with a valid subscription consume nothing. Credits never go negative.
func (l *Ledger) Consume(s *sessions.Session) error {
	plan, ok := LookupPlan(s.Plan)
	if !ok {
		return ErrNoCredits
	}
	if plan.Unlimited() {
		if !s.HasActiveSubscription(l.Now()) {
			return ErrNoCredits
		}
		return nil
	}
	if s.Credits < 1 {
		return ErrNoCredits
	}
	s.Credits--
	return nil
}

// Remaining returns the credits left, for operator-facing logs.
func (l *Ledger) Remaining(ctx context.Context, identity string) (int, error) {
	s, err := l.Store.View(ctx, identity)
	if err != nil {
		return 0, err
	}
	return s.Credits, nil
}
