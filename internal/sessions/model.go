package sessions

import (
	"time"

	"cvbot-backend/internal/resume"
)

// Session is the durable per-conversant record. The identity (phone number)
// is the primary key; the engine is the only writer.
type Session struct {
	Identity               string        `json:"identity"`
	State                  string        `json:"state"`
	Record                 resume.Record `json:"record"`
	Plan                   string        `json:"plan"`
	Template               string        `json:"template"`
	Credits                int           `json:"credits"`
	SubscriptionValidUntil *time.Time    `json:"subscriptionValidUntil,omitempty"`
	EditingField           string        `json:"editingField,omitempty"`
	ReminderSent           bool          `json:"reminderSent"`
	CreatedAt              time.Time     `json:"createdAt"`
	LastInteraction        time.Time     `json:"lastInteraction"`
}

// InitialState is the state assigned to a freshly created session.
const InitialState = "welcome"

// New returns a fresh session for an unknown identity.
func New(identity string, now time.Time) Session {
	return Session{
		Identity:        identity,
		State:           InitialState,
		CreatedAt:       now.UTC(),
		LastInteraction: now.UTC(),
	}
}

// Reset clears collected data and entitlement but keeps the identity row so
// idle-sweep bookkeeping survives a restart of the conversation.
func (s *Session) Reset(now time.Time) {
	s.State = InitialState
	s.Record = resume.Record{}
	s.Plan = ""
	s.Template = ""
	s.Credits = 0
	s.SubscriptionValidUntil = nil
	s.EditingField = ""
	s.ReminderSent = false
	s.LastInteraction = now.UTC()
}

// HasActiveSubscription reports whether the session carries a subscription
// valid at the given instant.
func (s Session) HasActiveSubscription(now time.Time) bool {
	return s.SubscriptionValidUntil != nil && s.SubscriptionValidUntil.After(now)
}
