package engine

import (
	"context"
	"errors"
	"time"

	"cvbot-backend/internal/entitlement"
	"cvbot-backend/internal/llm"
	"cvbot-backend/internal/payment"
	"cvbot-backend/internal/sessions"
	"cvbot-backend/internal/shared/telemetry"
	"cvbot-backend/internal/zapi"
)

// Event is one normalized inbound WhatsApp message.
type Event struct {
	Identity string
	Text     string
	ImageURL string
}

// Dispatcher hands a paid session to the delivery pipeline. The engine does
// not wait for delivery; the pipeline reports back by mutating the session.
type Dispatcher interface {
	Dispatch(ctx context.Context, identity string) error
}

// Engine drives the conversation state machine. All session mutation happens
// inside Store.Mutate, so there is exactly one writer per identity.
type Engine struct {
	Store     *sessions.Store
	Ledger    *entitlement.Ledger
	Sender    zapi.Sender
	Extractor llm.Extractor
	Rewriter  llm.Rewriter
	Verifier  llm.ReceiptVerifier
	Generator llm.Generator
	Codes     payment.CodeGenerator
	Delivery  Dispatcher

	// TemplateImages maps a template ID to a preview image URL for the
	// gallery message. Missing entries degrade to text-only previews.
	TemplateImages map[string]string

	Now func() time.Time
}

// New wires an Engine with the given collaborators.
func New(store *sessions.Store, ledger *entitlement.Ledger, sender zapi.Sender) *Engine {
	return &Engine{
		Store:     store,
		Ledger:    ledger,
		Sender:    sender,
		Extractor: llm.Placeholder{},
		Rewriter:  llm.Placeholder{},
		Verifier:  llm.Placeholder{},
		Generator: llm.Placeholder{},
		Now:       time.Now,
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// outbound is one queued reply; replies are sent in order after the session
// mutation commits.
type outbound struct {
	imageURL string
	caption  string
	text     string
}

// effects collects what a handler wants to happen after the mutation is
// durably saved.
type effects struct {
	messages []outbound
	dispatch bool
}

func (fx *effects) text(msg string) {
	fx.messages = append(fx.messages, outbound{text: msg})
}

func (fx *effects) image(url, caption string) {
	fx.messages = append(fx.messages, outbound{imageURL: url, caption: caption})
}

func (fx *effects) reset() {
	fx.messages = nil
	fx.dispatch = false
}

type handlerFunc func(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error

// HandleEvent processes one inbound message end to end: reset keywords first,
// then the handler for the current state. Unknown states log a protocol error
// and answer with a fallback prompt without touching the session.
func (e *Engine) HandleEvent(ctx context.Context, ev Event) error {
	var fx effects
	err := e.Store.Mutate(ctx, ev.Identity, func(s *sessions.Session) error {
		fx.reset()
		if ev.ImageURL == "" && isReset(ev.Text) {
			s.Reset(e.now())
			fx.text(msgReset)
			return nil
		}
		h, ok := handlers[s.State]
		if !ok {
			return ErrNoHandler
		}
		return h(e, ctx, s, ev, &fx)
	})
	if errors.Is(err, ErrNoHandler) {
		telemetry.Error("engine: no handler for session state", map[string]any{
			"identity": ev.Identity,
		})
		fx.reset()
		fx.text(msgFallback)
		err = nil
	}
	if err != nil {
		return err
	}
	e.send(ctx, ev.Identity, fx.messages)
	if fx.dispatch {
		e.dispatchDelivery(ctx, ev.Identity)
	}
	return nil
}

// send pushes queued replies in order. A transport failure is logged and the
// remaining replies are still attempted; the session state already committed.
func (e *Engine) send(ctx context.Context, identity string, messages []outbound) {
	for _, m := range messages {
		var err error
		if m.imageURL != "" {
			err = e.Sender.SendImage(ctx, identity, m.imageURL, m.caption)
		} else {
			err = e.Sender.SendText(ctx, identity, m.text)
		}
		if err != nil {
			telemetry.Error("engine: send failed", map[string]any{
				"identity": identity,
				"error":    err.Error(),
			})
		}
	}
}

// dispatchDelivery hands the session to the pipeline. When the handoff fails
// the session is moved back to awaiting proof so the user can retry instead
// of being stuck in delivering forever.
func (e *Engine) dispatchDelivery(ctx context.Context, identity string) {
	if e.Delivery == nil {
		telemetry.Error("engine: no delivery dispatcher wired", map[string]any{"identity": identity})
		return
	}
	err := e.Delivery.Dispatch(ctx, identity)
	if err == nil {
		return
	}
	telemetry.Error("engine: delivery dispatch failed", map[string]any{
		"identity": identity,
		"error":    err.Error(),
	})
	revertErr := e.Store.Mutate(ctx, identity, func(s *sessions.Session) error {
		if s.State == StateDelivering {
			s.State = StateAwaitingPaymentProof
		}
		return nil
	})
	if revertErr != nil {
		telemetry.Error("engine: revert after dispatch failure failed", map[string]any{
			"identity": identity,
			"error":    revertErr.Error(),
		})
		return
	}
	e.send(ctx, identity, []outbound{{text: msgProofRetry}})
}
