package delivery

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"cvbot-backend/internal/engine"
	"cvbot-backend/internal/entitlement"
	"cvbot-backend/internal/llm"
	"cvbot-backend/internal/pdfprint"
	"cvbot-backend/internal/render"
	"cvbot-backend/internal/sessions"
	"cvbot-backend/internal/shared/storage/object"
	"cvbot-backend/internal/shared/telemetry"
	"cvbot-backend/internal/zapi"
)

const (
	captionResume   = "Aqui está o seu currículo! 🎉"
	captionResumeEN = "E aqui a versão em inglês! 🌎"

	msgCoverLetterIntro = "Preparei também uma *carta de apresentação* para você usar nas candidaturas:"

	msgInterviewOffer = "Quer que eu mande *perguntas de entrevista* para você treinar? Responda *sim* ou *não*."

	msgNoCredits = "Você não tem mais créditos para gerar um novo currículo 😕\n" +
		"Manda qualquer mensagem que eu te mostro os planos de novo!"

	msgPrimaryFailed = "Tive um problema ao gerar o seu currículo 😕 Seu pagamento está registrado.\n" +
		"Envie o comprovante novamente que eu tento de novo, tá?"
)

// Orchestrator runs one paid delivery end to end: primary resume first, then
// the plan's bonus artifacts, then the credit decrement. Only the primary
// artifact is fatal; every bonus degrades to a logged skip.
type Orchestrator struct {
	Store      *sessions.Store
	Ledger     *entitlement.Ledger
	Sender     zapi.Sender
	Printer    pdfprint.Printer
	Translator llm.Translator
	Generator  llm.Generator
	Objects    object.ObjectStore

	// OperatorPhone receives a copy of premium deliveries for manual review.
	// Empty disables forwarding.
	OperatorPhone string

	Now func() time.Time
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Deliver produces and sends the artifact set for one identity. The session
// must be in the delivering state; anything else means the event is stale and
// is dropped.
func (o *Orchestrator) Deliver(ctx context.Context, identity string) error {
	snap, err := o.Store.View(ctx, identity)
	if err != nil {
		return fmt.Errorf("delivery: load session: %w", err)
	}
	if snap.State != engine.StateDelivering {
		telemetry.Warn("delivery: session not in delivering state, dropping", map[string]any{
			"identity": identity,
			"state":    snap.State,
		})
		return nil
	}
	plan, ok := entitlement.LookupPlan(snap.Plan)
	if !ok || !o.Ledger.CanDeliver(snap) {
		return o.refuse(ctx, identity)
	}

	pdf, err := o.renderPDF(ctx, snap, render.LangPT)
	if err != nil {
		return o.failPrimary(ctx, identity, err)
	}
	if err := o.Sender.SendDocument(ctx, identity, pdf, "curriculo.pdf", captionResume); err != nil {
		return o.failPrimary(ctx, identity, err)
	}
	o.archive(ctx, identity, "curriculo.pdf", pdf)

	if plan.Translation {
		o.sendTranslation(ctx, identity, snap)
	}
	if plan.CoverLetter {
		o.sendCoverLetter(ctx, identity, snap)
	}
	if plan.OperatorReview && o.OperatorPhone != "" {
		o.forwardToOperator(ctx, identity, pdf)
	}

	return o.settle(ctx, identity)
}

func (o *Orchestrator) renderPDF(ctx context.Context, snap sessions.Session, lang render.Language) ([]byte, error) {
	rec := snap.Record
	if lang != render.LangPT {
		translated, err := o.Translator.Translate(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("translate record: %w", err)
		}
		rec = translated
	}
	html, err := render.Render(rec, snap.Template, lang)
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	pdf, err := o.Printer.Print(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return pdf, nil
}

func (o *Orchestrator) sendTranslation(ctx context.Context, identity string, snap sessions.Session) {
	pdf, err := o.renderPDF(ctx, snap, render.LangEN)
	if err != nil {
		telemetry.Warn("delivery: translated resume skipped", map[string]any{
			"identity": identity,
			"error":    err.Error(),
		})
		return
	}
	if err := o.Sender.SendDocument(ctx, identity, pdf, "curriculo-ingles.pdf", captionResumeEN); err != nil {
		telemetry.Warn("delivery: translated resume send failed", map[string]any{
			"identity": identity,
			"error":    err.Error(),
		})
		return
	}
	o.archive(ctx, identity, "curriculo-ingles.pdf", pdf)
}

func (o *Orchestrator) sendCoverLetter(ctx context.Context, identity string, snap sessions.Session) {
	letter, err := o.Generator.CoverLetter(ctx, snap.Record)
	if err != nil || letter == "" {
		telemetry.Warn("delivery: cover letter skipped", map[string]any{
			"identity": identity,
			"error":    errString(err),
		})
		return
	}
	if err := o.Sender.SendText(ctx, identity, msgCoverLetterIntro); err != nil {
		telemetry.Warn("delivery: cover letter intro send failed", map[string]any{
			"identity": identity,
			"error":    err.Error(),
		})
	}
	if err := o.Sender.SendText(ctx, identity, letter); err != nil {
		telemetry.Warn("delivery: cover letter send failed", map[string]any{
			"identity": identity,
			"error":    err.Error(),
		})
	}
}

func (o *Orchestrator) forwardToOperator(ctx context.Context, identity string, pdf []byte) {
	caption := fmt.Sprintf("Revisão: currículo de %s", identity)
	if err := o.Sender.SendDocument(ctx, o.OperatorPhone, pdf, "curriculo.pdf", caption); err != nil {
		telemetry.Warn("delivery: operator forward failed", map[string]any{
			"identity": identity,
			"error":    err.Error(),
		})
	}
}

func (o *Orchestrator) archive(ctx context.Context, identity, fileName string, pdf []byte) {
	if o.Objects == nil {
		return
	}
	key, size, _, err := o.Objects.Save(ctx, identity, fileName, bytes.NewReader(pdf))
	if err != nil {
		telemetry.Warn("delivery: artifact archive failed", map[string]any{
			"identity": identity,
			"file":     fileName,
			"error":    err.Error(),
		})
		return
	}
	telemetry.Info("delivery: artifact archived", map[string]any{
		"identity": identity,
		"key":      key,
		"bytes":    size,
	})
}

// settle decrements the credit and moves the session on. Both happen in one
// locked mutation so a racing duplicate delivery cannot decrement twice: the
// state check inside the lock is the idempotency guard.
func (o *Orchestrator) settle(ctx context.Context, identity string) error {
	var consumed bool
	err := o.Store.Mutate(ctx, identity, func(s *sessions.Session) error {
		if s.State != engine.StateDelivering {
			return nil
		}
		if err := o.Ledger.Consume(s); err != nil {
			telemetry.Error("delivery: credit consume failed after delivery", map[string]any{
				"identity": identity,
				"error":    err.Error(),
			})
		} else {
			consumed = true
		}
		s.State = engine.StateInterviewPrepChoice
		return nil
	})
	if err != nil {
		return fmt.Errorf("delivery: settle session: %w", err)
	}
	telemetry.Info("delivery: completed", map[string]any{
		"identity": identity,
		"consumed": consumed,
	})
	if err := o.Sender.SendText(ctx, identity, msgInterviewOffer); err != nil {
		telemetry.Warn("delivery: interview offer send failed", map[string]any{
			"identity": identity,
			"error":    err.Error(),
		})
	}
	return nil
}

// refuse handles a delivery request with no entitlement: no artifact is
// rendered and the user is pointed back at the plan menu.
func (o *Orchestrator) refuse(ctx context.Context, identity string) error {
	err := o.Store.Mutate(ctx, identity, func(s *sessions.Session) error {
		if s.State == engine.StateDelivering {
			s.State = engine.StateCompleted
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delivery: refuse session: %w", err)
	}
	if err := o.Sender.SendText(ctx, identity, msgNoCredits); err != nil {
		telemetry.Warn("delivery: refusal send failed", map[string]any{
			"identity": identity,
			"error":    err.Error(),
		})
	}
	return nil
}

// failPrimary reverts to awaiting proof so the user can retrigger delivery.
func (o *Orchestrator) failPrimary(ctx context.Context, identity string, cause error) error {
	telemetry.Error("delivery: primary artifact failed", map[string]any{
		"identity": identity,
		"error":    cause.Error(),
	})
	err := o.Store.Mutate(ctx, identity, func(s *sessions.Session) error {
		if s.State == engine.StateDelivering {
			s.State = engine.StateAwaitingPaymentProof
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delivery: revert after failure: %w", err)
	}
	if err := o.Sender.SendText(ctx, identity, msgPrimaryFailed); err != nil {
		telemetry.Warn("delivery: failure notice send failed", map[string]any{
			"identity": identity,
			"error":    err.Error(),
		})
	}
	return cause
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
