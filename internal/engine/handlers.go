package engine

import (
	"context"
	"fmt"
	"strconv"

	"cvbot-backend/internal/entitlement"
	"cvbot-backend/internal/render"
	"cvbot-backend/internal/resume"
	"cvbot-backend/internal/sessions"
	"cvbot-backend/internal/shared/telemetry"
)

var handlers = buildHandlers()

func buildHandlers() map[string]handlerFunc {
	m := map[string]handlerFunc{
		StateWelcome:              handleWelcome,
		StatePlanChoice:           handlePlanChoice,
		StateTemplateChoice:       handleTemplateChoice,
		StateExpCargo:             handleExpCargo,
		StateExpEmpresa:           handleExpEmpresa,
		StateExpPeriodo:           handleExpPeriodo,
		StateExpDescricao:         handleExpDescricao,
		StateExpAnother:           handleExpAnother,
		StateImproveChoice:        handleImproveChoice,
		StateReviewMenu:           handleReviewMenu,
		StateCorrectionInput:      handleCorrectionInput,
		StateAwaitingPaymentProof: handleAwaitingProof,
		StateDelivering:           handleDelivering,
		StateInterviewPrepChoice:  handleInterviewPrep,
		StateCompleted:            handleCompleted,
	}
	for _, spec := range collectCascade {
		m[spec.state] = handleCollect
	}
	return m
}

func handleWelcome(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error {
	fx.text(msgWelcome)
	fx.text(msgPlanMenu)
	s.State = StatePlanChoice
	return nil
}

func handlePlanChoice(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error {
	plan, ok := planFromInput(ev.Text)
	if !ok {
		fx.text(msgPlanRetry)
		return nil
	}
	e.Ledger.Grant(s, plan)
	fx.text(planConfirmation(plan))
	e.templateGallery(fx)
	s.State = StateTemplateChoice
	return nil
}

func planFromInput(text string) (entitlement.Plan, bool) {
	var id string
	switch normalizeInput(text) {
	case "1", "basico", "básico":
		id = entitlement.PlanBasico
	case "2", "premium":
		id = entitlement.PlanPremium
	case "3", "ilimitado":
		id = entitlement.PlanIlimitado
	default:
		return entitlement.Plan{}, false
	}
	return entitlement.LookupPlan(id)
}

func (e *Engine) templateGallery(fx *effects) {
	fx.text(msgTemplateMenu)
	for _, id := range []string{render.TemplateClassic, render.TemplateSidebar, render.TemplateCreative} {
		caption := fmt.Sprintf("*%s* - %s", id, render.TemplateName(id))
		if url := e.TemplateImages[id]; url != "" {
			fx.image(url, caption)
		} else {
			fx.text(caption)
		}
	}
}

func handleTemplateChoice(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error {
	switch normalizeInput(ev.Text) {
	case render.TemplateClassic, render.TemplateSidebar, render.TemplateCreative:
	default:
		fx.text(msgTemplateRetry)
		return nil
	}
	s.Template = normalizeInput(ev.Text)
	fx.text(templateConfirmation(s.Template))
	s.State = StateCollectNome
	fx.text(questionForState(StateCollectNome))
	return nil
}

// handleCollect serves every state of the collection cascade via the field
// table.
func handleCollect(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error {
	spec, ok := cascadeByState[s.State]
	if !ok {
		return ErrNoHandler
	}
	if spec.list {
		return collectList(e, s, ev, spec, fx)
	}
	if spec.skippable && isSkip(ev.Text) {
		s.Record.SetScalar(spec.key, resume.Skipped())
		advance(s, fx, spec.next)
		return nil
	}
	value := e.extract(ctx, spec.question, ev.Text, spec.normalize)
	if value == "" {
		fx.text(spec.question)
		return nil
	}
	if spec.validate != nil && !spec.validate(value) {
		fx.text(msgEmailInvalid)
		return nil
	}
	s.Record.SetScalar(spec.key, resume.Provide(value))
	advance(s, fx, spec.next)
	return nil
}

func collectList(e *Engine, s *sessions.Session, ev Event, spec fieldSpec, fx *effects) error {
	switch {
	case isDone(ev.Text):
		advance(s, fx, spec.next)
	case spec.skippable && isSkip(ev.Text):
		advance(s, fx, spec.next)
	case trimAnswer(ev.Text) == "":
		fx.text(spec.question)
	default:
		s.Record.AppendList(spec.key, ev.Text)
		fx.text(msgListAck)
	}
	return nil
}

func advance(s *sessions.Session, fx *effects, next string) {
	s.State = next
	if q := questionForState(next); q != "" {
		fx.text(q)
	}
}

// extract runs the answer through the extractor; when the extractor is down
// or returns nothing usable the raw answer is kept, optionally cleaned by the
// field's local normalizer. Collection never blocks on the model.
func (e *Engine) extract(ctx context.Context, question, raw string, normalize func(string) string) string {
	raw = trimAnswer(raw)
	if raw == "" {
		return ""
	}
	value, err := e.Extractor.Extract(ctx, question, raw)
	if err != nil || trimAnswer(value) == "" {
		if err != nil {
			telemetry.Warn("engine: extractor degraded, keeping raw answer", map[string]any{
				"error": err.Error(),
			})
		}
		value = raw
		if normalize != nil {
			value = normalize(raw)
		}
	}
	return trimAnswer(value)
}

func handleExpCargo(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error {
	if isSkip(ev.Text) {
		s.Record.Draft = nil
		gotoReview(s, fx)
		return nil
	}
	value := e.extract(ctx, promptExpCargo, ev.Text, nil)
	if value == "" {
		fx.text(promptExpCargo)
		return nil
	}
	s.Record.Draft = &resume.Experience{Cargo: value}
	s.State = StateExpEmpresa
	fx.text(promptExpEmpresa)
	return nil
}

func handleExpEmpresa(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error {
	value := e.extract(ctx, promptExpEmpresa, ev.Text, nil)
	if value == "" {
		fx.text(promptExpEmpresa)
		return nil
	}
	ensureDraft(s).Empresa = value
	s.State = StateExpPeriodo
	fx.text(promptExpPeriodo)
	return nil
}

func handleExpPeriodo(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error {
	value := e.extract(ctx, promptExpPeriodo, ev.Text, nil)
	if value == "" {
		fx.text(promptExpPeriodo)
		return nil
	}
	ensureDraft(s).Periodo = value
	s.State = StateExpDescricao
	fx.text(promptExpDescricao)
	return nil
}

func handleExpDescricao(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error {
	value := e.extract(ctx, promptExpDescricao, ev.Text, nil)
	if value == "" {
		fx.text(promptExpDescricao)
		return nil
	}
	draft := ensureDraft(s)
	draft.Descricao = value
	s.Record.AddExperience(*draft)
	s.Record.Draft = nil
	s.State = StateExpAnother
	fx.text(msgAnotherExperience)
	return nil
}

func ensureDraft(s *sessions.Session) *resume.Experience {
	if s.Record.Draft == nil {
		s.Record.Draft = &resume.Experience{}
	}
	return s.Record.Draft
}

func handleExpAnother(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error {
	if isYes(ev.Text) {
		s.State = StateExpCargo
		fx.text(promptExpCargo)
		return nil
	}
	s.State = StateImproveChoice
	fx.text(msgImproveChoice)
	return nil
}

func handleImproveChoice(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error {
	if isYes(ev.Text) && len(s.Record.Experiencias) > 0 {
		if err := e.improveDescriptions(ctx, s); err != nil {
			telemetry.Warn("engine: description rewrite degraded", map[string]any{
				"identity": s.Identity,
				"error":    err.Error(),
			})
			fx.text(msgImproveFailed)
		} else {
			fx.text(msgImproveDone)
		}
	}
	gotoReview(s, fx)
	return nil
}

func (e *Engine) improveDescriptions(ctx context.Context, s *sessions.Session) error {
	for i, exp := range s.Record.Experiencias {
		improved, err := e.Rewriter.Rewrite(ctx, exp.Descricao)
		if err != nil {
			return err
		}
		if trimAnswer(improved) != "" {
			s.Record.Experiencias[i].Descricao = trimAnswer(improved)
		}
	}
	return nil
}

func gotoReview(s *sessions.Session, fx *effects) {
	s.State = StateReviewMenu
	fx.text(reviewMenu(s.Record))
}

func handleReviewMenu(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error {
	input := normalizeInput(ev.Text)
	if input == "finalizar" {
		return e.finalize(s, fx)
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(reviewFields) {
		fx.text(reviewMenu(s.Record))
		return nil
	}
	key := reviewFields[n-1]
	if key == resume.KeyExperiencias {
		s.Record.Experiencias = nil
		s.Record.Draft = nil
		s.Record.Cargo = resume.Field{}
		s.State = StateExpCargo
		fx.text(msgExperienceRedo)
		fx.text(promptExpCargo)
		return nil
	}
	s.EditingField = key
	s.State = StateCorrectionInput
	fx.text(fmt.Sprintf(msgCorrectionPrompt, reviewLabels[key]))
	return nil
}

func (e *Engine) finalize(s *sessions.Session, fx *effects) error {
	plan, ok := entitlement.LookupPlan(s.Plan)
	if !ok {
		s.State = StatePlanChoice
		fx.text(msgPlanMenu)
		return nil
	}
	if plan.Unlimited() && s.HasActiveSubscription(e.now()) {
		s.State = StateDelivering
		fx.text(msgDeliveryStarted)
		fx.dispatch = true
		return nil
	}
	code, err := e.Codes.Generate(plan.Price, "Curriculo "+plan.ID)
	if err != nil {
		telemetry.Error("engine: pix code generation failed", map[string]any{
			"identity": s.Identity,
			"error":    err.Error(),
		})
		fx.text(msgPixFailed)
		return nil
	}
	s.State = StateAwaitingPaymentProof
	fx.text(paymentInstructions(plan, code))
	return nil
}

func handleCorrectionInput(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error {
	key := s.EditingField
	if key == "" {
		gotoReview(s, fx)
		return nil
	}
	if key == resume.KeyHabilidades || key == resume.KeyCursos {
		s.Record.SetList(key, ev.Text)
		s.EditingField = ""
		gotoReview(s, fx)
		return nil
	}
	spec, _ := correctionField(key)
	if spec.skippable && isSkip(ev.Text) {
		s.Record.SetScalar(key, resume.Skipped())
		s.EditingField = ""
		gotoReview(s, fx)
		return nil
	}
	value := e.extract(ctx, spec.question, ev.Text, spec.normalize)
	if value == "" {
		fx.text(fmt.Sprintf(msgCorrectionPrompt, reviewLabels[key]))
		return nil
	}
	if spec.validate != nil && !spec.validate(value) {
		fx.text(msgEmailInvalid)
		return nil
	}
	s.Record.SetScalar(key, resume.Provide(value))
	s.EditingField = ""
	gotoReview(s, fx)
	return nil
}

func handleAwaitingProof(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error {
	if ev.ImageURL == "" {
		fx.text(msgProofNotImage)
		return nil
	}
	verified, err := e.Verifier.VerifyReceipt(ctx, ev.ImageURL)
	if err != nil {
		telemetry.Warn("engine: receipt verification unavailable", map[string]any{
			"identity": s.Identity,
			"error":    err.Error(),
		})
		fx.text(msgProofRetry)
		return nil
	}
	if !verified {
		fx.text(msgProofRejected)
		return nil
	}
	e.Ledger.Activate(s)
	s.State = StateDelivering
	fx.text(msgDeliveryStarted)
	fx.dispatch = true
	return nil
}

// handleDelivering swallows input while the pipeline runs. The pipeline moves
// the session forward when it finishes.
func handleDelivering(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error {
	telemetry.Info("engine: message ignored during delivery", map[string]any{
		"identity": s.Identity,
	})
	return nil
}

func handleInterviewPrep(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error {
	if isYes(ev.Text) {
		questions, err := e.Generator.InterviewQuestions(ctx, s.Record)
		if err != nil || trimAnswer(questions) == "" {
			if err != nil {
				telemetry.Warn("engine: interview prep unavailable", map[string]any{
					"identity": s.Identity,
					"error":    err.Error(),
				})
			}
			fx.text(msgInterviewUnavailable)
		} else {
			fx.text(questions)
			fx.text(msgCompletedFarewell)
		}
	} else {
		fx.text(msgInterviewDeclined)
	}
	s.State = StateCompleted
	return nil
}

func handleCompleted(e *Engine, ctx context.Context, s *sessions.Session, ev Event, fx *effects) error {
	if plan, ok := entitlement.LookupPlan(s.Plan); ok && plan.Unlimited() && s.HasActiveSubscription(e.now()) {
		s.Record = resume.Record{}
		s.Template = ""
		s.EditingField = ""
		s.State = StateTemplateChoice
		fx.text(msgSubscriptionRestart)
		e.templateGallery(fx)
		return nil
	}
	s.Reset(e.now())
	fx.text(msgWelcome)
	fx.text(msgPlanMenu)
	s.State = StatePlanChoice
	return nil
}
