package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"cvbot-backend/internal/engine"
	"cvbot-backend/internal/entitlement"
	"cvbot-backend/internal/llm"
	"cvbot-backend/internal/render"
	"cvbot-backend/internal/resume"
	"cvbot-backend/internal/sessions"
)

type sentDoc struct {
	phone    string
	filename string
	caption  string
}

type fakeSender struct {
	texts []string
	docs  []sentDoc
}

func (f *fakeSender) SendText(ctx context.Context, phone, message string) error {
	f.texts = append(f.texts, message)
	return nil
}

func (f *fakeSender) SendImage(ctx context.Context, phone, imageURL, caption string) error {
	return nil
}

func (f *fakeSender) SendDocument(ctx context.Context, phone string, document []byte, filename, caption string) error {
	f.docs = append(f.docs, sentDoc{phone: phone, filename: filename, caption: caption})
	return nil
}

type fakePrinter struct {
	err   error
	calls int
}

func (f *fakePrinter) Print(ctx context.Context, html []byte) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

type identityTranslator struct {
	err error
}

func (f identityTranslator) Translate(ctx context.Context, rec resume.Record) (resume.Record, error) {
	if f.err != nil {
		return resume.Record{}, f.err
	}
	return rec, nil
}

type staticGenerator struct {
	letter string
	err    error
}

func (f staticGenerator) CoverLetter(ctx context.Context, rec resume.Record) (string, error) {
	return f.letter, f.err
}

func (f staticGenerator) InterviewQuestions(ctx context.Context, rec resume.Record) (string, error) {
	return "", llm.ErrUnavailable
}

func seedSession(t *testing.T, repo *sessions.MemoryRepo, plan string, credits int) string {
	t.Helper()
	identity := "5511988887777"
	s := sessions.New(identity, time.Now())
	s.State = engine.StateDelivering
	s.Plan = plan
	s.Credits = credits
	s.Template = render.TemplateClassic
	s.Record.Nome = resume.Provide("Carlos Silva")
	s.Record.Formacao = resume.Provide("Logística, Senac")
	if plan == entitlement.PlanIlimitado {
		until := time.Now().Add(29 * 24 * time.Hour)
		s.SubscriptionValidUntil = &until
	}
	if err := repo.Save(context.Background(), s); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return identity
}

func newOrchestrator(repo *sessions.MemoryRepo, sender *fakeSender, printer *fakePrinter) *Orchestrator {
	store := sessions.NewStore(repo)
	return &Orchestrator{
		Store:      store,
		Ledger:     entitlement.NewLedger(store),
		Sender:     sender,
		Printer:    printer,
		Translator: identityTranslator{},
		Generator:  staticGenerator{letter: "Prezados, ..."},
	}
}

func TestDeliverBasicSendsResumeAndConsumesCredit(t *testing.T) {
	repo := sessions.NewMemoryRepo()
	sender := &fakeSender{}
	o := newOrchestrator(repo, sender, &fakePrinter{})
	identity := seedSession(t, repo, entitlement.PlanBasico, 1)

	if err := o.Deliver(context.Background(), identity); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	if len(sender.docs) != 1 || sender.docs[0].filename != "curriculo.pdf" {
		t.Fatalf("docs = %+v, want one curriculo.pdf", sender.docs)
	}
	s, _ := repo.Get(context.Background(), identity)
	if s.State != engine.StateInterviewPrepChoice {
		t.Fatalf("state = %q, want %q", s.State, engine.StateInterviewPrepChoice)
	}
	if s.Credits != 0 {
		t.Fatalf("credits = %d, want 0", s.Credits)
	}
}

func TestDeliverIsIdempotentAcrossDuplicates(t *testing.T) {
	repo := sessions.NewMemoryRepo()
	sender := &fakeSender{}
	o := newOrchestrator(repo, sender, &fakePrinter{})
	identity := seedSession(t, repo, entitlement.PlanBasico, 1)

	if err := o.Deliver(context.Background(), identity); err != nil {
		t.Fatalf("first deliver: %v", err)
	}
	if err := o.Deliver(context.Background(), identity); err != nil {
		t.Fatalf("duplicate deliver: %v", err)
	}

	if len(sender.docs) != 1 {
		t.Fatalf("docs = %d, want duplicate dropped", len(sender.docs))
	}
	s, _ := repo.Get(context.Background(), identity)
	if s.Credits != 0 {
		t.Fatalf("credits = %d, want exactly one decrement", s.Credits)
	}
}

func TestDeliverPremiumIncludesBonusArtifacts(t *testing.T) {
	repo := sessions.NewMemoryRepo()
	sender := &fakeSender{}
	o := newOrchestrator(repo, sender, &fakePrinter{})
	o.OperatorPhone = "5511900001111"
	identity := seedSession(t, repo, entitlement.PlanPremium, 1)

	if err := o.Deliver(context.Background(), identity); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	var primary, translated, operator bool
	for _, d := range sender.docs {
		switch {
		case d.filename == "curriculo-ingles.pdf":
			translated = true
		case d.phone == o.OperatorPhone:
			operator = true
		case d.filename == "curriculo.pdf":
			primary = true
		}
	}
	if !primary || !translated || !operator {
		t.Fatalf("docs = %+v, want primary, translation and operator copy", sender.docs)
	}
	var coverLetter bool
	for _, msg := range sender.texts {
		if msg == "Prezados, ..." {
			coverLetter = true
		}
	}
	if !coverLetter {
		t.Fatalf("texts = %v, want cover letter", sender.texts)
	}
}

func TestDeliverBonusFailureDoesNotBlockSettlement(t *testing.T) {
	repo := sessions.NewMemoryRepo()
	sender := &fakeSender{}
	o := newOrchestrator(repo, sender, &fakePrinter{})
	o.Translator = identityTranslator{err: errors.New("translator down")}
	o.Generator = staticGenerator{err: llm.ErrUnavailable}
	identity := seedSession(t, repo, entitlement.PlanPremium, 1)

	if err := o.Deliver(context.Background(), identity); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	if len(sender.docs) != 1 {
		t.Fatalf("docs = %+v, want only the primary resume", sender.docs)
	}
	s, _ := repo.Get(context.Background(), identity)
	if s.State != engine.StateInterviewPrepChoice || s.Credits != 0 {
		t.Fatalf("state = %q credits = %d, want settled delivery", s.State, s.Credits)
	}
}

func TestDeliverRefusesWithoutCredits(t *testing.T) {
	repo := sessions.NewMemoryRepo()
	sender := &fakeSender{}
	printer := &fakePrinter{}
	o := newOrchestrator(repo, sender, printer)
	identity := seedSession(t, repo, entitlement.PlanBasico, 0)

	if err := o.Deliver(context.Background(), identity); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	if printer.calls != 0 || len(sender.docs) != 0 {
		t.Fatal("nothing may be rendered or sent without entitlement")
	}
	s, _ := repo.Get(context.Background(), identity)
	if s.State != engine.StateCompleted {
		t.Fatalf("state = %q, want %q", s.State, engine.StateCompleted)
	}
}

func TestDeliverUnlimitedKeepsSubscription(t *testing.T) {
	repo := sessions.NewMemoryRepo()
	sender := &fakeSender{}
	o := newOrchestrator(repo, sender, &fakePrinter{})
	identity := seedSession(t, repo, entitlement.PlanIlimitado, 0)

	if err := o.Deliver(context.Background(), identity); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	s, _ := repo.Get(context.Background(), identity)
	if s.State != engine.StateInterviewPrepChoice {
		t.Fatalf("state = %q, want %q", s.State, engine.StateInterviewPrepChoice)
	}
	if s.SubscriptionValidUntil == nil {
		t.Fatal("subscription window must survive delivery")
	}
}

func TestDeliverPrimaryFailureRevertsSession(t *testing.T) {
	repo := sessions.NewMemoryRepo()
	sender := &fakeSender{}
	o := newOrchestrator(repo, sender, &fakePrinter{err: errors.New("chrome crashed")})
	identity := seedSession(t, repo, entitlement.PlanBasico, 1)

	err := o.Deliver(context.Background(), identity)
	if err == nil {
		t.Fatal("deliver should surface the primary failure")
	}

	s, _ := repo.Get(context.Background(), identity)
	if s.State != engine.StateAwaitingPaymentProof {
		t.Fatalf("state = %q, want reverted to %q", s.State, engine.StateAwaitingPaymentProof)
	}
	if s.Credits != 1 {
		t.Fatalf("credits = %d, want untouched", s.Credits)
	}
	if len(sender.docs) != 0 {
		t.Fatalf("docs = %+v, want none", sender.docs)
	}
}

func TestMessageCodecRejectsMissingIdentity(t *testing.T) {
	if _, err := DecodeMessage(`{"identity":""}`); err == nil {
		t.Fatal("expected error for missing identity")
	}
	body, err := EncodeMessage("5511999990000")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	m, err := DecodeMessage(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Identity != "5511999990000" {
		t.Fatalf("identity = %q", m.Identity)
	}
}
