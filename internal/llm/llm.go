package llm

import (
	"context"
	"errors"

	"cvbot-backend/internal/resume"
)

// ErrUnavailable is returned when a collaborator is not configured or could
// not produce a usable answer. Callers degrade per their own contract and
// never surface this to the conversant as raw error text.
var ErrUnavailable = errors.New("llm collaborator unavailable")

// Extractor normalizes a free-form answer into a single field value.
type Extractor interface {
	Extract(ctx context.Context, question, rawAnswer string) (string, error)
}

// Rewriter rewrites an experience description into professional register.
type Rewriter interface {
	Rewrite(ctx context.Context, description string) (string, error)
}

// Translator produces an English-content copy of the record. Field structure
// is preserved; only values are translated.
type Translator interface {
	Translate(ctx context.Context, rec resume.Record) (resume.Record, error)
}

// Generator produces free-text artifacts from the full record.
type Generator interface {
	CoverLetter(ctx context.Context, rec resume.Record) (string, error)
	InterviewQuestions(ctx context.Context, rec resume.Record) (string, error)
}

// ReceiptVerifier inspects a payment-proof image and returns a verdict.
type ReceiptVerifier interface {
	VerifyReceipt(ctx context.Context, imageURL string) (bool, error)
}

// Placeholder implements every collaborator contract by reporting
// unavailability, so dev mode runs on the degradation paths.
type Placeholder struct{}

func (Placeholder) Extract(ctx context.Context, question, rawAnswer string) (string, error) {
	return "", ErrUnavailable
}

func (Placeholder) Rewrite(ctx context.Context, description string) (string, error) {
	return "", ErrUnavailable
}

func (Placeholder) Translate(ctx context.Context, rec resume.Record) (resume.Record, error) {
	return resume.Record{}, ErrUnavailable
}

func (Placeholder) CoverLetter(ctx context.Context, rec resume.Record) (string, error) {
	return "", ErrUnavailable
}

func (Placeholder) InterviewQuestions(ctx context.Context, rec resume.Record) (string, error) {
	return "", ErrUnavailable
}

func (Placeholder) VerifyReceipt(ctx context.Context, imageURL string) (bool, error) {
	return false, ErrUnavailable
}
