package delivery

import (
	"context"
	"encoding/json"
	"fmt"

	"cvbot-backend/internal/shared/telemetry"
)

// Message is the delivery job payload, shared by the in-process queue and the
// SQS transport.
type Message struct {
	Identity string `json:"identity"`
}

// EncodeMessage serializes a delivery job for the wire.
func EncodeMessage(identity string) (string, error) {
	data, err := json.Marshal(Message{Identity: identity})
	if err != nil {
		return "", fmt.Errorf("delivery: encode message: %w", err)
	}
	return string(data), nil
}

// DecodeMessage parses a delivery job from the wire.
func DecodeMessage(body string) (Message, error) {
	var m Message
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		return Message{}, fmt.Errorf("delivery: decode message: %w", err)
	}
	if m.Identity == "" {
		return Message{}, fmt.Errorf("delivery: message missing identity")
	}
	return m, nil
}

// InProcess runs deliveries on background goroutines inside the API process.
// It is the default transport; SQS takes over when a queue URL is configured.
type InProcess struct {
	Orchestrator *Orchestrator
}

// NewInProcess returns an in-process delivery queue.
func NewInProcess(o *Orchestrator) *InProcess {
	return &InProcess{Orchestrator: o}
}

// Dispatch starts the delivery in a supervised goroutine. Enqueueing never
// fails; failures surface through the orchestrator's own session reverts.
func (q *InProcess) Dispatch(ctx context.Context, identity string) error {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				telemetry.Error("delivery: worker panic", map[string]any{
					"identity": identity,
					"panic":    fmt.Sprint(r),
				})
			}
		}()
		// Detach from the webhook request context; delivery outlives the
		// HTTP acknowledgment.
		if err := q.Orchestrator.Deliver(context.Background(), identity); err != nil {
			telemetry.Error("delivery: in-process delivery failed", map[string]any{
				"identity": identity,
				"error":    err.Error(),
			})
		}
	}()
	return nil
}
