package zapi

import (
	"context"

	"cvbot-backend/internal/shared/telemetry"
)

// Console logs outbound messages instead of sending them. It stands in for
// the gateway in dev environments without Z-API credentials.
type Console struct{}

func (Console) SendText(ctx context.Context, phone, message string) error {
	telemetry.Info("zapi: console text", map[string]any{
		"phone":   phone,
		"message": message,
	})
	return nil
}

func (Console) SendImage(ctx context.Context, phone, imageURL, caption string) error {
	telemetry.Info("zapi: console image", map[string]any{
		"phone":   phone,
		"url":     imageURL,
		"caption": caption,
	})
	return nil
}

func (Console) SendDocument(ctx context.Context, phone string, document []byte, filename, caption string) error {
	telemetry.Info("zapi: console document", map[string]any{
		"phone":    phone,
		"filename": filename,
		"bytes":    len(document),
	})
	return nil
}
