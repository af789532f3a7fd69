// Package zapi sends outbound WhatsApp messages through the Z-API gateway.
package zapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Sender is the outbound contract the engine and orchestrator depend on.
// Message ordering within one transition is the caller's responsibility;
// every call sends exactly one message.
type Sender interface {
	SendText(ctx context.Context, phone, message string) error
	SendImage(ctx context.Context, phone, imageURL, caption string) error
	SendDocument(ctx context.Context, phone string, document []byte, filename, caption string) error
}

const defaultBaseURL = "https://api.z-api.io"

// Client implements Sender against the Z-API HTTP endpoints.
type Client struct {
	instanceID  string
	token       string
	clientToken string
	baseURL     string
	httpClient  *http.Client
}

// NewClient constructs a Z-API client.
func NewClient(instanceID, token, clientToken string) (*Client, error) {
	if strings.TrimSpace(instanceID) == "" || strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("ZAPI_INSTANCE_ID and ZAPI_TOKEN are required")
	}
	return &Client{
		instanceID:  instanceID,
		token:       token,
		clientToken: clientToken,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// WithBaseURL overrides the endpoint, for tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimRight(url, "/")
	return c
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, phone, message string) error {
	return c.post(ctx, "send-text", map[string]any{
		"phone":   phone,
		"message": message,
	})
}

// SendImage sends an image by URL with an optional caption.
func (c *Client) SendImage(ctx context.Context, phone, imageURL, caption string) error {
	return c.post(ctx, "send-image", map[string]any{
		"phone":   phone,
		"image":   imageURL,
		"caption": caption,
	})
}

// SendDocument sends a PDF document as base64 payload.
func (c *Client) SendDocument(ctx context.Context, phone string, document []byte, filename, caption string) error {
	encoded := base64.StdEncoding.EncodeToString(document)
	return c.post(ctx, "send-document/pdf", map[string]any{
		"phone":    phone,
		"document": "data:application/pdf;base64," + encoded,
		"fileName": filename,
		"caption":  caption,
	})
}

func (c *Client) post(ctx context.Context, endpoint string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/instances/%s/token/%s/%s", c.baseURL, c.instanceID, c.token, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.clientToken != "" {
		req.Header.Set("Client-Token", c.clientToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("zapi %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("zapi %s: status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
