package expopush

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gyiad-org/membership-api/internal/ports/out/notifier"
)

// DefaultEndpoint is the Expo push gateway.
const DefaultEndpoint = "https://exp.host/--/api/v2/push/send"

// Sender delivers push notifications through the Expo push service.
type Sender struct {
	endpoint string
	client   *http.Client
}

// Option configures a Sender.
type Option func(*Sender)

// WithEndpoint overrides the gateway URL, for tests.
func WithEndpoint(url string) Option {
	return func(s *Sender) { s.endpoint = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) { s.client = c }
}

func NewSender(opts ...Option) *Sender {
	s := &Sender{
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type pushMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Sound string            `json:"sound"`
	Data  map[string]string `json:"data,omitempty"`
}

type pushReceipt struct {
	Data struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"data"`
}

func (s *Sender) SendPush(ctx context.Context, token string, note notifier.PushNote) error {
	payload, err := json.Marshal(pushMessage{
		To:    token,
		Title: note.Title,
		Body:  note.Body,
		Sound: "default",
		Data:  note.Data,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expo push: status %d: %s", resp.StatusCode, body)
	}

	var receipt pushReceipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		return fmt.Errorf("expo push: decode response: %w", err)
	}
	if receipt.Data.Status == "error" {
		return fmt.Errorf("expo push: %s", receipt.Data.Message)
	}
	return nil
}
