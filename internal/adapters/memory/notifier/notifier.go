package notifier

import (
	"context"
	"sync"

	"github.com/gyiad-org/membership-api/internal/ports/out/notifier"
)

// Mailer is a recording implementation of notifier.Mailer for tests.
// It is safe for concurrent use.
type Mailer struct {
	mu   sync.Mutex
	sent []notifier.Email

	// Err, when set, is returned by every Send.
	Err error
}

func NewMailer() *Mailer {
	return &Mailer{}
}

func (m *Mailer) Send(ctx context.Context, msg notifier.Email) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a snapshot of the messages sent so far.
func (m *Mailer) Sent() []notifier.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notifier.Email(nil), m.sent...)
}

// SentPush is one recorded push delivery.
type SentPush struct {
	Token string
	Note  notifier.PushNote
}

// Push is a recording implementation of notifier.Push for tests.
// It is safe for concurrent use.
type Push struct {
	mu   sync.Mutex
	sent []SentPush

	// Err, when set, is returned by every SendPush.
	Err error
}

func NewPush() *Push {
	return &Push{}
}

func (p *Push) SendPush(ctx context.Context, token string, note notifier.PushNote) error {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.sent = append(p.sent, SentPush{Token: token, Note: note})
	return nil
}

// Sent returns a snapshot of the pushes sent so far.
func (p *Push) Sent() []SentPush {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]SentPush(nil), p.sent...)
}
