package resendmail

import (
	"context"
	"errors"

	"github.com/resend/resend-go/v2"

	"github.com/gyiad-org/membership-api/internal/ports/out/notifier"
)

// Mailer sends transactional email through the Resend API.
type Mailer struct {
	client *resend.Client
	from   string
}

// NewMailer builds a Mailer. from is the verified sender address, e.g.
// "GYİAD <noreply@gyiad.com>".
func NewMailer(apiKey, from string) *Mailer {
	return &Mailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (m *Mailer) Send(ctx context.Context, msg notifier.Email) error {
	if len(msg.To) == 0 {
		return errors.New("email has no recipients")
	}
	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      msg.To,
		Cc:      msg.Cc,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	return err
}
