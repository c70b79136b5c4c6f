package notifier

import "context"

// Email is one outbound transactional message. HTML is the rendered body.
type Email struct {
	To      []string
	Cc      []string
	Subject string
	HTML    string
}

// Mailer sends transactional email. Sends are fire-and-forget from the
// caller's perspective: failures are logged and surfaced as warnings, never
// retried, and never roll back the primary write.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// PushNote is one mobile push notification payload.
type PushNote struct {
	Title string
	Body  string
	Data  map[string]string
}

// Push delivers push notifications to a device token. Same fire-and-forget
// contract as Mailer.
type Push interface {
	SendPush(ctx context.Context, token string, note PushNote) error
}
