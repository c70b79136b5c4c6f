package requests

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/gyiad-org/membership-api/internal/domain"
	"github.com/gyiad-org/membership-api/internal/platform/mailtmpl"
	clockport "github.com/gyiad-org/membership-api/internal/ports/out/clock"
	"github.com/gyiad-org/membership-api/internal/ports/out/memberrepo"
	"github.com/gyiad-org/membership-api/internal/ports/out/notifier"
	"github.com/gyiad-org/membership-api/internal/ports/out/requestrepo"
)

// NotifyConfig carries the notification fan-out settings.
type NotifyConfig struct {
	// FallbackAdminEmail receives new-request notifications when no admin
	// account exists in the member store.
	FallbackAdminEmail string
	// LoginURL is the link embedded in notification emails.
	LoginURL string
}

// Service implements the member-request lifecycle. Notifications are
// fire-and-forget: failures are logged and surfaced as warnings, never
// blocking the primary write.
type Service struct {
	requests requestrepo.Repository
	members  memberrepo.Repository
	mailer   notifier.Mailer
	push     notifier.Push
	clk      clockport.Clock
	log      *slog.Logger
	cfg      NotifyConfig

	newRequestID func() domain.RequestID
}

func NewService(requests requestrepo.Repository, members memberrepo.Repository, mailer notifier.Mailer, push notifier.Push, clk clockport.Clock, log *slog.Logger, cfg NotifyConfig) *Service {
	return &Service{
		requests: requests,
		members:  members,
		mailer:   mailer,
		push:     push,
		clk:      clk,
		log:      log,
		cfg:      cfg,
		newRequestID: func() domain.RequestID {
			return domain.RequestID(uuid.NewString())
		},
	}
}

// CreateInput is a member-submitted request.
type CreateInput struct {
	Subject string
	Message string
}

// CreateResult reports a created request plus the notification outcome.
type CreateResult struct {
	Request domain.Request
	// Warning is non-empty when the admin notification failed; the request
	// itself was stored.
	Warning string
}

// Create stores a new pending request for the caller and notifies the
// organization: admins in To (fallback address when none), executive board in
// Cc minus anyone already in To.
func (s *Service) Create(ctx context.Context, subject domain.SubjectID, in CreateInput) (CreateResult, error) {
	if strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Message) == "" {
		return CreateResult{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "subject and message are required",
		}
	}

	owner, err := s.members.GetByID(ctx, domain.MemberID(subject))
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return CreateResult{}, &Error{
				Status:  404,
				Code:    "MEMBER_NOT_PROVISIONED",
				Message: "No member profile exists for the authenticated subject.",
			}
		}
		return CreateResult{}, err
	}

	r := domain.Request{
		ID:        s.newRequestID(),
		MemberID:  owner.ID,
		Subject:   strings.TrimSpace(in.Subject),
		Message:   in.Message,
		Status:    domain.RequestPending,
		CreatedAt: s.clk.Now(),
	}
	if err := s.requests.Create(ctx, r); err != nil {
		return CreateResult{}, err
	}

	result := CreateResult{Request: r}
	if err := s.notifyAdmins(ctx, owner, r); err != nil {
		s.log.Error("request notification failed", "requestId", string(r.ID), "err", err)
		result.Warning = "request stored but the admin notification could not be sent"
	}
	return result, nil
}

func (s *Service) notifyAdmins(ctx context.Context, owner domain.Member, r domain.Request) error {
	all, err := s.members.List(ctx)
	if err != nil {
		return err
	}

	to := distinctEmails(all, func(m domain.Member) bool { return m.IsAdmin })
	if len(to) == 0 {
		to = []string{s.cfg.FallbackAdminEmail}
	}
	cc := distinctEmails(all, func(m domain.Member) bool {
		return domain.HasRole(m.BoardRoles, domain.RoleExecutiveBoard)
	})
	cc = subtract(cc, to)

	html, err := mailtmpl.RequestReceived(owner.FullName, owner.Email, r.Subject, r.Message, s.cfg.LoginURL)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, notifier.Email{
		To:      to,
		Cc:      cc,
		Subject: "Yeni Talep: " + r.Subject,
		HTML:    html,
	})
}

// ListMine returns the caller's own requests, newest first.
func (s *Service) ListMine(ctx context.Context, subject domain.SubjectID) ([]domain.Request, error) {
	return s.requests.ListByMember(ctx, domain.MemberID(subject))
}

// ListAll returns every request joined with its owner's summary (admin view).
func (s *Service) ListAll(ctx context.Context, caller domain.Member) ([]requestrepo.RequestWithMember, error) {
	if !caller.IsAdmin {
		return nil, errForbidden()
	}
	return s.requests.ListWithMembers(ctx)
}

// ReplyResult reports a reply plus the notification outcome.
type ReplyResult struct {
	Request domain.Request
	// Warning is non-empty when the member notification (email or push)
	// failed; the reply itself was stored.
	Warning string
}

// Reply transitions a pending request to replied, exactly once, and notifies
// the owning member by email and, when a push token is registered, by push
// notification.
func (s *Service) Reply(ctx context.Context, caller domain.Member, id domain.RequestID, reply string) (ReplyResult, error) {
	if !caller.IsAdmin {
		return ReplyResult{}, errForbidden()
	}
	if strings.TrimSpace(reply) == "" {
		return ReplyResult{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "reply is required",
		}
	}

	r, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, requestrepo.ErrNotFound) {
			return ReplyResult{}, errRequestNotFound()
		}
		return ReplyResult{}, err
	}
	if r.Status == domain.RequestReplied {
		return ReplyResult{}, &Error{
			Status:  409,
			Code:    "REQUEST_ALREADY_REPLIED",
			Message: "request has already been replied to",
		}
	}

	now := s.clk.Now()
	r.Status = domain.RequestReplied
	r.AdminReply = &reply
	r.RepliedAt = &now
	if err := s.requests.Update(ctx, r); err != nil {
		return ReplyResult{}, err
	}

	result := ReplyResult{Request: r}
	owner, err := s.members.GetByID(ctx, r.MemberID)
	if err != nil {
		s.log.Error("reply notification skipped, owner lookup failed", "requestId", string(id), "err", err)
		result.Warning = "reply stored but the member could not be notified"
		return result, nil
	}

	if err := s.notifyReply(ctx, owner, r, reply); err != nil {
		s.log.Error("reply email failed", "requestId", string(id), "err", err)
		result.Warning = "reply stored but the member could not be notified"
	}
	if owner.PushToken != nil && *owner.PushToken != "" {
		err := s.push.SendPush(ctx, *owner.PushToken, notifier.PushNote{
			Title: "Talebiniz Yanıtlandı",
			Body:  "GYİAD Yöneticisi talebinize cevap verdi. Görüntülemek için dokunun.",
			Data:  map[string]string{"requestId": string(id)},
		})
		if err != nil {
			s.log.Error("reply push failed", "requestId", string(id), "err", err)
		}
	}
	return result, nil
}

func (s *Service) notifyReply(ctx context.Context, owner domain.Member, r domain.Request, reply string) error {
	html, err := mailtmpl.RequestReplied(owner.FullName, r.Subject, r.Message, reply, s.cfg.LoginURL)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, notifier.Email{
		To:      []string{owner.Email},
		Subject: "Talebiniz Yanıtlandı",
		HTML:    html,
	})
}

// Delete removes a request at any lifecycle stage.
func (s *Service) Delete(ctx context.Context, caller domain.Member, id domain.RequestID) error {
	if !caller.IsAdmin {
		return errForbidden()
	}
	if err := s.requests.Delete(ctx, id); err != nil {
		if errors.Is(err, requestrepo.ErrNotFound) {
			return errRequestNotFound()
		}
		return err
	}
	return nil
}

func errForbidden() *Error {
	return &Error{
		Status:  403,
		Code:    "FORBIDDEN",
		Message: "admin privileges required",
	}
}

func errRequestNotFound() *Error {
	return &Error{
		Status:  404,
		Code:    "REQUEST_NOT_FOUND",
		Message: "request not found",
	}
}

func distinctEmails(ms []domain.Member, pred func(domain.Member) bool) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, m := range ms {
		if !pred(m) || m.Email == "" || seen[m.Email] {
			continue
		}
		seen[m.Email] = true
		out = append(out, m.Email)
	}
	return out
}

func subtract(from, remove []string) []string {
	out := make([]string, 0, len(from))
	for _, s := range from {
		drop := false
		for _, r := range remove {
			if s == r {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, s)
		}
	}
	return out
}
