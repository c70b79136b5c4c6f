package passwordreset

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/gyiad-org/membership-api/internal/platform/mailtmpl"
	"github.com/gyiad-org/membership-api/internal/ports/out/accounts"
	clockport "github.com/gyiad-org/membership-api/internal/ports/out/clock"
	"github.com/gyiad-org/membership-api/internal/ports/out/memberrepo"
	"github.com/gyiad-org/membership-api/internal/ports/out/notifier"
)

// codeTTL is how long a reset code stays valid after issuance.
const codeTTL = 15 * time.Minute

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// Service implements the forgot-password flow: request a code by email,
// verify it, then confirm with a new password.
type Service struct {
	repo     memberrepo.Repository
	accounts accounts.Service
	mailer   notifier.Mailer
	clk      clockport.Clock
	log      *slog.Logger

	newCode func() string
}

func NewService(repo memberrepo.Repository, acct accounts.Service, mailer notifier.Mailer, clk clockport.Clock, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: acct,
		mailer:   mailer,
		clk:      clk,
		log:      log,
		newCode:  randomCode,
	}
}

// Request issues a fresh reset code for the address and emails it. Unknown
// addresses return the not-found error so the client can prompt a re-check;
// the mobile client relies on that signal.
func (s *Service) Request(ctx context.Context, email string) error {
	m, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return errEmailNotFound()
		}
		return err
	}

	code := s.newCode()
	expires := s.clk.Now().Add(codeTTL)
	m.ResetCode = &code
	m.ResetExpiresAt = &expires
	if err := s.repo.Update(ctx, m); err != nil {
		return err
	}

	html, err := mailtmpl.ResetCode(code, int(codeTTL.Minutes()))
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, notifier.Email{
		To:      []string{m.Email},
		Subject: "Şifre Sıfırlama Kodu",
		HTML:    html,
	}); err != nil {
		s.log.Error("reset code email failed", "memberId", string(m.ID), "err", err)
		return &Error{
			Status:  502,
			Code:    "MAIL_DELIVERY_FAILED",
			Message: "reset code could not be delivered",
		}
	}
	return nil
}

// Verify checks that the code matches the one issued for the address and has
// not expired. It does not consume the code.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	m, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return errEmailNotFound()
		}
		return err
	}
	if m.ResetCode == nil || *m.ResetCode != code {
		return errCodeInvalid()
	}
	if m.ResetExpiresAt == nil || s.clk.Now().After(*m.ResetExpiresAt) {
		return errCodeExpired()
	}
	return nil
}

// Confirm re-verifies the code, sets the new password on the auth account,
// and clears the code so it cannot be replayed.
func (s *Service) Confirm(ctx context.Context, email, code, newPassword string) error {
	if len(newPassword) < 6 {
		return &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "password must be at least 6 characters",
		}
	}

	m, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return errEmailNotFound()
		}
		return err
	}
	if m.ResetCode == nil || *m.ResetCode != code {
		return errCodeInvalid()
	}
	if m.ResetExpiresAt == nil || s.clk.Now().After(*m.ResetExpiresAt) {
		return errCodeExpired()
	}

	if err := s.accounts.SetPassword(ctx, m.ID, newPassword); err != nil {
		return err
	}

	m.ResetCode = nil
	m.ResetExpiresAt = nil
	return s.repo.Update(ctx, m)
}

func errEmailNotFound() *Error {
	return &Error{
		Status:  404,
		Code:    "EMAIL_NOT_FOUND",
		Message: "no member is registered with this email address",
	}
}

func errCodeInvalid() *Error {
	return &Error{
		Status:  422,
		Code:    "RESET_CODE_INVALID",
		Message: "reset code is incorrect",
	}
}

func errCodeExpired() *Error {
	return &Error{
		Status:  422,
		Code:    "RESET_CODE_EXPIRED",
		Message: "reset code has expired, request a new one",
	}
}

// randomCode draws a uniform four digit code, zero padded.
func randomCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%04d", n.Int64())
}
