package passwordreset

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	accountsmem "github.com/gyiad-org/membership-api/internal/adapters/memory/accounts"
	manualclock "github.com/gyiad-org/membership-api/internal/adapters/memory/clock"
	memberrepomem "github.com/gyiad-org/membership-api/internal/adapters/memory/memberrepo"
	notifiermem "github.com/gyiad-org/membership-api/internal/adapters/memory/notifier"
	"github.com/gyiad-org/membership-api/internal/domain"
)

type fixture struct {
	svc      *Service
	repo     *memberrepomem.Repo
	accounts *accountsmem.Service
	mailer   *notifiermem.Mailer
	clk      *manualclock.ManualClock
	memberID domain.MemberID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memberrepomem.NewRepo()
	acct := accountsmem.NewService()
	mailer := notifiermem.NewMailer()
	clk := manualclock.NewManualClock(time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))

	id, err := acct.Create(context.Background(), "uye@example.com", "OldPass1!")
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	if err := repo.Create(context.Background(), domain.Member{
		ID:         id,
		FullName:   "Üye",
		Email:      "uye@example.com",
		MemberType: domain.TypeActive,
	}); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	svc := NewService(repo, acct, mailer, clk, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.newCode = func() string { return "4321" }
	return &fixture{svc: svc, repo: repo, accounts: acct, mailer: mailer, clk: clk, memberID: id}
}

func TestRequest_StoresCodeAndEmailsIt(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.svc.Request(context.Background(), "uye@example.com"); err != nil {
		t.Fatalf("Request() err=%v", err)
	}

	m, err := f.repo.GetByEmail(context.Background(), "uye@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if m.ResetCode == nil || *m.ResetCode != "4321" {
		t.Fatalf("ResetCode=%v", m.ResetCode)
	}
	wantExpiry := f.clk.Now().Add(15 * time.Minute)
	if m.ResetExpiresAt == nil || !m.ResetExpiresAt.Equal(wantExpiry) {
		t.Fatalf("ResetExpiresAt=%v, want %v", m.ResetExpiresAt, wantExpiry)
	}

	sent := f.mailer.Sent()
	if len(sent) != 1 || sent[0].To[0] != "uye@example.com" {
		t.Fatalf("mails=%+v", sent)
	}
	if !strings.Contains(sent[0].HTML, "4321") {
		t.Fatalf("mail does not carry the code")
	}
}

func TestRequest_UnknownEmail(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	err := f.svc.Request(context.Background(), "yok@example.com")
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Code != "EMAIL_NOT_FOUND" {
		t.Fatalf("Request() err=%v, want EMAIL_NOT_FOUND", err)
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.svc.Request(context.Background(), "uye@example.com"); err != nil {
		t.Fatalf("Request() err=%v", err)
	}

	if err := f.svc.Verify(context.Background(), "uye@example.com", "4321"); err != nil {
		t.Fatalf("Verify() err=%v", err)
	}

	err := f.svc.Verify(context.Background(), "uye@example.com", "0000")
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Code != "RESET_CODE_INVALID" {
		t.Fatalf("Verify(wrong) err=%v", err)
	}

	// Expiry is exclusive of the deadline itself.
	f.clk.Advance(15*time.Minute + time.Second)
	err = f.svc.Verify(context.Background(), "uye@example.com", "4321")
	if !errors.As(err, &appErr) || appErr.Code != "RESET_CODE_EXPIRED" {
		t.Fatalf("Verify(expired) err=%v", err)
	}
}

func TestConfirm_SetsPasswordAndClearsCode(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.svc.Request(context.Background(), "uye@example.com"); err != nil {
		t.Fatalf("Request() err=%v", err)
	}

	if err := f.svc.Confirm(context.Background(), "uye@example.com", "4321", "NewPass1!"); err != nil {
		t.Fatalf("Confirm() err=%v", err)
	}

	pw, ok := f.accounts.Password(f.memberID)
	if !ok || pw != "NewPass1!" {
		t.Fatalf("password=%q ok=%v", pw, ok)
	}
	m, _ := f.repo.GetByEmail(context.Background(), "uye@example.com")
	if m.ResetCode != nil || m.ResetExpiresAt != nil {
		t.Fatalf("code not cleared: %v %v", m.ResetCode, m.ResetExpiresAt)
	}

	// A consumed code cannot be replayed.
	err := f.svc.Confirm(context.Background(), "uye@example.com", "4321", "Another1!")
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Code != "RESET_CODE_INVALID" {
		t.Fatalf("Confirm(replay) err=%v", err)
	}
}

func TestConfirm_WeakPassword(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	err := f.svc.Confirm(context.Background(), "uye@example.com", "4321", "abc")
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Status != 422 {
		t.Fatalf("Confirm(weak) err=%v, want 422", err)
	}
}

func TestRandomCode_FourDigits(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		code := randomCode()
		if len(code) != 4 {
			t.Fatalf("code %q is not four digits", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q has a non-digit", code)
			}
		}
	}
}
