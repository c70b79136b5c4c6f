package members

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
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memberrepomem.NewRepo()
	acct := accountsmem.NewService()
	mailer := notifiermem.NewMailer()
	clk := manualclock.NewManualClock(time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))
	svc := NewService(repo, acct, mailer, clk, slog.New(slog.NewTextHandler(io.Discard, nil)), "https://uyelik.gyiad.com/login")
	return &fixture{svc: svc, repo: repo, accounts: acct, mailer: mailer, clk: clk}
}

var admin = domain.Member{ID: "admin-1", FullName: "Admin", Email: "admin@gyiad.com", IsAdmin: true, MemberType: domain.TypeActive}
var regular = domain.Member{ID: "member-1", FullName: "Üye", Email: "uye@example.com", MemberType: domain.TypeActive}

func validCreate() CreateMemberInput {
	join := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	return CreateMemberInput{
		FullName:       "  ayşe   yılmaz ",
		Email:          "ayse@example.com",
		MembershipDate: &join,
	}
}

func TestCreate_RequiresAdmin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), regular, validCreate())
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Status != 403 {
		t.Fatalf("Create() err=%v, want 403", err)
	}
}

func TestCreate_ProvisionsAccountAndSendsWelcome(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res, err := f.svc.Create(context.Background(), admin, validCreate())
	if err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if res.Warning != "" || res.TempPassword != "" {
		t.Fatalf("unexpected warning: %+v", res)
	}
	if res.Member.FullName != "ayşe yılmaz" {
		t.Errorf("FullName=%q, want whitespace-normalized %q", res.Member.FullName, "ayşe yılmaz")
	}
	// The auth account id becomes the member id.
	if _, ok := f.accounts.Password(res.Member.ID); !ok {
		t.Errorf("no auth account under member id %q", res.Member.ID)
	}
	// Defaults.
	if res.Member.MemberType != domain.TypeActive {
		t.Errorf("MemberType=%q, want active", res.Member.MemberType)
	}
	if res.Member.MembershipCategory != domain.CategoryIndividual {
		t.Errorf("MembershipCategory=%q, want individual", res.Member.MembershipCategory)
	}
	if res.Member.MaritalStatus == nil || *res.Member.MaritalStatus != domain.MaritalSingle {
		t.Errorf("MaritalStatus=%v, want single default", res.Member.MaritalStatus)
	}

	sent := f.mailer.Sent()
	if len(sent) != 1 || sent[0].To[0] != "ayse@example.com" {
		t.Fatalf("welcome mail=%+v", sent)
	}
	pw, _ := f.accounts.Password(res.Member.ID)
	if !strings.Contains(sent[0].HTML, pw) {
		t.Errorf("welcome mail does not carry the temporary password")
	}
}

func TestCreate_ActiveRequiresStartDate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	in := validCreate()
	in.MembershipDate = nil
	_, err := f.svc.Create(context.Background(), admin, in)
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Status != 422 {
		t.Fatalf("Create() err=%v, want 422", err)
	}

	// Honorary members may omit the date.
	in.MemberType = domain.TypeHonorary
	if _, err := f.svc.Create(context.Background(), admin, in); err != nil {
		t.Fatalf("Create(honorary) err=%v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if _, err := f.svc.Create(context.Background(), admin, validCreate()); err != nil {
		t.Fatalf("first Create() err=%v", err)
	}
	_, err := f.svc.Create(context.Background(), admin, validCreate())
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Code != "EMAIL_ALREADY_IN_USE" {
		t.Fatalf("second Create() err=%v, want EMAIL_ALREADY_IN_USE", err)
	}
}

func TestCreate_RejectsUnknownRole(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	in := validCreate()
	in.BoardRoles = []domain.BoardRole{"chief_vibes_officer"}
	_, err := f.svc.Create(context.Background(), admin, in)
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Status != 422 {
		t.Fatalf("Create() err=%v, want 422", err)
	}
}

func TestCreate_MailFailureSurfacesTempPassword(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.mailer.Err = errors.New("smtp down")
	res, err := f.svc.Create(context.Background(), admin, validCreate())
	if err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if res.Warning == "" || res.TempPassword == "" {
		t.Fatalf("expected warning with temp password, got %+v", res)
	}
	if !strings.HasSuffix(res.TempPassword, "Aa1!") {
		t.Errorf("TempPassword=%q, want complexity suffix", res.TempPassword)
	}
}

func TestUpdate_FullReplaceAndBlankWebsites(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res, err := f.svc.Create(context.Background(), admin, validCreate())
	if err != nil {
		t.Fatalf("Create() err=%v", err)
	}

	in := AdminUpdateInput{
		FullName:   "Ayşe Yılmaz Demir",
		BoardRoles: []domain.BoardRole{domain.RoleBoardMember, domain.RoleBoardMember},
		Websites:   []string{"https://example.com", "   ", ""},
		Gender:     domain.GenderFemale,
		IsHidden:   true,
	}
	got, err := f.svc.Update(context.Background(), admin, res.Member.ID, in)
	if err != nil {
		t.Fatalf("Update() err=%v", err)
	}
	if got.FullName != "Ayşe Yılmaz Demir" || !got.IsHidden {
		t.Fatalf("Update()=%+v", got)
	}
	// Duplicate tags collapse; blank websites drop.
	if len(got.BoardRoles) != 1 || got.BoardRoles[0] != domain.RoleBoardMember {
		t.Errorf("BoardRoles=%v", got.BoardRoles)
	}
	if len(got.Websites) != 1 || got.Websites[0] != "https://example.com" {
		t.Errorf("Websites=%v", got.Websites)
	}
	// Absent pointer fields clear stored values (full replace).
	if got.MembershipDate != nil {
		t.Errorf("MembershipDate=%v, want cleared", got.MembershipDate)
	}
}

func TestDelete_ToleratesMissingRow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	// Account exists but no member row.
	id, err := f.accounts.Create(context.Background(), "orphan@example.com", "pw")
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	if err := f.svc.Delete(context.Background(), admin, id); err != nil {
		t.Fatalf("Delete() err=%v", err)
	}
	// Neither row nor account: 404.
	err = f.svc.Delete(context.Background(), admin, id)
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Status != 404 {
		t.Fatalf("Delete(gone) err=%v, want 404", err)
	}
}

func TestUpdateProfile_TriState(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res, err := f.svc.Create(context.Background(), admin, validCreate())
	if err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	id := res.Member.ID

	phone := "+90 555 111 2233"
	got, err := f.svc.UpdateProfile(context.Background(), domain.SubjectID(id), ProfilePatch{
		Phone:    Some(phone),
		Position: Some("Genel Müdür"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile() err=%v", err)
	}
	if got.Phone == nil || *got.Phone != phone {
		t.Fatalf("Phone=%v", got.Phone)
	}

	// Unspecified leaves values alone; null clears.
	got, err = f.svc.UpdateProfile(context.Background(), domain.SubjectID(id), ProfilePatch{
		Position: Null[string](),
	})
	if err != nil {
		t.Fatalf("UpdateProfile() err=%v", err)
	}
	if got.Phone == nil || *got.Phone != phone {
		t.Errorf("unspecified phone was touched: %v", got.Phone)
	}
	if got.Position != nil {
		t.Errorf("Position=%v, want cleared", got.Position)
	}
}

func TestUpdateProfile_ConsentStamping(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res, err := f.svc.Create(context.Background(), admin, validCreate())
	if err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	sub := domain.SubjectID(res.Member.ID)
	accepted := f.clk.Now()

	got, err := f.svc.UpdateProfile(context.Background(), sub, ProfilePatch{
		MembershipConsent: Some(true),
	})
	if err != nil {
		t.Fatalf("UpdateProfile() err=%v", err)
	}
	if !got.MembershipConsent.Given || got.MembershipConsent.AcceptedAt == nil || !got.MembershipConsent.AcceptedAt.Equal(accepted) {
		t.Fatalf("consent=%+v, want stamped at %v", got.MembershipConsent, accepted)
	}

	// Re-accepting later keeps the original stamp.
	f.clk.Advance(24 * time.Hour)
	got, err = f.svc.UpdateProfile(context.Background(), sub, ProfilePatch{
		MembershipConsent: Some(true),
	})
	if err != nil {
		t.Fatalf("UpdateProfile() err=%v", err)
	}
	if got.MembershipConsent.AcceptedAt == nil || !got.MembershipConsent.AcceptedAt.Equal(accepted) {
		t.Fatalf("re-accept moved the stamp: %v", got.MembershipConsent.AcceptedAt)
	}

	// Revoking clears the stamp.
	got, err = f.svc.UpdateProfile(context.Background(), sub, ProfilePatch{
		MembershipConsent: Some(false),
	})
	if err != nil {
		t.Fatalf("UpdateProfile() err=%v", err)
	}
	if got.MembershipConsent.Given || got.MembershipConsent.AcceptedAt != nil {
		t.Fatalf("revoked consent=%+v", got.MembershipConsent)
	}
}

func TestGetProfile_NotProvisioned(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.GetProfile(context.Background(), domain.SubjectID("ghost"))
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Code != "MEMBER_NOT_PROVISIONED" {
		t.Fatalf("GetProfile() err=%v, want MEMBER_NOT_PROVISIONED", err)
	}
}

func TestRequestProfileUpdate_SendsReminder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res, err := f.svc.Create(context.Background(), admin, validCreate())
	if err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	f.mailer.Err = nil

	if err := f.svc.RequestProfileUpdate(context.Background(), admin, res.Member.ID); err != nil {
		t.Fatalf("RequestProfileUpdate() err=%v", err)
	}
	sent := f.mailer.Sent()
	// Welcome plus the reminder.
	if len(sent) != 2 || sent[1].To[0] != "ayse@example.com" {
		t.Fatalf("mails=%+v", sent)
	}
}
