package members

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/gyiad-org/membership-api/internal/domain"
	"github.com/gyiad-org/membership-api/internal/platform/mailtmpl"
	accountsport "github.com/gyiad-org/membership-api/internal/ports/out/accounts"
	clockport "github.com/gyiad-org/membership-api/internal/ports/out/clock"
	"github.com/gyiad-org/membership-api/internal/ports/out/memberrepo"
	"github.com/gyiad-org/membership-api/internal/ports/out/notifier"
)

// Service implements admin member CRUD and member self-service. Admin
// operations take the authenticated caller explicitly and check the admin
// flag per call; there is no ambient session state.
type Service struct {
	repo     memberrepo.Repository
	accounts accountsport.Service
	mailer   notifier.Mailer
	clk      clockport.Clock
	log      *slog.Logger

	// LoginURL is the link embedded in welcome and reminder emails.
	LoginURL string

	newTempPassword func() string
}

func NewService(repo memberrepo.Repository, accounts accountsport.Service, mailer notifier.Mailer, clk clockport.Clock, log *slog.Logger, loginURL string) *Service {
	return &Service{
		repo:            repo,
		accounts:        accounts,
		mailer:          mailer,
		clk:             clk,
		log:             log,
		LoginURL:        loginURL,
		newTempPassword: generateTempPassword,
	}
}

// Create provisions a login account, inserts the member record, and sends the
// welcome email with the temporary password. A failed record insert rolls the
// account back; a failed email is reported as a warning, not a failure.
func (s *Service) Create(ctx context.Context, caller domain.Member, in CreateMemberInput) (CreateResult, error) {
	if !caller.IsAdmin {
		return CreateResult{}, errForbidden()
	}

	fullName := domain.NormalizeHumanName(in.FullName)
	if fullName == "" {
		return CreateResult{}, errValidation("invalid fullName", map[string]any{"fullName": "must be non-empty"})
	}
	email := strings.TrimSpace(in.Email)
	if err := validateEmail(email); err != nil {
		return CreateResult{}, errValidation("invalid email", map[string]any{"email": err.Error()})
	}
	if err := validateRoles(in.BoardRoles); err != nil {
		return CreateResult{}, errValidation("invalid boardRoles", map[string]any{"boardRoles": err.Error()})
	}
	memberType := in.MemberType
	if memberType == "" {
		memberType = domain.TypeActive
	}
	if memberType == domain.TypeActive && in.MembershipDate == nil {
		return CreateResult{}, errValidation("invalid membershipStartDate", map[string]any{"membershipStartDate": "required for active members"})
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return CreateResult{}, &Error{
			Status:  409,
			Code:    "EMAIL_ALREADY_IN_USE",
			Message: "email address is already in use",
		}
	} else if !errors.Is(err, memberrepo.ErrNotFound) {
		return CreateResult{}, err
	}

	tempPassword := s.newTempPassword()
	id, err := s.accounts.Create(ctx, email, tempPassword)
	if err != nil {
		if errors.Is(err, accountsport.ErrEmailInUse) {
			return CreateResult{}, &Error{
				Status:  409,
				Code:    "EMAIL_ALREADY_IN_USE",
				Message: "email address is already in use",
			}
		}
		return CreateResult{}, err
	}

	now := s.clk.Now()
	maritalStatus := in.MaritalStatus
	if maritalStatus == nil {
		def := domain.MaritalSingle
		maritalStatus = &def
	}
	category := in.MembershipCategory
	if category == "" {
		category = domain.CategoryIndividual
	}
	m := domain.Member{
		ID:                 id,
		FullName:           fullName,
		Email:              email,
		Phone:              in.Phone,
		MembershipCategory: category,
		MemberType:         memberType,
		BoardRoles:         normalizeRoles(in.BoardRoles),
		CardRole:           in.CardRole,
		BirthDate:          in.BirthDate,
		MaritalStatus:      maritalStatus,
		Gender:             in.Gender,
		CompanyName:        in.CompanyName,
		CompanyAddress:     in.CompanyAddress,
		Position:           in.Position,
		Sector:             in.Sector,
		LinkedInURL:        in.LinkedInURL,
		Websites:           domain.FilterBlank(in.Websites),
		Education:          in.Education,
		Languages:          in.Languages,
		OtherMemberships:   in.OtherMemberships,
		Projects:           in.Projects,
		MembershipDate:     in.MembershipDate,
		MembershipEndDate:  in.MembershipEndDate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		// Roll the auth account back so the email stays available for a retry.
		if delErr := s.accounts.Delete(ctx, id); delErr != nil {
			s.log.Error("account rollback failed", "memberId", string(id), "err", delErr)
		}
		if errors.Is(err, memberrepo.ErrEmailAlreadyBound) {
			return CreateResult{}, &Error{
				Status:  409,
				Code:    "EMAIL_ALREADY_IN_USE",
				Message: "email address is already in use",
			}
		}
		return CreateResult{}, err
	}

	result := CreateResult{Member: m}
	html, err := mailtmpl.Welcome(email, tempPassword, s.LoginURL)
	if err == nil {
		err = s.mailer.Send(ctx, notifier.Email{
			To:      []string{email},
			Subject: "GYİAD Üyeliğiniz Oluşturuldu",
			HTML:    html,
		})
	}
	if err != nil {
		s.log.Error("welcome email failed", "memberId", string(id), "err", err)
		result.Warning = "member created but the welcome email could not be sent"
		result.TempPassword = tempPassword
	}
	return result, nil
}

// Get returns one member record for the admin detail/edit views.
func (s *Service) Get(ctx context.Context, caller domain.Member, id domain.MemberID) (domain.Member, error) {
	if !caller.IsAdmin {
		return domain.Member{}, errForbidden()
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return domain.Member{}, errMemberNotFound()
		}
		return domain.Member{}, err
	}
	return m, nil
}

// Update replaces the editable fields of a member record with the admin form
// contents.
func (s *Service) Update(ctx context.Context, caller domain.Member, id domain.MemberID, in AdminUpdateInput) (domain.Member, error) {
	if !caller.IsAdmin {
		return domain.Member{}, errForbidden()
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return domain.Member{}, errMemberNotFound()
		}
		return domain.Member{}, err
	}

	fullName := domain.NormalizeHumanName(in.FullName)
	if fullName == "" {
		return domain.Member{}, errValidation("invalid fullName", map[string]any{"fullName": "must be non-empty"})
	}
	if err := validateRoles(in.BoardRoles); err != nil {
		return domain.Member{}, errValidation("invalid boardRoles", map[string]any{"boardRoles": err.Error()})
	}
	if in.Email != "" && !strings.EqualFold(in.Email, m.Email) {
		email := strings.TrimSpace(in.Email)
		if err := validateEmail(email); err != nil {
			return domain.Member{}, errValidation("invalid email", map[string]any{"email": err.Error()})
		}
		if other, err := s.repo.GetByEmail(ctx, email); err == nil && other.ID != m.ID {
			return domain.Member{}, &Error{
				Status:  409,
				Code:    "EMAIL_ALREADY_IN_USE",
				Message: "email address is already in use",
			}
		} else if err != nil && !errors.Is(err, memberrepo.ErrNotFound) {
			return domain.Member{}, err
		}
		m.Email = email
	}

	m.FullName = fullName
	m.Phone = in.Phone
	if in.MembershipCategory != "" {
		m.MembershipCategory = in.MembershipCategory
	}
	if in.MemberType != "" {
		m.MemberType = in.MemberType
	}
	m.MembershipDate = in.MembershipDate
	m.MembershipEndDate = in.MembershipEndDate
	m.BoardRoles = normalizeRoles(in.BoardRoles)
	m.CardRole = in.CardRole
	m.CompanyName = in.CompanyName
	m.CompanyAddress = in.CompanyAddress
	m.Position = in.Position
	m.Sector = in.Sector
	m.BusinessArea = in.BusinessArea
	m.CompanyTurnover = in.CompanyTurnover
	m.NumberOfEmployees = in.NumberOfEmployees
	m.BirthDate = in.BirthDate
	m.MaritalStatus = in.MaritalStatus
	m.Gender = in.Gender
	m.LinkedInURL = in.LinkedInURL
	m.Websites = domain.FilterBlank(in.Websites)
	m.Education = in.Education
	m.Languages = in.Languages
	m.OtherMemberships = in.OtherMemberships
	m.Projects = in.Projects
	m.IsHidden = in.IsHidden
	m.UpdatedAt = s.clk.Now()

	if err := s.repo.Update(ctx, m); err != nil {
		return domain.Member{}, err
	}
	return m, nil
}

// Delete removes the member record and the backing login account. A missing
// record is tolerated (the auth account may outlive it); a failed account
// delete is the operation's failure.
func (s *Service) Delete(ctx context.Context, caller domain.Member, id domain.MemberID) error {
	if !caller.IsAdmin {
		return errForbidden()
	}
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, memberrepo.ErrNotFound) {
		s.log.Error("member row delete failed", "memberId", string(id), "err", err)
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, accountsport.ErrNotFound) {
			return errMemberNotFound()
		}
		return err
	}
	return nil
}

// RequestProfileUpdate sends the member a reminder email asking them to
// refresh their profile.
func (s *Service) RequestProfileUpdate(ctx context.Context, caller domain.Member, id domain.MemberID) error {
	if !caller.IsAdmin {
		return errForbidden()
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return errMemberNotFound()
		}
		return err
	}
	html, err := mailtmpl.UpdateReminder(m.FullName, s.LoginURL)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, notifier.Email{
		To:      []string{m.Email},
		Subject: "GYİAD - Profil Güncelleme Hatırlatması",
		HTML:    html,
	})
}

// GetProfile returns the caller's own record.
func (s *Service) GetProfile(ctx context.Context, subject domain.SubjectID) (domain.Member, error) {
	m, err := s.repo.GetByID(ctx, domain.MemberID(subject))
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return domain.Member{}, &Error{
				Status:  404,
				Code:    "MEMBER_NOT_PROVISIONED",
				Message: "No member profile exists for the authenticated subject.",
			}
		}
		return domain.Member{}, err
	}
	return m, nil
}

// UpdateProfile applies a tri-state self-service patch to the caller's own
// record. Consent flags are stamped with the acceptance time on a rising edge
// and cleared when revoked.
func (s *Service) UpdateProfile(ctx context.Context, subject domain.SubjectID, patch ProfilePatch) (domain.Member, error) {
	m, err := s.GetProfile(ctx, subject)
	if err != nil {
		return domain.Member{}, err
	}

	if patch.FullName.IsSpecified() {
		if patch.FullName.IsNull() {
			return domain.Member{}, errValidation("invalid fullName", map[string]any{"fullName": "cannot be null"})
		}
		fullName := domain.NormalizeHumanName(patch.FullName.Value())
		if fullName == "" {
			return domain.Member{}, errValidation("invalid fullName", map[string]any{"fullName": "must be non-empty"})
		}
		m.FullName = fullName
	}

	applyString(&m.Phone, patch.Phone)
	if patch.CompanyName.IsSpecified() && !patch.CompanyName.IsNull() {
		m.CompanyName = patch.CompanyName.Value()
	}
	applyString(&m.CompanyAddress, patch.CompanyAddress)
	applyString(&m.Position, patch.Position)
	applyString(&m.Sector, patch.Sector)
	applyString(&m.BusinessArea, patch.BusinessArea)
	applyString(&m.CompanyTurnover, patch.CompanyTurnover)
	applyString(&m.NumberOfEmployees, patch.NumberOfEmployees)
	applyString(&m.LinkedInURL, patch.LinkedInURL)
	applyString(&m.OtherMemberships, patch.OtherMemberships)
	applyString(&m.Projects, patch.Projects)
	applyString(&m.PushToken, patch.PushToken)

	if patch.BirthDate.IsSpecified() {
		if patch.BirthDate.IsNull() {
			m.BirthDate = nil
		} else {
			v := patch.BirthDate.Value()
			m.BirthDate = &v
		}
	}
	if patch.MaritalStatus.IsSpecified() {
		if patch.MaritalStatus.IsNull() {
			m.MaritalStatus = nil
		} else {
			v := patch.MaritalStatus.Value()
			m.MaritalStatus = &v
		}
	}
	if patch.Gender.IsSpecified() {
		if patch.Gender.IsNull() {
			m.Gender = domain.GenderUnset
		} else {
			m.Gender = patch.Gender.Value()
		}
	}
	if patch.Websites.IsSpecified() {
		if patch.Websites.IsNull() {
			m.Websites = nil
		} else {
			m.Websites = domain.FilterBlank(patch.Websites.Value())
		}
	}
	if patch.Education.IsSpecified() {
		if patch.Education.IsNull() {
			m.Education = nil
		} else {
			m.Education = patch.Education.Value()
		}
	}
	if patch.Languages.IsSpecified() {
		if patch.Languages.IsNull() {
			m.Languages = nil
		} else {
			m.Languages = patch.Languages.Value()
		}
	}

	now := s.clk.Now()
	applyConsent(&m.MembershipConsent, patch.MembershipConsent, now)
	applyConsent(&m.NewsletterConsent, patch.NewsletterConsent, now)
	applyConsent(&m.PhotoConsent, patch.PhotoConsent, now)

	m.UpdatedAt = now
	if err := s.repo.Update(ctx, m); err != nil {
		return domain.Member{}, err
	}
	return m, nil
}

func applyString(dst **string, o Optional[string]) {
	if !o.IsSpecified() {
		return
	}
	if o.IsNull() {
		*dst = nil
		return
	}
	v := o.Value()
	*dst = &v
}

func applyConsent(c *domain.Consent, o Optional[bool], now time.Time) {
	if !o.IsSpecified() || o.IsNull() {
		return
	}
	given := o.Value()
	if given && !c.Given {
		t := now
		c.AcceptedAt = &t
	}
	if !given {
		c.AcceptedAt = nil
	}
	c.Given = given
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("must be non-empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return err
	}
	// Ensure no "Name <email@x>" format sneaks in.
	if addr.Address != email {
		return errors.New("must be a bare email address")
	}
	return nil
}

func validateRoles(roles []domain.BoardRole) error {
	for _, r := range roles {
		if !domain.ValidRole(r) {
			return errors.New("unknown role tag: " + string(r))
		}
	}
	return nil
}

// normalizeRoles deduplicates tags while preserving first-seen order. The
// stored value is always a list, never null.
func normalizeRoles(roles []domain.BoardRole) []domain.BoardRole {
	out := make([]domain.BoardRole, 0, len(roles))
	for _, r := range roles {
		if !domain.HasRole(out, r) {
			out = append(out, r)
		}
	}
	return out
}

const tempPasswordLetters = "abcdefghijkmnpqrstuvwxyz23456789"

// generateTempPassword builds an 8-char random string plus a fixed suffix that
// satisfies the auth service's complexity rules.
func generateTempPassword() string {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(tempPasswordLetters))))
		if err != nil {
			// crypto/rand failing is unrecoverable for account provisioning.
			panic(err)
		}
		b.WriteByte(tempPasswordLetters[n.Int64()])
	}
	b.WriteString("Aa1!")
	return b.String()
}
