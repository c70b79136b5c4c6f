package memberrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/gyiad-org/membership-api/internal/adapters/postgres"
	"github.com/gyiad-org/membership-api/internal/domain"
	"github.com/gyiad-org/membership-api/internal/ports/out/memberrepo"
)

// Repo is a Postgres implementation of memberrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const memberColumns = `
	m.id,
	m.full_name,
	m.email,
	m.phone,
	m.avatar_url,
	m.membership_category,
	m.member_type,
	m.board_roles,
	m.card_role,
	m.birth_date,
	m.marital_status,
	m.gender,
	m.company_name,
	m.company_address,
	m.position,
	m.sector,
	m.business_area,
	m.company_turnover,
	m.number_of_employees,
	m.linkedin_url,
	m.websites,
	m.education,
	m.languages,
	m.other_memberships,
	m.projects,
	m.membership_consent,
	m.membership_consent_at,
	m.newsletter_consent,
	m.newsletter_consent_at,
	m.photo_consent,
	m.photo_consent_at,
	m.is_hidden,
	m.is_admin,
	m.membership_date,
	m.membership_end_date,
	m.push_token,
	m.reset_code,
	m.reset_expires_at,
	m.created_at,
	m.updated_at`

// insertMemberSQL and updateMemberSQL share one argument list
// (createUpdateArgs) and must both reference every placeholder: pgx sends
// statements without declared parameter types, and PostgreSQL rejects a
// statement whose parameter type it cannot infer from usage.
const insertMemberSQL = `
	INSERT INTO members (
		id, full_name, email, phone, avatar_url,
		membership_category, member_type, board_roles, card_role,
		birth_date, marital_status, gender,
		company_name, company_address, position, sector, business_area,
		company_turnover, number_of_employees,
		linkedin_url, websites, education, languages,
		other_memberships, projects,
		membership_consent, membership_consent_at,
		newsletter_consent, newsletter_consent_at,
		photo_consent, photo_consent_at,
		is_hidden, is_admin,
		membership_date, membership_end_date,
		push_token, reset_code, reset_expires_at,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9,
		$10, $11, $12,
		$13, $14, $15, $16, $17,
		$18, $19,
		$20, $21, $22, $23,
		$24, $25,
		$26, $27,
		$28, $29,
		$30, $31,
		$32, $33,
		$34, $35,
		$36, $37, $38,
		$39, $40
	)
`

const updateMemberSQL = `
	UPDATE members SET
		full_name = $2, email = $3, phone = $4, avatar_url = $5,
		membership_category = $6, member_type = $7, board_roles = $8, card_role = $9,
		birth_date = $10, marital_status = $11, gender = $12,
		company_name = $13, company_address = $14, position = $15, sector = $16, business_area = $17,
		company_turnover = $18, number_of_employees = $19,
		linkedin_url = $20, websites = $21, education = $22, languages = $23,
		other_memberships = $24, projects = $25,
		membership_consent = $26, membership_consent_at = $27,
		newsletter_consent = $28, newsletter_consent_at = $29,
		photo_consent = $30, photo_consent_at = $31,
		is_hidden = $32, is_admin = $33,
		membership_date = $34, membership_end_date = $35,
		push_token = $36, reset_code = $37, reset_expires_at = $38,
		created_at = $39, updated_at = $40
	WHERE id = $1
`

func (r *Repo) Create(ctx context.Context, m domain.Member) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(m.ID))
	if err != nil {
		return fmt.Errorf("invalid member id: %w", err)
	}
	edu, err := marshalEducation(m.Education)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, insertMemberSQL, createUpdateArgs(id, m, edu)...)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			switch pe.ConstraintName {
			case "members_email_unique":
				return memberrepo.ErrEmailAlreadyBound
			case "members_pkey":
				return memberrepo.ErrAlreadyExists
			default:
				return err
			}
		}
		return err
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, m domain.Member) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(m.ID))
	if err != nil {
		return fmt.Errorf("invalid member id: %w", err)
	}
	edu, err := marshalEducation(m.Education)
	if err != nil {
		return err
	}

	ct, err := r.pool.Exec(ctx, updateMemberSQL, createUpdateArgs(id, m, edu)...)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode && pe.ConstraintName == "members_email_unique" {
			return memberrepo.ErrEmailAlreadyBound
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return memberrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.MemberID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return memberrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, uid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return memberrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.MemberID) (domain.Member, error) {
	if r.pool == nil {
		return domain.Member{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Member{}, memberrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members m WHERE m.id = $1`, uid)
	return scanMember(row)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	if r.pool == nil {
		return domain.Member{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members m WHERE lower(m.email) = lower($1)`, email)
	return scanMember(row)
}

func (r *Repo) List(ctx context.Context) ([]domain.Member, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+memberColumns+`
		FROM members m
		ORDER BY lower(m.full_name) ASC, m.id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// --- helpers ---

// eduRow is the jsonb serialization of one education entry.
type eduRow struct {
	Level      string `json:"level"`
	School     string `json:"school"`
	Department string `json:"department"`
	Year       string `json:"year"`
}

func marshalEducation(es []domain.Education) ([]byte, error) {
	rows := make([]eduRow, 0, len(es))
	for _, e := range es {
		rows = append(rows, eduRow(e))
	}
	return json.Marshal(rows)
}

func unmarshalEducation(raw []byte) ([]domain.Education, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var rows []eduRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode education: %w", err)
	}
	out := make([]domain.Education, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Education(r))
	}
	return out, nil
}

func createUpdateArgs(id uuid.UUID, m domain.Member, edu []byte) []any {
	roles := make([]string, 0, len(m.BoardRoles))
	for _, r := range m.BoardRoles {
		roles = append(roles, string(r))
	}
	var marital *string
	if m.MaritalStatus != nil {
		v := string(*m.MaritalStatus)
		marital = &v
	}
	// Array columns are NOT NULL; nil slices must encode as empty arrays.
	websites := m.Websites
	if websites == nil {
		websites = []string{}
	}
	languages := m.Languages
	if languages == nil {
		languages = []string{}
	}
	return []any{
		id, m.FullName, m.Email, m.Phone, m.AvatarURL,
		string(m.MembershipCategory), string(m.MemberType), roles, m.CardRole,
		m.BirthDate, marital, string(m.Gender),
		m.CompanyName, m.CompanyAddress, m.Position, m.Sector, m.BusinessArea,
		m.CompanyTurnover, m.NumberOfEmployees,
		m.LinkedInURL, websites, edu, languages,
		m.OtherMemberships, m.Projects,
		m.MembershipConsent.Given, m.MembershipConsent.AcceptedAt,
		m.NewsletterConsent.Given, m.NewsletterConsent.AcceptedAt,
		m.PhotoConsent.Given, m.PhotoConsent.AcceptedAt,
		m.IsHidden, m.IsAdmin,
		m.MembershipDate, m.MembershipEndDate,
		m.PushToken, m.ResetCode, m.ResetExpiresAt,
		m.CreatedAt.UTC(), m.UpdatedAt.UTC(),
	}
}

func scanMember(row interface {
	Scan(dest ...any) error
}) (domain.Member, error) {
	var (
		id                 uuid.UUID
		fullName           string
		email              string
		phone              *string
		avatarURL          *string
		membershipCategory string
		memberType         string
		roles              []string
		cardRole           *string
		birthDate          *time.Time
		marital            *string
		gender             string
		companyName        string
		companyAddress     *string
		position           *string
		sector             *string
		businessArea       *string
		companyTurnover    *string
		numberOfEmployees  *string
		linkedInURL        *string
		websites           []string
		eduRaw             []byte
		languages          []string
		otherMemberships   *string
		projects           *string
		membershipConsent  bool
		membershipAt       *time.Time
		newsletterConsent  bool
		newsletterAt       *time.Time
		photoConsent       bool
		photoAt            *time.Time
		isHidden           bool
		isAdmin            bool
		membershipDate     *time.Time
		membershipEndDate  *time.Time
		pushToken          *string
		resetCode          *string
		resetExpiresAt     *time.Time
		createdAt          time.Time
		updatedAt          time.Time
	)
	if err := row.Scan(
		&id, &fullName, &email, &phone, &avatarURL,
		&membershipCategory, &memberType, &roles, &cardRole,
		&birthDate, &marital, &gender,
		&companyName, &companyAddress, &position, &sector, &businessArea,
		&companyTurnover, &numberOfEmployees,
		&linkedInURL, &websites, &eduRaw, &languages,
		&otherMemberships, &projects,
		&membershipConsent, &membershipAt,
		&newsletterConsent, &newsletterAt,
		&photoConsent, &photoAt,
		&isHidden, &isAdmin,
		&membershipDate, &membershipEndDate,
		&pushToken, &resetCode, &resetExpiresAt,
		&createdAt, &updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, memberrepo.ErrNotFound
		}
		return domain.Member{}, err
	}

	edu, err := unmarshalEducation(eduRaw)
	if err != nil {
		return domain.Member{}, err
	}
	boardRoles := make([]domain.BoardRole, 0, len(roles))
	for _, r := range roles {
		boardRoles = append(boardRoles, domain.BoardRole(r))
	}
	var maritalStatus *domain.MaritalStatus
	if marital != nil {
		v := domain.MaritalStatus(*marital)
		maritalStatus = &v
	}

	return domain.Member{
		ID:                 domain.MemberID(id.String()),
		FullName:           fullName,
		Email:              email,
		Phone:              phone,
		AvatarURL:          avatarURL,
		MembershipCategory: domain.MembershipCategory(membershipCategory),
		MemberType:         domain.MemberType(memberType),
		BoardRoles:         boardRoles,
		CardRole:           cardRole,
		BirthDate:          birthDate,
		MaritalStatus:      maritalStatus,
		Gender:             domain.Gender(gender),
		CompanyName:        companyName,
		CompanyAddress:     companyAddress,
		Position:           position,
		Sector:             sector,
		BusinessArea:       businessArea,
		CompanyTurnover:    companyTurnover,
		NumberOfEmployees:  numberOfEmployees,
		LinkedInURL:        linkedInURL,
		Websites:           websites,
		Education:          edu,
		Languages:          languages,
		OtherMemberships:   otherMemberships,
		Projects:           projects,
		MembershipConsent:  domain.Consent{Given: membershipConsent, AcceptedAt: membershipAt},
		NewsletterConsent:  domain.Consent{Given: newsletterConsent, AcceptedAt: newsletterAt},
		PhotoConsent:       domain.Consent{Given: photoConsent, AcceptedAt: photoAt},
		IsHidden:           isHidden,
		IsAdmin:            isAdmin,
		MembershipDate:     membershipDate,
		MembershipEndDate:  membershipEndDate,
		PushToken:          pushToken,
		ResetCode:          resetCode,
		ResetExpiresAt:     resetExpiresAt,
		CreatedAt:          createdAt.UTC(),
		UpdatedAt:          updatedAt.UTC(),
	}, nil
}
