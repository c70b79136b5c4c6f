package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	"github.com/oapi-codegen/runtime/types"

	"github.com/gyiad-org/membership-api/internal/app/members"
	"github.com/gyiad-org/membership-api/internal/domain"
	"github.com/gyiad-org/membership-api/internal/ports/out/requestrepo"
)

// Wire field names keep the original snake_case vocabulary: the stored member
// type travels as membership_status, the start date as membership_start_date.

// EducationEntry is the wire form of one education row.
type EducationEntry struct {
	Level      string `json:"level"`
	School     string `json:"school"`
	Department string `json:"department"`
	Year       string `json:"year"`
}

// ConsentView is one consent flag with its acceptance timestamp.
type ConsentView struct {
	Given      bool                         `json:"given"`
	AcceptedAt nullable.Nullable[time.Time] `json:"accepted_at"`
}

// CardView is one directory card.
type CardView struct {
	ID          string                    `json:"id"`
	FullName    string                    `json:"full_name"`
	CompanyName string                    `json:"company_name"`
	Role        string                    `json:"role"`
	AvatarURL   nullable.Nullable[string] `json:"avatar_url"`
}

// MemberView is the full member projection for detail, profile and admin
// responses.
type MemberView struct {
	ID        string                    `json:"id"`
	FullName  string                    `json:"full_name"`
	Email     types.Email               `json:"email"`
	Phone     nullable.Nullable[string] `json:"phone"`
	AvatarURL nullable.Nullable[string] `json:"avatar_url"`

	MembershipCategory  string                        `json:"membership_category"`
	MembershipStatus    string                        `json:"membership_status"`
	BoardRoles          []string                      `json:"board_roles"`
	CardRole            nullable.Nullable[string]     `json:"card_role"`
	MembershipStartDate nullable.Nullable[types.Date] `json:"membership_start_date"`
	MembershipEndDate   nullable.Nullable[types.Date] `json:"membership_end_date"`

	BirthDate     nullable.Nullable[types.Date] `json:"birth_date"`
	MaritalStatus nullable.Nullable[string]     `json:"marital_status"`
	Gender        string                        `json:"gender"`

	CompanyName       string                    `json:"company_name"`
	CompanyAddress    nullable.Nullable[string] `json:"company_address"`
	Position          nullable.Nullable[string] `json:"position"`
	Sector            nullable.Nullable[string] `json:"sector"`
	BusinessArea      nullable.Nullable[string] `json:"business_area"`
	CompanyTurnover   nullable.Nullable[string] `json:"company_turnover"`
	NumberOfEmployees nullable.Nullable[string] `json:"number_of_employees"`

	LinkedInURL nullable.Nullable[string] `json:"linkedin_url"`
	Websites    []string                  `json:"websites"`

	Education        []EducationEntry          `json:"education"`
	Languages        []string                  `json:"languages"`
	OtherMemberships nullable.Nullable[string] `json:"other_memberships"`
	Projects         nullable.Nullable[string] `json:"projects"`

	MembershipConsent ConsentView `json:"membership_consent"`
	NewsletterConsent ConsentView `json:"newsletter_consent"`
	PhotoConsent      ConsentView `json:"photo_consent"`

	IsHidden bool `json:"is_hidden"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RequestView is one member request.
type RequestView struct {
	ID         string                       `json:"id"`
	MemberID   string                       `json:"member_id"`
	Subject    string                       `json:"subject"`
	Message    string                       `json:"message"`
	Status     string                       `json:"status"`
	AdminReply nullable.Nullable[string]    `json:"admin_reply"`
	RepliedAt  nullable.Nullable[time.Time] `json:"replied_at"`
	CreatedAt  time.Time                    `json:"created_at"`
}

// RequestWithMemberView joins a request with its owner's summary for the admin
// listing.
type RequestWithMemberView struct {
	RequestView
	Member struct {
		FullName  string                    `json:"full_name"`
		Email     types.Email               `json:"email"`
		AvatarURL nullable.Nullable[string] `json:"avatar_url"`
	} `json:"member"`
}

// AdminMemberForm is the admin create/edit form. Date fields travel as
// "2006-01-02" strings; blank means unset.
type AdminMemberForm struct {
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`

	MembershipCategory  string   `json:"membership_category"`
	MembershipStatus    string   `json:"membership_status"`
	MembershipStartDate string   `json:"membership_start_date"`
	MembershipEndDate   string   `json:"membership_end_date"`
	BoardRoles          []string `json:"board_roles"`
	CardRole            *string  `json:"card_role"`

	BirthDate     string  `json:"birth_date"`
	MaritalStatus *string `json:"marital_status"`
	Gender        string  `json:"gender"`

	CompanyName       string  `json:"company_name"`
	CompanyAddress    *string `json:"company_address"`
	Position          *string `json:"position"`
	Sector            *string `json:"sector"`
	BusinessArea      *string `json:"business_area"`
	CompanyTurnover   *string `json:"company_turnover"`
	NumberOfEmployees *string `json:"number_of_employees"`

	LinkedInURL      *string          `json:"linkedin_url"`
	Websites         []string         `json:"websites"`
	Education        []EducationEntry `json:"education"`
	Languages        []string         `json:"languages"`
	OtherMemberships *string          `json:"other_memberships"`
	Projects         *string          `json:"projects"`

	IsHidden bool `json:"is_hidden"`
}

// ProfilePatchRequest is the member self-service patch. Every field is
// tri-state: omitted, null, or a value.
type ProfilePatchRequest struct {
	FullName nullable.Nullable[string] `json:"full_name,omitempty"`
	Phone    nullable.Nullable[string] `json:"phone,omitempty"`

	CompanyName       nullable.Nullable[string] `json:"company_name,omitempty"`
	CompanyAddress    nullable.Nullable[string] `json:"company_address,omitempty"`
	Position          nullable.Nullable[string] `json:"position,omitempty"`
	Sector            nullable.Nullable[string] `json:"sector,omitempty"`
	BusinessArea      nullable.Nullable[string] `json:"business_area,omitempty"`
	CompanyTurnover   nullable.Nullable[string] `json:"company_turnover,omitempty"`
	NumberOfEmployees nullable.Nullable[string] `json:"number_of_employees,omitempty"`

	BirthDate     nullable.Nullable[types.Date] `json:"birth_date,omitempty"`
	MaritalStatus nullable.Nullable[string]     `json:"marital_status,omitempty"`
	Gender        nullable.Nullable[string]     `json:"gender,omitempty"`

	LinkedInURL      nullable.Nullable[string]           `json:"linkedin_url,omitempty"`
	Websites         nullable.Nullable[[]string]         `json:"websites,omitempty"`
	Education        nullable.Nullable[[]EducationEntry] `json:"education,omitempty"`
	Languages        nullable.Nullable[[]string]         `json:"languages,omitempty"`
	OtherMemberships nullable.Nullable[string]           `json:"other_memberships,omitempty"`
	Projects         nullable.Nullable[string]           `json:"projects,omitempty"`

	PushToken nullable.Nullable[string] `json:"push_token,omitempty"`

	MembershipConsent nullable.Nullable[bool] `json:"membership_consent,omitempty"`
	NewsletterConsent nullable.Nullable[bool] `json:"newsletter_consent,omitempty"`
	PhotoConsent      nullable.Nullable[bool] `json:"photo_consent,omitempty"`
}

// --- view mapping ---

func nullableFromPtr[T any](p *T) nullable.Nullable[T] {
	if p == nil {
		return nullable.NewNullNullable[T]()
	}
	return nullable.NewNullableWithValue(*p)
}

func nullableDate(p *time.Time) nullable.Nullable[types.Date] {
	if p == nil {
		return nullable.NewNullNullable[types.Date]()
	}
	return nullable.NewNullableWithValue(types.Date{Time: *p})
}

func consentView(c domain.Consent) ConsentView {
	return ConsentView{
		Given:      c.Given,
		AcceptedAt: nullableFromPtr(c.AcceptedAt),
	}
}

func roleStrings(roles []domain.BoardRole) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

func educationViews(es []domain.Education) []EducationEntry {
	out := make([]EducationEntry, 0, len(es))
	for _, e := range es {
		out = append(out, EducationEntry(e))
	}
	return out
}

func emptyIfNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func memberView(m domain.Member) MemberView {
	var marital nullable.Nullable[string]
	if m.MaritalStatus != nil {
		marital = nullable.NewNullableWithValue(string(*m.MaritalStatus))
	} else {
		marital = nullable.NewNullNullable[string]()
	}
	return MemberView{
		ID:        string(m.ID),
		FullName:  m.FullName,
		Email:     types.Email(m.Email),
		Phone:     nullableFromPtr(m.Phone),
		AvatarURL: nullableFromPtr(m.AvatarURL),

		MembershipCategory:  string(m.MembershipCategory),
		MembershipStatus:    string(m.MemberType),
		BoardRoles:          roleStrings(m.BoardRoles),
		CardRole:            nullableFromPtr(m.CardRole),
		MembershipStartDate: nullableDate(m.MembershipDate),
		MembershipEndDate:   nullableDate(m.MembershipEndDate),

		BirthDate:     nullableDate(m.BirthDate),
		MaritalStatus: marital,
		Gender:        string(m.Gender),

		CompanyName:       m.CompanyName,
		CompanyAddress:    nullableFromPtr(m.CompanyAddress),
		Position:          nullableFromPtr(m.Position),
		Sector:            nullableFromPtr(m.Sector),
		BusinessArea:      nullableFromPtr(m.BusinessArea),
		CompanyTurnover:   nullableFromPtr(m.CompanyTurnover),
		NumberOfEmployees: nullableFromPtr(m.NumberOfEmployees),

		LinkedInURL: nullableFromPtr(m.LinkedInURL),
		Websites:    emptyIfNil(m.Websites),

		Education:        educationViews(m.Education),
		Languages:        emptyIfNil(m.Languages),
		OtherMemberships: nullableFromPtr(m.OtherMemberships),
		Projects:         nullableFromPtr(m.Projects),

		MembershipConsent: consentView(m.MembershipConsent),
		NewsletterConsent: consentView(m.NewsletterConsent),
		PhotoConsent:      consentView(m.PhotoConsent),

		IsHidden: m.IsHidden,

		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func requestView(r domain.Request) RequestView {
	return RequestView{
		ID:         string(r.ID),
		MemberID:   string(r.MemberID),
		Subject:    r.Subject,
		Message:    r.Message,
		Status:     string(r.Status),
		AdminReply: nullableFromPtr(r.AdminReply),
		RepliedAt:  nullableFromPtr(r.RepliedAt),
		CreatedAt:  r.CreatedAt,
	}
}

func requestWithMemberView(row requestrepo.RequestWithMember) RequestWithMemberView {
	out := RequestWithMemberView{RequestView: requestView(row.Request)}
	out.Member.FullName = row.Member.FullName
	out.Member.Email = types.Email(row.Member.Email)
	out.Member.AvatarURL = nullableFromPtr(row.Member.AvatarURL)
	return out
}

// --- form mapping ---

func parseFormDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formRoles(ss []string) []domain.BoardRole {
	out := make([]domain.BoardRole, 0, len(ss))
	for _, s := range ss {
		out = append(out, domain.BoardRole(s))
	}
	return out
}

func formEducation(es []EducationEntry) []domain.Education {
	out := make([]domain.Education, 0, len(es))
	for _, e := range es {
		out = append(out, domain.Education(e))
	}
	return out
}

func formMarital(p *string) *domain.MaritalStatus {
	if p == nil {
		return nil
	}
	v := domain.MaritalStatus(*p)
	return &v
}

type formDateError struct {
	field string
}

func (e *formDateError) Error() string {
	return "invalid date in field " + e.field
}

// formDates parses the three date strings of an admin form.
func formDates(f AdminMemberForm) (start, end, birth *time.Time, err error) {
	if start, err = parseFormDate(f.MembershipStartDate); err != nil {
		return nil, nil, nil, &formDateError{field: "membership_start_date"}
	}
	if end, err = parseFormDate(f.MembershipEndDate); err != nil {
		return nil, nil, nil, &formDateError{field: "membership_end_date"}
	}
	if birth, err = parseFormDate(f.BirthDate); err != nil {
		return nil, nil, nil, &formDateError{field: "birth_date"}
	}
	return start, end, birth, nil
}

func createInputFromForm(f AdminMemberForm) (members.CreateMemberInput, error) {
	start, end, birth, err := formDates(f)
	if err != nil {
		return members.CreateMemberInput{}, err
	}
	return members.CreateMemberInput{
		FullName:           f.FullName,
		Email:              f.Email,
		Phone:              f.Phone,
		MembershipCategory: domain.MembershipCategory(f.MembershipCategory),
		MemberType:         domain.MemberType(f.MembershipStatus),
		MembershipDate:     start,
		MembershipEndDate:  end,
		BoardRoles:         formRoles(f.BoardRoles),
		CardRole:           f.CardRole,
		CompanyName:        f.CompanyName,
		CompanyAddress:     f.CompanyAddress,
		Position:           f.Position,
		Sector:             f.Sector,
		BirthDate:          birth,
		MaritalStatus:      formMarital(f.MaritalStatus),
		Gender:             domain.Gender(f.Gender),
		LinkedInURL:        f.LinkedInURL,
		Websites:           f.Websites,
		Education:          formEducation(f.Education),
		Languages:          f.Languages,
		OtherMemberships:   f.OtherMemberships,
		Projects:           f.Projects,
	}, nil
}

func updateInputFromForm(f AdminMemberForm) (members.AdminUpdateInput, error) {
	start, end, birth, err := formDates(f)
	if err != nil {
		return members.AdminUpdateInput{}, err
	}
	return members.AdminUpdateInput{
		FullName:           f.FullName,
		Email:              f.Email,
		Phone:              f.Phone,
		MembershipCategory: domain.MembershipCategory(f.MembershipCategory),
		MemberType:         domain.MemberType(f.MembershipStatus),
		MembershipDate:     start,
		MembershipEndDate:  end,
		BoardRoles:         formRoles(f.BoardRoles),
		CardRole:           f.CardRole,
		CompanyName:        f.CompanyName,
		CompanyAddress:     f.CompanyAddress,
		Position:           f.Position,
		Sector:             f.Sector,
		BusinessArea:       f.BusinessArea,
		CompanyTurnover:    f.CompanyTurnover,
		NumberOfEmployees:  f.NumberOfEmployees,
		BirthDate:          birth,
		MaritalStatus:      formMarital(f.MaritalStatus),
		Gender:             domain.Gender(f.Gender),
		LinkedInURL:        f.LinkedInURL,
		Websites:           f.Websites,
		Education:          formEducation(f.Education),
		Languages:          f.Languages,
		OtherMemberships:   f.OtherMemberships,
		Projects:           f.Projects,
		IsHidden:           f.IsHidden,
	}, nil
}

// --- patch mapping ---

func optString(n nullable.Nullable[string]) members.Optional[string] {
	if !n.IsSpecified() {
		return members.Unspecified[string]()
	}
	if n.IsNull() {
		return members.Null[string]()
	}
	return members.Some(n.MustGet())
}

func optBool(n nullable.Nullable[bool]) members.Optional[bool] {
	if !n.IsSpecified() {
		return members.Unspecified[bool]()
	}
	if n.IsNull() {
		return members.Null[bool]()
	}
	return members.Some(n.MustGet())
}

func optStrings(n nullable.Nullable[[]string]) members.Optional[[]string] {
	if !n.IsSpecified() {
		return members.Unspecified[[]string]()
	}
	if n.IsNull() {
		return members.Null[[]string]()
	}
	return members.Some(n.MustGet())
}

func profilePatchFromRequest(req ProfilePatchRequest) members.ProfilePatch {
	p := members.ProfilePatch{
		FullName:          optString(req.FullName),
		Phone:             optString(req.Phone),
		CompanyName:       optString(req.CompanyName),
		CompanyAddress:    optString(req.CompanyAddress),
		Position:          optString(req.Position),
		Sector:            optString(req.Sector),
		BusinessArea:      optString(req.BusinessArea),
		CompanyTurnover:   optString(req.CompanyTurnover),
		NumberOfEmployees: optString(req.NumberOfEmployees),
		LinkedInURL:       optString(req.LinkedInURL),
		Websites:          optStrings(req.Websites),
		Languages:         optStrings(req.Languages),
		OtherMemberships:  optString(req.OtherMemberships),
		Projects:          optString(req.Projects),
		PushToken:         optString(req.PushToken),
		MembershipConsent: optBool(req.MembershipConsent),
		NewsletterConsent: optBool(req.NewsletterConsent),
		PhotoConsent:      optBool(req.PhotoConsent),
	}

	if req.BirthDate.IsSpecified() {
		if req.BirthDate.IsNull() {
			p.BirthDate = members.Null[time.Time]()
		} else {
			p.BirthDate = members.Some(req.BirthDate.MustGet().Time)
		}
	}
	if req.MaritalStatus.IsSpecified() {
		if req.MaritalStatus.IsNull() {
			p.MaritalStatus = members.Null[domain.MaritalStatus]()
		} else {
			p.MaritalStatus = members.Some(domain.MaritalStatus(req.MaritalStatus.MustGet()))
		}
	}
	if req.Gender.IsSpecified() {
		if req.Gender.IsNull() {
			p.Gender = members.Null[domain.Gender]()
		} else {
			p.Gender = members.Some(domain.Gender(req.Gender.MustGet()))
		}
	}
	if req.Education.IsSpecified() {
		if req.Education.IsNull() {
			p.Education = members.Null[[]domain.Education]()
		} else {
			p.Education = members.Some(formEducation(req.Education.MustGet()))
		}
	}
	return p
}
