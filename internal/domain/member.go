package domain

import "time"

// MemberType is the single primary membership status. It is independent of
// board role tags: "founder" can appear as a type, a role tag, or both.
type MemberType string

const (
	TypeActive   MemberType = "active"
	TypeHonorary MemberType = "honorary"
	TypeFounder  MemberType = "founder"
	TypeLeft     MemberType = "left"
)

// MembershipCategory distinguishes person and organization records.
type MembershipCategory string

const (
	CategoryIndividual MembershipCategory = "individual"
	CategoryCorporate  MembershipCategory = "corporate"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnset  Gender = ""
)

type MaritalStatus string

const (
	MaritalSingle  MaritalStatus = "single"
	MaritalMarried MaritalStatus = "married"
)

// Education is one user-managed education entry. Entries are ordered and carry
// no uniqueness constraint.
type Education struct {
	Level      string
	School     string
	Department string
	Year       string
}

// Consent is one KVKK-style consent flag with its acceptance timestamp.
// AcceptedAt is nil while Given is false or when the flag predates stamping.
type Consent struct {
	Given      bool
	AcceptedAt *time.Time
}

// Member is the domain representation of a member record.
type Member struct {
	ID MemberID

	FullName  string
	Email     string
	Phone     *string
	AvatarURL *string

	MembershipCategory MembershipCategory
	MemberType         MemberType
	BoardRoles         []BoardRole
	// CardRole, when set, overrides the computed primary-role label on
	// directory cards.
	CardRole *string

	BirthDate     *time.Time
	MaritalStatus *MaritalStatus
	Gender        Gender

	CompanyName       string
	CompanyAddress    *string
	Position          *string
	Sector            *string
	BusinessArea      *string
	CompanyTurnover   *string
	NumberOfEmployees *string

	LinkedInURL *string
	Websites    []string

	Education        []Education
	Languages        []string
	OtherMemberships *string
	Projects         *string

	MembershipConsent Consent
	NewsletterConsent Consent
	PhotoConsent      Consent

	// IsHidden excludes the member from member-facing listings while keeping
	// self-service access intact.
	IsHidden bool
	// IsAdmin marks system/staff accounts. Admin accounts are excluded from
	// member-facing and most admin-facing listings.
	IsAdmin bool

	MembershipDate    *time.Time
	MembershipEndDate *time.Time

	PushToken *string

	// Transient password-reset state, cleared after consumption.
	ResetCode      *string
	ResetExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFounder reports whether the member counts as a founder. Both axes are
// checked: the member type and the founder role tag (union, not intersection).
func (m Member) IsFounder() bool {
	return m.MemberType == TypeFounder || HasRole(m.BoardRoles, RoleFounder)
}

// Age returns the member's whole-years age at ref, decremented when ref's
// month/day has not yet reached the birth month/day. ok is false when no birth
// date is recorded.
func (m Member) Age(ref time.Time) (age int, ok bool) {
	if m.BirthDate == nil {
		return 0, false
	}
	b := *m.BirthDate
	age = ref.Year() - b.Year()
	if ref.Month() < b.Month() || (ref.Month() == b.Month() && ref.Day() < b.Day()) {
		age--
	}
	return age, true
}

// JoinedIn reports whether the membership start date falls in year y.
func (m Member) JoinedIn(y int) bool {
	return m.MembershipDate != nil && m.MembershipDate.Year() == y
}

// LeftIn reports whether the member left in year y.
func (m Member) LeftIn(y int) bool {
	return m.MemberType == TypeLeft && m.MembershipEndDate != nil && m.MembershipEndDate.Year() == y
}
