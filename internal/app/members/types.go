package members

import (
	"time"

	"github.com/gyiad-org/membership-api/internal/domain"
)

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// CreateMemberInput is the admin create form, already translated from form
// field names to the stored vocabulary (membership_status -> member type,
// membership_start_date -> membership date) by the HTTP layer.
type CreateMemberInput struct {
	FullName string
	Email    string
	Phone    *string

	MembershipCategory domain.MembershipCategory
	MemberType         domain.MemberType
	MembershipDate     *time.Time
	MembershipEndDate  *time.Time
	BoardRoles         []domain.BoardRole
	CardRole           *string

	CompanyName    string
	CompanyAddress *string
	Position       *string
	Sector         *string
	BirthDate      *time.Time
	// MaritalStatus defaults to single when absent on creation.
	MaritalStatus *domain.MaritalStatus
	Gender        domain.Gender

	LinkedInURL      *string
	Websites         []string
	Education        []domain.Education
	Languages        []string
	OtherMemberships *string
	Projects         *string
}

// AdminUpdateInput is the admin edit form: a full replacement of the editable
// fields, with the same form-to-store translation as CreateMemberInput.
// Pointer fields arriving nil clear the stored value (the HTTP layer maps
// blank date strings to nil before the input reaches the service).
type AdminUpdateInput struct {
	FullName string
	Email    string
	Phone    *string

	MembershipCategory domain.MembershipCategory
	MemberType         domain.MemberType
	MembershipDate     *time.Time
	MembershipEndDate  *time.Time
	BoardRoles         []domain.BoardRole
	CardRole           *string

	CompanyName       string
	CompanyAddress    *string
	Position          *string
	Sector            *string
	BusinessArea      *string
	CompanyTurnover   *string
	NumberOfEmployees *string
	BirthDate         *time.Time
	MaritalStatus     *domain.MaritalStatus
	Gender            domain.Gender

	LinkedInURL      *string
	Websites         []string
	Education        []domain.Education
	Languages        []string
	OtherMemberships *string
	Projects         *string

	IsHidden bool
}

// ProfilePatch is the member self-service update. Every field is tri-state so
// an omitted field leaves the stored value untouched.
type ProfilePatch struct {
	FullName Optional[string]
	Phone    Optional[string]

	CompanyName       Optional[string]
	CompanyAddress    Optional[string]
	Position          Optional[string]
	Sector            Optional[string]
	BusinessArea      Optional[string]
	CompanyTurnover   Optional[string]
	NumberOfEmployees Optional[string]

	BirthDate     Optional[time.Time]
	MaritalStatus Optional[domain.MaritalStatus]
	Gender        Optional[domain.Gender]

	LinkedInURL      Optional[string]
	Websites         Optional[[]string]
	Education        Optional[[]domain.Education]
	Languages        Optional[[]string]
	OtherMemberships Optional[string]
	Projects         Optional[string]

	PushToken Optional[string]

	MembershipConsent Optional[bool]
	NewsletterConsent Optional[bool]
	PhotoConsent      Optional[bool]
}

// CreateResult reports a member creation, including the partial-success case
// where the account and record exist but the welcome email failed.
type CreateResult struct {
	Member domain.Member
	// Warning is non-empty when a follow-up notification failed; the create
	// itself still succeeded.
	Warning string
	// TempPassword is surfaced only when the welcome email could not deliver
	// it, so the admin can hand it over manually.
	TempPassword string
}
