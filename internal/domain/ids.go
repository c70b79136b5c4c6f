package domain

// SubjectID is the authenticated subject extracted from JWT claims (typically "sub").
// The hosted auth service uses the member's UUID as the subject, so for a
// provisioned member SubjectID and MemberID carry the same value.
type SubjectID string

// MemberID is the identifier of a member record.
type MemberID string

// RequestID is the identifier of a member request record.
type RequestID string
