package domain

import "time"

// RequestStatus is the lifecycle state of a member request.
// The transition is one-way: pending -> replied, exactly once.
type RequestStatus string

const (
	RequestPending RequestStatus = "pending"
	RequestReplied RequestStatus = "replied"
)

// Request is a member-submitted message to the organization.
type Request struct {
	ID       RequestID
	MemberID MemberID

	Subject string
	Message string

	Status     RequestStatus
	AdminReply *string
	RepliedAt  *time.Time

	CreatedAt time.Time
}
