package requestrepo

import (
	"context"

	"github.com/gyiad-org/membership-api/internal/domain"
)

// MemberSummary is the joined member projection returned with admin request
// listings.
type MemberSummary struct {
	FullName  string
	Email     string
	AvatarURL *string
}

// RequestWithMember pairs a request with its owner's summary.
type RequestWithMember struct {
	Request domain.Request
	Member  MemberSummary
}

// Repository provides access to persisted member requests.
//
// Listings are ordered by CreatedAt descending (newest first).
type Repository interface {
	Create(ctx context.Context, r domain.Request) error
	Update(ctx context.Context, r domain.Request) error
	Delete(ctx context.Context, id domain.RequestID) error

	GetByID(ctx context.Context, id domain.RequestID) (domain.Request, error)

	ListByMember(ctx context.Context, memberID domain.MemberID) ([]domain.Request, error)
	ListWithMembers(ctx context.Context) ([]RequestWithMember, error)
}
