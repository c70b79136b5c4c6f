package accounts

import (
	"context"
	"errors"

	"github.com/gyiad-org/membership-api/internal/domain"
)

var (
	// ErrEmailInUse indicates the auth service already has an account for the
	// email address.
	ErrEmailInUse = errors.New("account email already in use")

	// ErrNotFound indicates the auth service has no account with the given id.
	ErrNotFound = errors.New("account not found")
)

// Service provisions login accounts in the hosted auth service. The account id
// it assigns is used verbatim as the member record id.
type Service interface {
	Create(ctx context.Context, email, password string) (domain.MemberID, error)
	Delete(ctx context.Context, id domain.MemberID) error
	SetPassword(ctx context.Context, id domain.MemberID, password string) error
}
