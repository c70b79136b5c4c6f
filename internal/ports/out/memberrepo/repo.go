package memberrepo

import (
	"context"

	"github.com/gyiad-org/membership-api/internal/domain"
)

// Repository provides access to persisted members.
//
// The member record is wide and the store keeps it as one row under the same
// field vocabulary, so the repository speaks domain.Member directly.
//
// Result ordering expectations:
// - List returns the full snapshot ordered by FullName ascending (id as
//   tie-break) to keep behavior deterministic. Directory and statistics
//   filtering happen in the application layer over this snapshot.
type Repository interface {
	Create(ctx context.Context, m domain.Member) error
	Update(ctx context.Context, m domain.Member) error
	Delete(ctx context.Context, id domain.MemberID) error

	GetByID(ctx context.Context, id domain.MemberID) (domain.Member, error)
	GetByEmail(ctx context.Context, email string) (domain.Member, error)

	List(ctx context.Context) ([]domain.Member, error)
}
