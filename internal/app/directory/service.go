package directory

import (
	"context"
	"errors"

	"github.com/gyiad-org/membership-api/internal/domain"
	"github.com/gyiad-org/membership-api/internal/ports/out/memberrepo"
)

// Service derives directory listings from the full member snapshot. Each call
// reconstructs its working set from the store; there is no in-process cache.
type Service struct {
	repo memberrepo.Repository
}

func NewService(repo memberrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Card is the compact directory projection: name, company and the resolved
// display role (card-role override wins when set).
type Card struct {
	ID          domain.MemberID
	FullName    string
	CompanyName string
	Role        string
	AvatarURL   *string
}

// List returns the member-facing directory subset for the given filter.
func (s *Service) List(ctx context.Context, f Filter) ([]Card, error) {
	ms, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := Apply(ms, f)
	out := make([]Card, 0, len(filtered))
	for _, m := range filtered {
		out = append(out, Card{
			ID:          m.ID,
			FullName:    m.FullName,
			CompanyName: m.CompanyName,
			Role:        domain.DisplayRole(m),
			AvatarURL:   m.AvatarURL,
		})
	}
	return out, nil
}

// ListAdmin returns the admin directory subset for the given filter.
func (s *Service) ListAdmin(ctx context.Context, f AdminFilter) ([]domain.Member, error) {
	ms, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ApplyAdmin(ms, f), nil
}

// Get returns one member for the member-facing detail page. The baseline
// exclusions apply unless the caller is looking at their own record.
func (s *Service) Get(ctx context.Context, id domain.MemberID, caller domain.SubjectID) (domain.Member, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return domain.Member{}, notFound()
		}
		return domain.Member{}, err
	}
	self := string(m.ID) == string(caller)
	if !self && (m.MemberType == domain.TypeLeft || m.IsAdmin || m.IsHidden) {
		return domain.Member{}, notFound()
	}
	return m, nil
}

func notFound() *Error {
	return &Error{
		Status:  404,
		Code:    "MEMBER_NOT_FOUND",
		Message: "member not found",
	}
}
