package memberrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gyiad-org/membership-api/internal/domain"
	"github.com/gyiad-org/membership-api/internal/ports/out/memberrepo"
)

// Repo is an in-memory implementation of memberrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID      map[domain.MemberID]domain.Member
	idByEmail map[string]domain.MemberID
}

func NewRepo() *Repo {
	return &Repo{
		byID:      make(map[domain.MemberID]domain.Member),
		idByEmail: make(map[string]domain.MemberID),
	}
}

func (r *Repo) Create(ctx context.Context, m domain.Member) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[m.ID]; ok {
		return memberrepo.ErrAlreadyExists
	}
	key := emailKey(m.Email)
	if _, ok := r.idByEmail[key]; ok {
		return memberrepo.ErrEmailAlreadyBound
	}

	r.byID[m.ID] = cloneMember(m)
	r.idByEmail[key] = m.ID
	return nil
}

func (r *Repo) Update(ctx context.Context, m domain.Member) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[m.ID]
	if !ok {
		return memberrepo.ErrNotFound
	}
	newKey := emailKey(m.Email)
	oldKey := emailKey(existing.Email)
	if newKey != oldKey {
		if boundID, ok := r.idByEmail[newKey]; ok && boundID != m.ID {
			return memberrepo.ErrEmailAlreadyBound
		}
		delete(r.idByEmail, oldKey)
		r.idByEmail[newKey] = m.ID
	}

	r.byID[m.ID] = cloneMember(m)
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.MemberID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok {
		return memberrepo.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.idByEmail, emailKey(m.Email))
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.MemberID) (domain.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return domain.Member{}, memberrepo.ErrNotFound
	}
	return cloneMember(m), nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByEmail[emailKey(email)]
	if !ok {
		return domain.Member{}, memberrepo.ErrNotFound
	}
	m, ok := r.byID[id]
	if !ok {
		return domain.Member{}, memberrepo.ErrNotFound
	}
	return cloneMember(m), nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Member, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, cloneMember(m))
	}
	sortMembersByFullName(out)
	return out, nil
}

func cloneMember(m domain.Member) domain.Member {
	out := m
	out.Phone = cloneStringPtr(m.Phone)
	out.AvatarURL = cloneStringPtr(m.AvatarURL)
	out.CardRole = cloneStringPtr(m.CardRole)
	out.CompanyAddress = cloneStringPtr(m.CompanyAddress)
	out.Position = cloneStringPtr(m.Position)
	out.Sector = cloneStringPtr(m.Sector)
	out.BusinessArea = cloneStringPtr(m.BusinessArea)
	out.CompanyTurnover = cloneStringPtr(m.CompanyTurnover)
	out.NumberOfEmployees = cloneStringPtr(m.NumberOfEmployees)
	out.LinkedInURL = cloneStringPtr(m.LinkedInURL)
	out.OtherMemberships = cloneStringPtr(m.OtherMemberships)
	out.Projects = cloneStringPtr(m.Projects)
	out.PushToken = cloneStringPtr(m.PushToken)
	out.ResetCode = cloneStringPtr(m.ResetCode)
	out.BirthDate = cloneTimePtr(m.BirthDate)
	out.MembershipDate = cloneTimePtr(m.MembershipDate)
	out.MembershipEndDate = cloneTimePtr(m.MembershipEndDate)
	out.ResetExpiresAt = cloneTimePtr(m.ResetExpiresAt)
	if m.MaritalStatus != nil {
		v := *m.MaritalStatus
		out.MaritalStatus = &v
	}
	if m.BoardRoles != nil {
		out.BoardRoles = append([]domain.BoardRole(nil), m.BoardRoles...)
	}
	if m.Websites != nil {
		out.Websites = append([]string(nil), m.Websites...)
	}
	if m.Languages != nil {
		out.Languages = append([]string(nil), m.Languages...)
	}
	if m.Education != nil {
		out.Education = append([]domain.Education(nil), m.Education...)
	}
	out.MembershipConsent.AcceptedAt = cloneTimePtr(m.MembershipConsent.AcceptedAt)
	out.NewsletterConsent.AcceptedAt = cloneTimePtr(m.NewsletterConsent.AcceptedAt)
	out.PhotoConsent.AcceptedAt = cloneTimePtr(m.PhotoConsent.AcceptedAt)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sortMembersByFullName(ms []domain.Member) {
	sort.Slice(ms, func(i, j int) bool {
		ni := strings.ToLower(ms[i].FullName)
		nj := strings.ToLower(ms[j].FullName)
		if ni == nj {
			return string(ms[i].ID) < string(ms[j].ID)
		}
		return ni < nj
	})
}
