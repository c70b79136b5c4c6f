package requestrepo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/gyiad-org/membership-api/internal/domain"
	"github.com/gyiad-org/membership-api/internal/ports/out/memberrepo"
	"github.com/gyiad-org/membership-api/internal/ports/out/requestrepo"
)

// Repo is an in-memory implementation of requestrepo.Repository.
// It is safe for concurrent use. The member repository is consulted at read
// time to produce the joined admin listing; SQL backends do the same with a
// join.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.RequestID]domain.Request

	members memberrepo.Repository
}

func NewRepo(members memberrepo.Repository) *Repo {
	return &Repo{
		byID:    make(map[domain.RequestID]domain.Request),
		members: members,
	}
}

func (r *Repo) Create(ctx context.Context, req domain.Request) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[req.ID]; ok {
		return requestrepo.ErrAlreadyExists
	}
	r.byID[req.ID] = cloneRequest(req)
	return nil
}

func (r *Repo) Update(ctx context.Context, req domain.Request) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[req.ID]; !ok {
		return requestrepo.ErrNotFound
	}
	r.byID[req.ID] = cloneRequest(req)
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.RequestID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return requestrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.RequestID) (domain.Request, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.byID[id]
	if !ok {
		return domain.Request{}, requestrepo.ErrNotFound
	}
	return cloneRequest(req), nil
}

func (r *Repo) ListByMember(ctx context.Context, memberID domain.MemberID) ([]domain.Request, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Request, 0)
	for _, req := range r.byID {
		if req.MemberID == memberID {
			out = append(out, cloneRequest(req))
		}
	}
	sortRequestsNewestFirst(out)
	return out, nil
}

func (r *Repo) ListWithMembers(ctx context.Context) ([]requestrepo.RequestWithMember, error) {
	r.mu.RLock()
	reqs := make([]domain.Request, 0, len(r.byID))
	for _, req := range r.byID {
		reqs = append(reqs, cloneRequest(req))
	}
	r.mu.RUnlock()

	sortRequestsNewestFirst(reqs)

	out := make([]requestrepo.RequestWithMember, 0, len(reqs))
	for _, req := range reqs {
		m, err := r.members.GetByID(ctx, req.MemberID)
		if errors.Is(err, memberrepo.ErrNotFound) {
			// Inner-join semantics: a request whose owner is gone does not
			// appear. SQL backends cascade the delete instead.
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, requestrepo.RequestWithMember{
			Request: req,
			Member: requestrepo.MemberSummary{
				FullName:  m.FullName,
				Email:     m.Email,
				AvatarURL: m.AvatarURL,
			},
		})
	}
	return out, nil
}

func cloneRequest(r domain.Request) domain.Request {
	out := r
	if r.AdminReply != nil {
		v := *r.AdminReply
		out.AdminReply = &v
	}
	if r.RepliedAt != nil {
		v := *r.RepliedAt
		out.RepliedAt = &v
	}
	return out
}

func sortRequestsNewestFirst(rs []domain.Request) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return string(rs[i].ID) < string(rs[j].ID)
		}
		return rs[i].CreatedAt.After(rs[j].CreatedAt)
	})
}
