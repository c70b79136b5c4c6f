package accounts

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/gyiad-org/membership-api/internal/domain"
	"github.com/gyiad-org/membership-api/internal/ports/out/accounts"
)

// Service is an in-memory implementation of accounts.Service, used with the
// memory storage backend and in tests. It is safe for concurrent use.
type Service struct {
	mu        sync.Mutex
	passwords map[domain.MemberID]string
	idByEmail map[string]domain.MemberID

	// CreateErr, when set, is returned by every Create.
	CreateErr error
}

func NewService() *Service {
	return &Service{
		passwords: make(map[domain.MemberID]string),
		idByEmail: make(map[string]domain.MemberID),
	}
}

func (s *Service) Create(ctx context.Context, email, password string) (domain.MemberID, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return "", s.CreateErr
	}
	key := strings.ToLower(strings.TrimSpace(email))
	if _, ok := s.idByEmail[key]; ok {
		return "", accounts.ErrEmailInUse
	}
	id := domain.MemberID(uuid.NewString())
	s.idByEmail[key] = id
	s.passwords[id] = password
	return id, nil
}

func (s *Service) Delete(ctx context.Context, id domain.MemberID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.passwords[id]; !ok {
		return accounts.ErrNotFound
	}
	delete(s.passwords, id)
	for email, boundID := range s.idByEmail {
		if boundID == id {
			delete(s.idByEmail, email)
			break
		}
	}
	return nil
}

func (s *Service) SetPassword(ctx context.Context, id domain.MemberID, password string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.passwords[id]; !ok {
		return accounts.ErrNotFound
	}
	s.passwords[id] = password
	return nil
}

// Password reports the stored password for id, for test assertions.
func (s *Service) Password(id domain.MemberID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.passwords[id]
	return p, ok
}
