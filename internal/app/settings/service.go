package settings

import (
	"context"
	"errors"

	"github.com/gyiad-org/membership-api/internal/domain"
	"github.com/gyiad-org/membership-api/internal/ports/out/settingsstore"
)

// KVKKTextKey stores the personal-data-protection consent text shown to
// members for acceptance.
const KVKKTextKey = "kvkk_text"

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// Service reads and updates long-form system text blocks.
type Service struct {
	store settingsstore.Store
}

func NewService(store settingsstore.Store) *Service {
	return &Service{store: store}
}

// GetKVKKText returns the stored consent text; an unset key reads as empty.
func (s *Service) GetKVKKText(ctx context.Context) (string, error) {
	v, err := s.store.Get(ctx, KVKKTextKey)
	if err != nil {
		if errors.Is(err, settingsstore.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

// UpdateKVKKText overwrites the consent text in place. No versioning.
func (s *Service) UpdateKVKKText(ctx context.Context, caller domain.Member, text string) error {
	if !caller.IsAdmin {
		return &Error{
			Status:  403,
			Code:    "FORBIDDEN",
			Message: "admin privileges required",
		}
	}
	return s.store.Upsert(ctx, KVKKTextKey, text)
}
