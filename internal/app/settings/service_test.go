package settings

import (
	"context"
	"errors"
	"testing"

	settingsmem "github.com/gyiad-org/membership-api/internal/adapters/memory/settingsstore"
	"github.com/gyiad-org/membership-api/internal/domain"
)

var admin = domain.Member{ID: "a-1", IsAdmin: true}
var regular = domain.Member{ID: "m-1"}

func TestKVKKText_UnsetReadsEmpty(t *testing.T) {
	t.Parallel()

	s := NewService(settingsmem.NewStore())
	got, err := s.GetKVKKText(context.Background())
	if err != nil || got != "" {
		t.Fatalf("GetKVKKText()=%q err=%v, want empty", got, err)
	}
}

func TestKVKKText_UpdateOverwritesInPlace(t *testing.T) {
	t.Parallel()

	s := NewService(settingsmem.NewStore())
	if err := s.UpdateKVKKText(context.Background(), admin, "ilk metin"); err != nil {
		t.Fatalf("UpdateKVKKText() err=%v", err)
	}
	if err := s.UpdateKVKKText(context.Background(), admin, "güncel metin"); err != nil {
		t.Fatalf("UpdateKVKKText() err=%v", err)
	}
	got, err := s.GetKVKKText(context.Background())
	if err != nil || got != "güncel metin" {
		t.Fatalf("GetKVKKText()=%q err=%v", got, err)
	}
}

func TestKVKKText_UpdateRequiresAdmin(t *testing.T) {
	t.Parallel()

	s := NewService(settingsmem.NewStore())
	err := s.UpdateKVKKText(context.Background(), regular, "metin")
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Status != 403 {
		t.Fatalf("UpdateKVKKText() err=%v, want 403", err)
	}
}
