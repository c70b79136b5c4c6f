package gotrue

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gyiad-org/membership-api/internal/domain"
	"github.com/gyiad-org/membership-api/internal/ports/out/accounts"
)

func TestService_Create(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/users" {
			t.Errorf("unexpected call: %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer service-key" {
			t.Errorf("authorization=%q", auth)
		}
		var body createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Email != "new@example.com" || !body.EmailConfirm {
			t.Errorf("unexpected body: %+v", body)
		}
		_ = json.NewEncoder(w).Encode(userResponse{ID: "9f1c2a9e-0000-0000-0000-000000000001"})
	}))
	defer srv.Close()

	s := NewService(srv.URL, "service-key")
	id, err := s.Create(context.Background(), "new@example.com", "secret1!")
	if err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if id != domain.MemberID("9f1c2a9e-0000-0000-0000-000000000001") {
		t.Fatalf("Create() id=%q", id)
	}
}

func TestService_Create_EmailInUse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"msg":"A user with this email address has already been registered"}`))
	}))
	defer srv.Close()

	s := NewService(srv.URL, "service-key")
	_, err := s.Create(context.Background(), "dup@example.com", "secret1!")
	if !errors.Is(err, accounts.ErrEmailInUse) {
		t.Fatalf("Create() err=%v, want ErrEmailInUse", err)
	}
}

func TestService_DeleteAndSetPassword(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/admin/users/u-1":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut && r.URL.Path == "/admin/users/u-1":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["password"] != "NewPass1!" {
				t.Errorf("password=%q", body["password"])
			}
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := NewService(srv.URL, "service-key")
	if err := s.Delete(context.Background(), "u-1"); err != nil {
		t.Fatalf("Delete() err=%v", err)
	}
	if err := s.SetPassword(context.Background(), "u-1", "NewPass1!"); err != nil {
		t.Fatalf("SetPassword() err=%v", err)
	}
	if err := s.Delete(context.Background(), "missing"); !errors.Is(err, accounts.ErrNotFound) {
		t.Fatalf("Delete(missing) err=%v, want ErrNotFound", err)
	}
}
