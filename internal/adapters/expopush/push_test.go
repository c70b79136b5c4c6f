package expopush

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gyiad-org/membership-api/internal/ports/out/notifier"
)

func TestSender_SendPush(t *testing.T) {
	t.Parallel()

	var got pushMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method=%s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type=%q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"data":{"status":"ok"}}`))
	}))
	defer srv.Close()

	s := NewSender(WithEndpoint(srv.URL))
	err := s.SendPush(context.Background(), "ExponentPushToken[abc]", notifier.PushNote{
		Title: "Talebiniz Yanıtlandı",
		Body:  "Detaylar için dokunun.",
		Data:  map[string]string{"requestId": "r-1"},
	})
	if err != nil {
		t.Fatalf("SendPush() err=%v", err)
	}
	if got.To != "ExponentPushToken[abc]" || got.Title != "Talebiniz Yanıtlandı" || got.Sound != "default" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.Data["requestId"] != "r-1" {
		t.Fatalf("data did not round-trip: %+v", got.Data)
	}
}

func TestSender_SendPush_DeviceNotRegistered(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"status":"error","message":"\"ExponentPushToken[gone]\" is not a registered push notification recipient"}}`))
	}))
	defer srv.Close()

	s := NewSender(WithEndpoint(srv.URL))
	err := s.SendPush(context.Background(), "ExponentPushToken[gone]", notifier.PushNote{Title: "t", Body: "b"})
	if err == nil {
		t.Fatalf("expected error for unregistered recipient")
	}
}

func TestSender_SendPush_GatewayError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewSender(WithEndpoint(srv.URL))
	err := s.SendPush(context.Background(), "ExponentPushToken[abc]", notifier.PushNote{Title: "t", Body: "b"})
	if err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}
