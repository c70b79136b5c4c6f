package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gyiad-org/membership-api/internal/platform/auth/jwks_testutil"
	"github.com/gyiad-org/membership-api/internal/platform/auth/jwtverifier"
	"github.com/gyiad-org/membership-api/internal/platform/config"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// probeHandler reports the subject the middleware stored in context.
func probeHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, ok := SubjectFromContext(r.Context())
		if !ok || sub == "" {
			t.Errorf("subject missing from context")
		}
		w.Header().Set("X-Probe-Subject", sub)
		w.WriteHeader(http.StatusOK)
	})
}

func newTestAuth(t *testing.T) (func(http.Handler) http.Handler, func(now time.Time) string) {
	t.Helper()

	jwksSrv, setKeys := jwks_testutil.NewRotatingJWKSServer()
	t.Cleanup(jwksSrv.Close)

	kp, err := jwks_testutil.GenerateRSAKeypair("kid-1")
	if err != nil {
		t.Fatalf("GenerateRSAKeypair: %v", err)
	}
	setKeys([]jwks_testutil.Keypair{kp})

	cfg := config.JWTConfig{
		Issuer:                 "test-iss",
		Audience:               "test-aud",
		JWKSURL:                jwksSrv.URL,
		ClockSkew:              0,
		JWKSRefreshInterval:    10 * time.Minute,
		JWKSMinRefreshInterval: 0,
		HTTPTimeout:            2 * time.Second,
	}
	v := jwtverifier.NewWithOptions(cfg, nil, fixedClock{t: time.Unix(1700000000, 0)})

	mint := func(now time.Time) string {
		jwt, err := jwks_testutil.MintRS256JWT(kp, cfg.Issuer, cfg.Audience, "member-123", now, 5*time.Minute, nil)
		if err != nil {
			t.Fatalf("MintRS256JWT: %v", err)
		}
		return jwt
	}

	return NewAuthMiddleware(v), mint
}

func TestAuthMiddleware_MissingHeader_401(t *testing.T) {
	t.Parallel()

	mw, _ := newTestAuth(t)
	h := mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Errorf("handler reached without credentials")
	}))

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_MalformedHeader_401(t *testing.T) {
	t.Parallel()

	mw, _ := newTestAuth(t)
	h := mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Errorf("handler reached without credentials")
	}))

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ExpiredToken_401(t *testing.T) {
	t.Parallel()

	mw, mint := newTestAuth(t)
	h := mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Errorf("handler reached with expired token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	req.Header.Set("Authorization", "Bearer "+mint(time.Unix(1700000000, 0).Add(-time.Hour)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ValidToken_SetsSubject(t *testing.T) {
	t.Parallel()

	mw, mint := newTestAuth(t)
	h := mw(probeHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	req.Header.Set("Authorization", "Bearer "+mint(time.Unix(1700000000, 0)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if sub := rec.Header().Get("X-Probe-Subject"); sub != "member-123" {
		t.Fatalf("subject: got %q", sub)
	}
}

func TestDevAuthMiddleware_HeaderAndFallback(t *testing.T) {
	t.Parallel()

	h := NewDevAuthMiddleware("dev|local")(probeHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	req.Header.Set("X-Debug-Subject", "member-9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if sub := rec.Header().Get("X-Probe-Subject"); sub != "member-9" {
		t.Fatalf("subject: got %q", sub)
	}

	req = httptest.NewRequest(http.MethodGet, "/members", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if sub := rec.Header().Get("X-Probe-Subject"); sub != "dev|local" {
		t.Fatalf("fallback subject: got %q", sub)
	}
}
