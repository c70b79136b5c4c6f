package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gyiad-org/membership-api/internal/domain"
	"github.com/gyiad-org/membership-api/internal/ports/out/accounts"
)

// Service provisions login accounts through the GoTrue admin API. The id
// GoTrue assigns to a user is used verbatim as the member record id.
type Service struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

// Option configures a Service.
type Option func(*Service)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.client = c }
}

// NewService builds a Service. baseURL is the auth service root, e.g.
// "https://project.supabase.co/auth/v1".
func NewService(baseURL, serviceKey string, opts ...Option) *Service {
	s := &Service{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type createUserRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	EmailConfirm bool   `json:"email_confirm"`
}

type userResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Msg       string `json:"msg"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

func (s *Service) Create(ctx context.Context, email, password string) (domain.MemberID, error) {
	body, err := json.Marshal(createUserRequest{
		Email:        email,
		Password:     password,
		EmailConfirm: true,
	})
	if err != nil {
		return "", err
	}

	resp, err := s.do(ctx, http.MethodPost, "/admin/users", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", err
	}
	if resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusConflict {
		return "", accounts.ErrEmailInUse
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", statusError("create user", resp.StatusCode, raw)
	}

	var user userResponse
	if err := json.Unmarshal(raw, &user); err != nil {
		return "", fmt.Errorf("gotrue: decode create response: %w", err)
	}
	if user.ID == "" {
		return "", fmt.Errorf("gotrue: create response missing user id")
	}
	return domain.MemberID(user.ID), nil
}

func (s *Service) Delete(ctx context.Context, id domain.MemberID) error {
	resp, err := s.do(ctx, http.MethodDelete, "/admin/users/"+string(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return accounts.ErrNotFound
	case resp.StatusCode >= 300:
		return statusError("delete user", resp.StatusCode, raw)
	}
	return nil
}

func (s *Service) SetPassword(ctx context.Context, id domain.MemberID, password string) error {
	body, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return err
	}
	resp, err := s.do(ctx, http.MethodPut, "/admin/users/"+string(id), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return accounts.ErrNotFound
	case resp.StatusCode >= 300:
		return statusError("set password", resp.StatusCode, raw)
	}
	return nil
}

func (s *Service) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.client.Do(req)
}

func statusError(op string, status int, raw []byte) error {
	var er errorResponse
	_ = json.Unmarshal(raw, &er)
	msg := er.Msg
	if msg == "" {
		msg = er.Message
	}
	if msg == "" {
		msg = string(raw)
	}
	return fmt.Errorf("gotrue: %s: status %d: %s", op, status, msg)
}
