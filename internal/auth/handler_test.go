package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/atlas-itsm/atlas/internal/rbac"
	"github.com/atlas-itsm/atlas/internal/shared"
)

type stubAuthService struct {
	user       *User
	registered bool
	removed    bool
}

func (s *stubAuthService) Authenticate(ctx context.Context, username, password string) (*User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, shared.ErrInvalidCredentials
	}
	return s.user, nil
}

func (s *stubAuthService) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	s.registered = true
	return nil
}

func (s *stubAuthService) RemoveSession(ctx context.Context, id string) error {
	s.removed = true
	return nil
}

func newTestHandler(service AuthService) *Handler {
	sessions := shared.NewSessionManager(nil, "atlas_session", "secret", time.Hour, false)
	return NewHandler(nil, service, sessions, rbac.Middleware{})
}

func withSession(req *http.Request) (*http.Request, *shared.Session) {
	sess := &shared.Session{ID: "sess-1"}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess)), sess
}

func TestLoginSuccessBindsSession(t *testing.T) {
	service := &stubAuthService{user: &User{ID: 5, Username: "lee", Role: rbac.RoleManager, IsActive: true}}
	handler := newTestHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"lee","password":"pw"}`))
	req, sess := withSession(req)
	rr := httptest.NewRecorder()
	handler.login(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if sess.User() != "5" {
		t.Fatalf("session user not set, got %q", sess.User())
	}
	if !service.registered {
		t.Fatal("session metadata not registered")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	handler := newTestHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"ghost","password":"pw"}`))
	req, _ = withSession(req)
	rr := httptest.NewRecorder()
	handler.login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestLoginRejectsMissingFields(t *testing.T) {
	handler := newTestHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"lee"}`))
	req, _ = withSession(req)
	rr := httptest.NewRecorder()
	handler.login(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestLogoutRemovesSession(t *testing.T) {
	service := &stubAuthService{}
	handler := newTestHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req, _ = withSession(req)
	rr := httptest.NewRecorder()
	handler.logout(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if !service.removed {
		t.Fatal("session record not removed")
	}
}
