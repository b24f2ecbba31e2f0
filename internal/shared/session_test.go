package shared_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/atlas-itsm/atlas/internal/shared"
)

func newManager(t *testing.T) *shared.SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)
}

func TestSessionRoundTrip(t *testing.T) {
	manager := newManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := manager.Load(ctx, req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	sess.SetUser("42")
	sess.Set("theme", "dark")

	res := httptest.NewRecorder()
	if err := manager.Commit(ctx, res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}

	cookies := res.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	if cookies[0].Name != "test_session" {
		t.Fatalf("unexpected cookie name %q", cookies[0].Name)
	}
	if !cookies[0].HttpOnly {
		t.Fatal("session cookie must be http-only")
	}

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookies[0])
	loaded, err := manager.Load(ctx, second)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if loaded.User() != "42" {
		t.Fatalf("expected user 42, got %q", loaded.User())
	}
	if loaded.Get("theme") != "dark" {
		t.Fatalf("expected stored value, got %q", loaded.Get("theme"))
	}
}

func TestSessionDestroyClearsCookieAndStore(t *testing.T) {
	manager := newManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := manager.Load(ctx, req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	sess.SetUser("7")
	res := httptest.NewRecorder()
	if err := manager.Commit(ctx, res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	cookie := res.Result().Cookies()[0]

	again := httptest.NewRequest(http.MethodGet, "/", nil)
	again.AddCookie(cookie)
	sess, err = manager.Load(ctx, again)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	manager.Destroy(sess)

	res = httptest.NewRecorder()
	if err := manager.Commit(ctx, res, again, sess); err != nil {
		t.Fatalf("commit destroyed session: %v", err)
	}
	cleared := res.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge != -1 {
		t.Fatal("expected an expired session cookie")
	}

	fresh := httptest.NewRequest(http.MethodGet, "/", nil)
	fresh.AddCookie(cookie)
	reloaded, err := manager.Load(ctx, fresh)
	if err != nil {
		t.Fatalf("load after destroy: %v", err)
	}
	if reloaded.User() != "" {
		t.Fatalf("expected anonymous session, got user %q", reloaded.User())
	}
}

func TestSessionLoadUnknownCookieStartsFresh(t *testing.T) {
	manager := newManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "test_session", Value: "never-stored"})
	sess, err := manager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if sess.User() != "" {
		t.Fatalf("expected anonymous session, got %q", sess.User())
	}
	if sess.ID != "never-stored" {
		t.Fatalf("expected cookie id to be reused, got %q", sess.ID)
	}
}
