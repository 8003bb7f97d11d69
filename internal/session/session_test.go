package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestManager(t *testing.T, secure bool) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewManager(client, "eventosys_session", time.Hour, secure), mr
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	mgr, _ := newTestManager(t, false)
	ctx := context.Background()

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := mgr.Load(ctx, first)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.SetUser(42)

	rr := httptest.NewRecorder()
	if err := mgr.Commit(ctx, rr, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}
	cookie := sessionCookie(t, rr, mgr.CookieName())

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookie)
	reloaded, err := mgr.Load(ctx, second)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.User() != 42 {
		t.Fatalf("reloaded user = %d, want 42", reloaded.User())
	}
}

func TestSessionCookieAttributes(t *testing.T) {
	mgr, _ := newTestManager(t, true)
	ctx := context.Background()

	sess, err := mgr.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	rr := httptest.NewRecorder()
	if err := mgr.Commit(ctx, rr, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}

	cookie := sessionCookie(t, rr, mgr.CookieName())
	if !cookie.HttpOnly {
		t.Fatal("cookie not HttpOnly")
	}
	if !cookie.Secure {
		t.Fatal("cookie not Secure")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("cookie SameSite = %v, want Strict", cookie.SameSite)
	}
	if cookie.Path != "/" {
		t.Fatalf("cookie Path = %q, want /", cookie.Path)
	}
}

func TestSessionDestroy(t *testing.T) {
	mgr, mr := newTestManager(t, false)
	ctx := context.Background()

	sess, err := mgr.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.SetUser(7)

	rr := httptest.NewRecorder()
	if err := mgr.Commit(ctx, rr, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if !mr.Exists("session:" + sess.ID) {
		t.Fatal("session not stored")
	}

	mgr.Destroy(sess)
	rr = httptest.NewRecorder()
	if err := mgr.Commit(ctx, rr, sess); err != nil {
		t.Fatalf("destroy commit: %v", err)
	}
	if mr.Exists("session:" + sess.ID) {
		t.Fatal("session still stored after destroy")
	}
	cookie := sessionCookie(t, rr, mgr.CookieName())
	if cookie.MaxAge != -1 {
		t.Fatalf("cookie MaxAge = %d, want -1", cookie.MaxAge)
	}
}

func TestSessionExpiry(t *testing.T) {
	mgr, mr := newTestManager(t, false)
	ctx := context.Background()

	sess, err := mgr.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.SetUser(7)

	rr := httptest.NewRecorder()
	if err := mgr.Commit(ctx, rr, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}
	cookie := sessionCookie(t, rr, mgr.CookieName())

	mr.FastForward(2 * time.Hour)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	reloaded, err := mgr.Load(ctx, r)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.User() != 0 {
		t.Fatalf("expired session still authenticated as %d", reloaded.User())
	}
}
