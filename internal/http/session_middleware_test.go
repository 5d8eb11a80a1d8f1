package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"profile-hub/internal/service"
)

const testSecret = "secret"

func signTestSession(t *testing.T, sub string) string {
	t.Helper()
	now := time.Now().UTC()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, service.SessionClaims{
		Email:     sub + "@example.com",
		SessionID: "sess-" + sub,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func setupGateRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gate, err := service.NewSessionGate([]string{"/dashboard", "/org-dashboard", "/profile"}, "/sign-in")
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	resolver := service.NewSessionTokenValidator(testSecret, "", service.NewMemorySessionDenylist())

	r := gin.New()
	r.Use(SessionGateMiddleware(zap.NewNop(), gate, resolver, "session"))
	r.NoRoute(func(c *gin.Context) {
		if p, ok := GetPrincipal(c); ok {
			c.String(http.StatusOK, p.ID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/api/ping", RequireSession(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestSessionGate_RedirectsProtectedPaths(t *testing.T) {
	r := setupGateRouter(t)

	for _, path := range []string{"/dashboard", "/dashboard/settings", "/org-dashboard/x/y", "/profile/edit"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusTemporaryRedirect {
			t.Fatalf("%s: expected 307, got %d", path, rec.Code)
		}
		loc, err := url.Parse(rec.Header().Get("Location"))
		if err != nil {
			t.Fatalf("%s: bad location: %v", path, err)
		}
		if loc.Path != "/sign-in" || loc.Query().Get("redirect") != path {
			t.Fatalf("%s: unexpected redirect %q", path, rec.Header().Get("Location"))
		}
	}
}

func TestSessionGate_PublicPathsPassThrough(t *testing.T) {
	r := setupGateRouter(t)
	for _, path := range []string{"/", "/about", "/profiles", "/dashboards", "/sign-in"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
			t.Fatalf("%s: expected pass-through, got %d %q", path, rec.Code, rec.Body.String())
		}
	}
}

func TestSessionGate_AllowsSessionFromHeaderAndCookie(t *testing.T) {
	r := setupGateRouter(t)
	token := signTestSession(t, "u1")

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "u1" {
		t.Fatalf("expected principal u1, got %d %q", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "u1" {
		t.Fatalf("expected principal u1 from cookie, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestSessionGate_InvalidTokenIsNoSession(t *testing.T) {
	r := setupGateRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
}

func TestRequireSession(t *testing.T) {
	r := setupGateRouter(t)

	rec := performRequest(r, http.MethodGet, "/api/ping", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signTestSession(t, "u1"))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
