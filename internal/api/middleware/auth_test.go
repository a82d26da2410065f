package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TRHS-OMNIA/crew-backend/config"
	"github.com/TRHS-OMNIA/crew-backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestManager(t *testing.T) *jwt.Manager {
	t.Helper()
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:  "test-secret-test-secret",
		SessionTTL: time.Hour,
	})
}

func echoIdentity(c *gin.Context) {
	userID, _ := c.Get("user_id")
	admin, _ := c.Get("admin")
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "admin": admin})
}

func TestJWTAuth(t *testing.T) {
	mgr := newTestManager(t)
	r := gin.New()
	r.GET("/me", JWTAuth(mgr), echoIdentity)

	t.Run("valid token passes with identity injected", func(t *testing.T) {
		tok, err := mgr.GenerateSessionToken("sam", "Sam Lee", 2, 11, false)
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token abc")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}

func TestOptionalAuth(t *testing.T) {
	mgr := newTestManager(t)
	r := gin.New()
	r.GET("/page", OptionalAuth(mgr), echoIdentity)

	t.Run("anonymous request passes without identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/page", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("invalid token still passes anonymously", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/page", nil)
		req.Header.Set("Authorization", "Bearer junk")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestAdminOnly(t *testing.T) {
	mgr := newTestManager(t)
	r := gin.New()
	r.GET("/admin", JWTAuth(mgr), AdminOnly(), echoIdentity)

	t.Run("admin session passes", func(t *testing.T) {
		tok, err := mgr.GenerateSessionToken("teach", "Terry Teacher", 0, 0, true)
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("member session is forbidden", func(t *testing.T) {
		tok, err := mgr.GenerateSessionToken("sam", "Sam Lee", 2, 11, false)
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})
}
