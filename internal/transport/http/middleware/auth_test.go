package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"customercare/internal/auth"
)

func TestAuthMiddlewareAttachesClaims(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, "admin@example.com", auth.Claims{UserID: 1, Role: "ADMIN"}, time.Hour)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	var got *auth.Claims
	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetClaims(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatalf("claims not attached")
	}
	if got.UserID != 1 || got.Role != "ADMIN" {
		t.Fatalf("unexpected claims %+v", got)
	}
}

func TestAuthMiddlewareIgnoresBadToken(t *testing.T) {
	handler := Auth("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetClaims(r.Context()); ok {
			t.Fatalf("bad token must not attach claims")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("anonymous request must not reach the handler")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
