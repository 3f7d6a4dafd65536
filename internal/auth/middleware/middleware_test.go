package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	auth "github.com/muntlig-app/muntlig/internal/auth/middleware"
	"github.com/muntlig-app/muntlig/internal/rbac"
)

func newAuthSvc(t *testing.T, password string) *auth.AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return auth.NewAuthService("test-secret", "admin", string(hash))
}

func login(t *testing.T, svc *auth.AuthService, user, pass string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": user, "password": pass})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	auth.LoginHandler(svc)(w, req)
	return w
}

func TestLogin(t *testing.T) {
	svc := newAuthSvc(t, "hunter2")

	w := login(t, svc, "admin", "wrong")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", w.Code)
	}
	w = login(t, svc, "someone", "hunter2")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad user: expected 401, got %d", w.Code)
	}

	w = login(t, svc, "admin", "hunter2")
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	claims, err := svc.Parse(resp["access_token"])
	if err != nil || claims == nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Sub != "admin" || claims.Role != "teacher" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTMiddlewareAndRBAC(t *testing.T) {
	svc := newAuthSvc(t, "hunter2")

	protected := auth.JWTMiddleware(svc)(rbac.Require("test:create")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	req := httptest.NewRequest("POST", "/tests", nil)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", w.Code)
	}

	req = httptest.NewRequest("POST", "/tests", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", w.Code)
	}

	tok, err := svc.IssueJWT("admin", "teacher")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req = httptest.NewRequest("POST", "/tests", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("teacher token: expected 200, got %d", w.Code)
	}

	// A role with no grants is refused even with a valid token.
	tok, _ = svc.IssueJWT("someone", "student")
	req = httptest.NewRequest("POST", "/tests", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("student token: expected 403, got %d", w.Code)
	}
}
