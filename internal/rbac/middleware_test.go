package rbac_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/muntlig-app/muntlig/internal/rbac"
)

func callWithRole(t *testing.T, h http.Handler, role string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/tests/code", nil)
	if role != "" {
		req = req.WithContext(rbac.WithRole(req.Context(), role))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func TestRequireAny(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := rbac.RequireAny("test:code", "test:create")(ok)

	cases := []struct {
		role string
		want int
	}{
		{"teacher", http.StatusOK}, // holds both grants
		{"admin", http.StatusOK},   // wildcard
		{"student", http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, c := range cases {
		if got := callWithRole(t, h, c.role); got != c.want {
			t.Fatalf("role %q: expected %d, got %d", c.role, c.want, got)
		}
	}
}

func TestRequireSinglePermission(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := rbac.Require("test:delete")(ok)

	if got := callWithRole(t, h, "teacher"); got != http.StatusOK {
		t.Fatalf("teacher: expected 200, got %d", got)
	}
	if got := callWithRole(t, h, ""); got != http.StatusForbidden {
		t.Fatalf("no role: expected 403, got %d", got)
	}
}
