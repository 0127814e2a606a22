package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEqualKeys(t *testing.T) {
	if !equalKeys("secret", "secret") {
		t.Error("identical keys should match")
	}
	if equalKeys("secret", "Secret") {
		t.Error("case difference should not match")
	}
	if equalKeys("", "secret") {
		t.Error("empty supplied key should not match")
	}
	if equalKeys("secretsecret", "secret") {
		t.Error("prefix extension should not match")
	}
}

func TestAdminOnly(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})
	wrapped := adminOnly("secret")(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(adminKeyHeader, "wrong")
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if called {
		t.Error("handler ran despite bad key")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(adminKeyHeader, "secret")
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if !called {
		t.Error("handler did not run with valid key")
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}
