package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"erms/auth"
	"erms/models"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeResolver struct {
	users map[string]*models.User
	err   error
}

func (f fakeResolver) ResolveCurrentUser(_ context.Context, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, auth.ErrInvalidToken
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(user.Email))
}

func TestAuthenticate(t *testing.T) {
	resolver := fakeResolver{users: map[string]*models.User{
		"good": {ID: 1, Email: "boss@example.com", Role: models.RoleManager},
	}}
	h := Authenticate(resolver, zap.NewNop())(http.HandlerFunc(okHandler))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"good token", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Error("expected WWW-Authenticate: Bearer")
			}
			if tt.want == http.StatusOK && rec.Body.String() != "boss@example.com" {
				t.Errorf("body: got %q", rec.Body.String())
			}
		})
	}
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	resolver := fakeResolver{err: errors.New("connection refused")}
	h := Authenticate(resolver, zap.NewNop())(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(models.RoleManager)(http.HandlerFunc(okHandler))

	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"engineer", &models.User{ID: 2, Role: models.RoleEngineer}, http.StatusForbidden},
		{"manager", &models.User{ID: 1, Role: models.RoleManager}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/", nil)
			if tt.user != nil {
				req = req.WithContext(WithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/projects/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusCreated) {
		t.Errorf("status field: got %v", fields["status"])
	}
	if fields["path"] != "/projects/" {
		t.Errorf("path field: got %v", fields["path"])
	}
}
