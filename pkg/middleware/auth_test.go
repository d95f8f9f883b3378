package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"picnify/internal/data/entity"
	"picnify/internal/data/repository"
	"picnify/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeSessionRepo struct {
	repository.SessionRepository
	sessions map[uuid.UUID]*entity.Session
	err      error
}

func (f *fakeSessionRepo) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions[token], nil
}

// actorEcho reports the role placed on the context by AuthSession.
var actorEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Header().Set("X-Role", actor.Role)
	w.WriteHeader(http.StatusOK)
})

func TestAuthSession(t *testing.T) {
	token := uuid.New()
	repo := &fakeSessionRepo{sessions: map[uuid.UUID]*entity.Session{
		token: {UserID: uuid.New(), Token: token, UserRole: entity.RoleOwner},
	}}

	tests := []struct {
		name       string
		header     string
		repoErr    error
		wantStatus int
	}{
		{name: "valid", header: "Bearer " + token.String(), wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token.String(), wantStatus: http.StatusOK},
		{name: "missing", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "not a uuid", header: "Bearer abc", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer " + uuid.NewString(), wantStatus: http.StatusUnauthorized},
		{name: "store failure", header: "Bearer " + token.String(), repoErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo.err = tt.repoErr
			handler := AuthSession(repo, zap.NewNop())(actorEcho)

			req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && rec.Header().Get("X-Role") != "owner" {
				t.Errorf("role on context = %q, want owner", rec.Header().Get("X-Role"))
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(zap.NewNop(), entity.RoleOwner, entity.RoleAdmin)(actorEcho)

	tests := []struct {
		name       string
		role       string
		anonymous  bool
		wantStatus int
	}{
		{name: "owner", role: "owner", wantStatus: http.StatusOK},
		{name: "admin", role: "admin", wantStatus: http.StatusOK},
		{name: "customer", role: "customer", wantStatus: http.StatusForbidden},
		{name: "anonymous", anonymous: true, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/owner/properties", nil)
			if !tt.anonymous {
				req = req.WithContext(utils.SetActorContext(req.Context(), uuid.New(), tt.role))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
