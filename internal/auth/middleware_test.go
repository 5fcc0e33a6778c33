package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twendycreate/twendy-api/internal/models"
)

type stubUserFetcher struct {
	user *models.User
	err  error
}

func (s *stubUserFetcher) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.user, s.err
}

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetUserFromContext(r)
		require.NotNil(t, claims)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(claims.UserID))
	})
}

func TestMiddleware_ValidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, err := tm.Issue(testUser(), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Middleware(tm)(protectedEcho(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestMiddleware_Rejections(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	valid, err := tm.Issue(testUser(), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"empty bearer", "Bearer"},
		{"garbage token", "Bearer not-a-token"},
		{"tampered token", "Bearer " + valid[:len(valid)-2] + "xx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			Middleware(tm)(protectedEcho(t)).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, err := tm.Issue(testUser(), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		fetcher    *stubUserFetcher
		wantStatus int
	}{
		{
			"role matches",
			&stubUserFetcher{user: &models.User{ID: "user-1", Role: models.RoleAdmin}},
			http.StatusOK,
		},
		{
			"role differs",
			&stubUserFetcher{user: &models.User{ID: "user-1", Role: models.RoleCliente}},
			http.StatusForbidden,
		},
		{
			"user gone",
			&stubUserFetcher{err: models.ErrNotFound},
			http.StatusUnauthorized,
		},
		{
			"repo failure",
			&stubUserFetcher{err: models.ErrInternalServer},
			http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Middleware(tm)(RequireRole(tt.fetcher, models.RoleAdmin)(protectedEcho(t)))

			req := httptest.NewRequest(http.MethodDelete, "/usuarios/user-2", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
