package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"overtimepay/models"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[uint]*models.User

func (f fakeUsers) GetUser(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user != nil {
		w.Write([]byte(user.Username))
	}
}

func TestTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	u := &models.User{ID: 7, Username: "ADMIN", Role: models.RoleAdmin}

	token, err := GenerateToken(u, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	SetJWTSecret("other-secret")
	_, err = ValidateToken(token)
	assert.Error(t, err)

	SetJWTSecret("test-secret")
	expired, err := GenerateToken(u, -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(expired)
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	SetJWTSecret("test-secret")
	users := fakeUsers{1: {ID: 1, Username: "ALICE", Role: models.RoleUser}}
	h := AuthMiddleware(users)(http.HandlerFunc(okHandler))

	token, err := GenerateToken(users[1], time.Hour)
	require.NoError(t, err)

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ALICE", rec.Body.String())
	})

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token redirects pages", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("missing token rejects api", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/receipts", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"status":"error","message":"unauthorized"}`, rec.Body.String())
	})

	t.Run("unknown user", func(t *testing.T) {
		ghost, err := GenerateToken(&models.User{ID: 99}, time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: ghost})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

func TestRequirePasswordChange(t *testing.T) {
	h := RequirePasswordChange(http.HandlerFunc(okHandler))
	u := &models.User{Username: "BOB", MustChangePassword: true}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(WithUser(req.Context(), u)))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/change-password", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/change-password", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(WithUser(req.Context(), u)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(models.RoleAdmin)(http.HandlerFunc(okHandler))

	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{"admin", &models.User{Username: "A", Role: models.RoleAdmin}, http.StatusOK},
		{"user", &models.User{Username: "U", Role: models.RoleUser}, http.StatusForbidden},
		{"anonymous", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.user != nil {
				req = req.WithContext(WithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/overtime/{id}/edit", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/overtime/{id}/edit", "204"))
	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/overtime/"+id+"/edit", nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/overtime/{id}/edit", "204"))
	assert.Equal(t, 2.0, after-before)
}
