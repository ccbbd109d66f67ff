package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Amanzhol04/esports-portal/middleware"
	"github.com/Amanzhol04/esports-portal/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter(t *testing.T) http.Handler {
	t.Helper()

	authService, err := services.NewAuthService("s3cret-admin", "test-jwt-secret")
	require.NoError(t, err)
	handler := NewAuthHandler(authService)

	router := chi.NewRouter()
	router.Post("/admin/login", handler.LoginHandler)
	router.Post("/admin/logout", handler.LogoutHandler)
	router.Get("/admin/check", handler.CheckHandler)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate([]byte("test-jwt-secret")))
		r.Use(middleware.Authorize("admin"))
		r.Get("/admin/dashboard", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})
	return router
}

func TestLoginSetsCookieAndReturnsToken(t *testing.T) {
	router := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"s3cret-admin"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Authenticated bool   `json:"authenticated"`
		Token         string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Authenticated)
	require.NotEmpty(t, resp.Token)

	var authCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.AuthCookieName {
			authCookie = c
		}
	}
	require.NotNil(t, authCookie)
	assert.True(t, authCookie.HttpOnly)
	assert.Equal(t, resp.Token, authCookie.Value)
}

func TestLoginWrongPassword(t *testing.T) {
	router := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"guess"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckReportsAuthenticationState(t *testing.T) {
	router := newAuthTestRouter(t)

	// Без токена — 200 с authenticated=false.
	req := httptest.NewRequest(http.MethodGet, "/admin/check", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Authenticated bool `json:"authenticated"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Authenticated)

	// С валидным Bearer-токеном — true.
	login := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"s3cret-admin"}`))
	loginRec := httptest.NewRecorder()
	router.ServeHTTP(loginRec, login)
	require.Equal(t, http.StatusOK, loginRec.Code)

	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(loginRec.Body.Bytes(), &loginResp))

	req = httptest.NewRequest(http.MethodGet, "/admin/check", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Authenticated)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	router := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	login := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"s3cret-admin"}`))
	loginRec := httptest.NewRecorder()
	router.ServeHTTP(loginRec, login)
	require.Equal(t, http.StatusOK, loginRec.Code)

	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(loginRec.Body.Bytes(), &loginResp))

	req = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	router := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.AuthCookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}
