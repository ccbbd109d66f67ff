package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Amanzhol04/esports-portal/middleware"
	"github.com/Amanzhol04/esports-portal/services"
)

const authCookieMaxAge = 7 * 24 * time.Hour

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginHandler обрабатывает POST /admin/login. Токен возвращается в теле и
// дублируется в HttpOnly cookie для браузерной админки.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Password == "" {
		badRequestResponse(w, r, errors.New("password is required"))
		return
	}

	token, err := h.authService.Login(input.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(authCookieMaxAge.Seconds()),
	})

	if err := writeJSON(w, http.StatusOK, jsonResponse{"authenticated": true, "token": token}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LogoutHandler обрабатывает POST /admin/logout: сбрасывает cookie.
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ok": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CheckHandler обрабатывает GET /admin/check. Всегда отвечает 200:
// наличие прав сообщается флагом, как того ждёт фронтенд.
func (h *AuthHandler) CheckHandler(w http.ResponseWriter, r *http.Request) {
	authenticated := false
	if token := middleware.TokenFromRequest(r); token != "" {
		authenticated = h.authService.IsAdmin(token)
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"authenticated": authenticated}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
