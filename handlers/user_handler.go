package handlers

import (
	"net/http"

	"github.com/Amanzhol04/esports-portal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(us *services.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// IdentityCallbackHandler обрабатывает POST /auth/callback — провайдер
// идентичности сообщает о входе пользователя, запись создаётся/обновляется.
func (h *UserHandler) IdentityCallbackHandler(w http.ResponseWriter, r *http.Request) {
	var input services.IdentityCallbackInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.userService.SyncIdentity(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ok": true, "user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ProfileHandler обрабатывает GET /user/profile?email=...
func (h *UserHandler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := h.userService.GetProfile(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, profile, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CountHandler обрабатывает GET /admin/users/count.
func (h *UserHandler) CountHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.userService.CountUsers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"count": count}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
