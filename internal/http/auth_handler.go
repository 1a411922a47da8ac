package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/auth"
	"github.com/fjod/go_storefront/internal/backend"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/shop"
)

type AuthHandler struct {
	session *auth.Session
	shop    *shop.Shop
	timeout time.Duration
}

func NewAuthHandler(session *auth.Session, s *shop.Shop, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		session: session,
		shop:    s,
		timeout: timeout,
	}
}

type UserDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
}

type StatusDTO struct {
	LoggedIn bool     `json:"logged_in"`
	User     *UserDTO `json:"user,omitempty"`
}

func userToDTO(u domain.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var creds backend.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if creds.Username == "" || creds.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_credentials", "username and password required")
		return
	}

	user, err := h.session.Login(ctx, creds)
	if err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, userToDTO(user))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var reg backend.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if reg.Username == "" || reg.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_registration", "username and password required")
		return
	}

	user, err := h.session.Register(ctx, reg)
	if err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, userToDTO(user))
}

// Logout ends the backend session and empties the cart with it.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.shop.Logout(ctx); err != nil {
		handleEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Status revalidates the session cookie against the backend.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	loggedIn, err := h.session.Refresh(ctx)
	if err != nil {
		handleEngineError(w, err)
		return
	}
	if !loggedIn {
		respondJSON(w, http.StatusOK, StatusDTO{LoggedIn: false})
		return
	}

	user, _ := h.session.Current()
	dto := userToDTO(user)
	respondJSON(w, http.StatusOK, StatusDTO{LoggedIn: true, User: &dto})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var update backend.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if update.Username == "" {
		respondError(w, http.StatusBadRequest, "invalid_profile", "username required")
		return
	}
	if update.Password != "" && update.OldPassword == "" {
		respondError(w, http.StatusBadRequest, "invalid_profile", "old_password required to change password")
		return
	}

	user, err := h.session.UpdateProfile(ctx, update)
	if err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, userToDTO(user))
}
