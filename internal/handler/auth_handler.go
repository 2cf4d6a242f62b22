package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"clinic-appointment-api/internal/auth"
	"clinic-appointment-api/internal/middleware"
	"clinic-appointment-api/internal/model"
	"clinic-appointment-api/internal/store"
)

type userResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		ProfilePhoto: u.ProfilePhoto,
	}
}

type tokenResponse struct {
	User         *userResponse `json:"user,omitempty"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
}

// Register creates a patient account. No tokens are issued here; the
// client logs in afterwards.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.fail(w, err)
		return
	}
	u := &model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
	}
	if err := h.store.CreateUser(r.Context(), u); err != nil {
		h.metrics.ObserveAuth("register", "error")
		h.fail(w, err)
		return
	}
	h.metrics.ObserveAuth("register", "ok")
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.store.UserByEmail(r.Context(), strings.ToLower(req.Email))
	if err != nil {
		h.metrics.ObserveAuth("login", "denied")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		h.metrics.ObserveAuth("login", "denied")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	pair, err := h.tokens.Issue(r.Context(), u.Principal())
	if err != nil {
		h.metrics.ObserveAuth("login", "error")
		h.fail(w, err)
		return
	}
	h.metrics.ObserveAuth("login", "ok")
	resp := toUserResponse(u)
	writeJSON(w, http.StatusOK, tokenResponse{
		User:         &resp,
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
	})
}

// Refresh rotates the refresh token. A replayed token ends the session and
// the client has to log in again.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusUnauthorized, "unauthorised request")
		return
	}

	pair, err := h.tokens.Rotate(r.Context(), req.RefreshToken)
	if err != nil {
		h.metrics.ObserveAuth("refresh", "denied")
		h.fail(w, err)
		return
	}
	h.metrics.ObserveAuth("refresh", "ok")
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised request")
		return
	}
	if err := h.tokens.Revoke(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised request")
		return
	}
	u, err := h.store.UserByID(r.Context(), id.ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised request")
		return
	}
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.NewPassword) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	u, err := h.store.UserByID(r.Context(), id.ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.OldPassword) {
		writeError(w, http.StatusBadRequest, "invalid old password")
		return
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := h.store.UpdatePassword(r.Context(), id.Role, id.ID, hash); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// UpdateEmail changes the account email and reissues the token pair so the
// claims stay in sync with the account.
func (h *Handler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised request")
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	email := strings.ToLower(req.Email)
	if err := h.store.UpdateEmail(r.Context(), id.ID, email); err != nil {
		h.fail(w, err)
		return
	}
	u, err := h.store.UserByID(r.Context(), id.ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	pair, err := h.tokens.Issue(r.Context(), u.Principal())
	if err != nil {
		h.fail(w, err)
		return
	}
	resp := toUserResponse(u)
	writeJSON(w, http.StatusOK, tokenResponse{
		User:         &resp,
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
	})
}

// UpdateProfilePhoto uploads the image first and only touches the store
// once the media host has returned a URL.
func (h *Handler) UpdateProfilePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised request")
		return
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("profile")
	if err != nil {
		writeError(w, http.StatusBadRequest, "profile image is required")
		return
	}
	defer file.Close()

	key := fmt.Sprintf("profiles/%s%s", id.ID, filepath.Ext(header.Filename))
	url, err := h.uploader.Upload(r.Context(), key, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := h.store.UpdateProfilePhoto(r.Context(), id.ID, url); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"profilePhoto": url})
}

// GetDepartments is shared by the patient and admin surfaces.
func (h *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	deps, err := h.store.ListDepartments(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no departments found")
			return
		}
		h.fail(w, err)
		return
	}
	out := make([]departmentResponse, 0, len(deps))
	for _, d := range deps {
		out = append(out, departmentResponse{ID: d.ID, Name: d.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

type departmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
