package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/LuckyFuZsion/webfuzsion-admin/auth"
	"github.com/LuckyFuZsion/webfuzsion-admin/httpx"
)

// AuthHandler issues and clears the admin session cookie.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler { return &AuthHandler{} }

// Login: POST /api/auth/login {"password": "..."}
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if !auth.CheckPassword(body.Password) {
		httpx.Error(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	auth.CreateSession(w)
	httpx.OK(w, http.StatusOK, map[string]any{"message": "Logged in"})
}

// Logout: POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	httpx.OK(w, http.StatusOK, map[string]any{"message": "Logged out"})
}
