package handler

import (
	"context"
	"encoding/json"
	"net/http"
)

// Authenticator выдает токены участникам клуба
type Authenticator interface {
	Login(ctx context.Context, memberID string) (string, error)
}

// AuthHandler обрабатывает эндпоинты аутентификации
type AuthHandler struct {
	authService Authenticator
}

// NewAuthHandler создает новый AuthHandler
func NewAuthHandler(authService Authenticator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginRequest представляет тело запроса на логин
type LoginRequest struct {
	MemberID string `json:"member_id"`
}

// LoginResponse представляет тело ответа на логин
type LoginResponse struct {
	Token string `json:"token"`
}

// Login обрабатывает POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	if req.MemberID == "" {
		badRequest(w, r, "member_id is required")
		return
	}

	token, err := h.authService.Login(r.Context(), req.MemberID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, "login successful", LoginResponse{Token: token})
}
