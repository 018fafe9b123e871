package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/nmueses/secaudit/internal/domain"
	"github.com/nmueses/secaudit/internal/service/auth"
)

// authService defines the minimal interface needed by AuthHandler.
type authService interface {
	Authenticate(ctx context.Context, username, password, ip, userAgent string) (*auth.AuthResult, error)
	RequestRecovery(ctx context.Context, username, ip, userAgent string) (string, error)
	VerifyRecoveryCode(ctx context.Context, username, code, ip, userAgent string) (*auth.VerifyResult, error)
}

// AuthHandler serves the public authentication endpoints.
type AuthHandler struct {
	svc authService
	log *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: logger.With("handler", "auth")}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type recoveryRequest struct {
	Username string `json:"username"`
}

type verifyRequest struct {
	Username string `json:"username"`
	Code     string `json:"code"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

type loginResponse struct {
	AccessToken string          `json:"accessToken"`
	Account     accountResponse `json:"account"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:        a.ID.String(),
		Username:  a.Username,
		Role:      a.Role.String(),
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
	}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Authenticate(r.Context(), req.Username, req.Password, clientIP(r), userAgent(r))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: result.AccessToken,
		Account:     toAccountResponse(result.Account),
	})
}

// RecoveryRequest handles POST /auth/recovery/request. The response is
// identical for known and unknown usernames.
func (h *AuthHandler) RecoveryRequest(w http.ResponseWriter, r *http.Request) {
	var req recoveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ack, err := h.svc.RequestRecovery(r.Context(), req.Username, clientIP(r), userAgent(r))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": ack})
}

// RecoveryVerify handles POST /auth/recovery/verify.
func (h *AuthHandler) RecoveryVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.VerifyRecoveryCode(r.Context(), req.Username, req.Code, clientIP(r), userAgent(r))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	status := http.StatusOK
	if !result.Valid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]any{
		"valid":   result.Valid,
		"message": result.Message,
	})
}
