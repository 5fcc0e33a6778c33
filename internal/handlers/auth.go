package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/twendycreate/twendy-api/internal/auth"
	"github.com/twendycreate/twendy-api/internal/models"
	"github.com/twendycreate/twendy-api/internal/services"
	pkghttp "github.com/twendycreate/twendy-api/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, nome, email, bi string) (*services.UserResponse, error)
	Login(ctx context.Context, email, bi string) (*services.AuthResponse, error)
	GoogleSignIn(ctx context.Context, rawToken string) (*services.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, code, newPassword string) error
	Me(ctx context.Context, userID string) (*services.ProfileResponse, error)
	Refresh(ctx context.Context, userID string) (*services.AuthResponse, error)
	Logout(ctx context.Context, userID string)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// Request DTOs

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Nome  string `json:"nome" validate:"required,min=2,max=120"`
	Email string `json:"email" validate:"required,email"`
	BI    string `json:"bi" validate:"required,min=5,max=30"`
}

// LoginRequest carries either an email or a BI, never requiring both
type LoginRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
	BI    string `json:"bi" validate:"omitempty,min=5,max=30"`
}

// GoogleSignInRequest represents the request body for Google sign-in
type GoogleSignInRequest struct {
	Token string `json:"token" validate:"required"`
}

// ForgotPasswordRequest represents the request body for forgot-password
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the request body for reset-password
type ResetPasswordRequest struct {
	Code     string `json:"code" validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// Register handles new account creation
// @Summary User registration
// @Accept json
// @Param request body RegisterRequest true "Register request"
// @Produce json
// @Success 201
// @Failure 400 {object} pkghttp.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Corpo do pedido inválido")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.Register(r.Context(), req.Nome, req.Email, req.BI)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmailInUse):
			pkghttp.WriteBadRequest(w, "Email já registado")
		case errors.Is(err, models.ErrBIInUse):
			pkghttp.WriteBadRequest(w, "BI já registado")
		default:
			pkghttp.WriteInternalError(w, "Erro interno do servidor")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Usuário registado com sucesso",
		"user":    user,
	})
}

// Login handles sign-in by email or BI
// @Summary User login
// @Accept json
// @Param request body LoginRequest true "Login request"
// @Produce json
// @Success 200
// @Failure 401 {object} pkghttp.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Corpo do pedido inválido")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}
	if req.Email == "" && req.BI == "" {
		pkghttp.WriteBadRequest(w, "Informe o email ou o BI")
		return
	}

	resp, err := h.service.Login(r.Context(), req.Email, req.BI)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteJSON(w, http.StatusUnauthorized, map[string]any{
				"message":    "Usuário não encontrado",
				"suggestion": "Verifique o email ou BI informado, ou registe-se primeiro",
			})
			return
		}
		pkghttp.WriteInternalError(w, "Erro interno do servidor")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Login efetuado com sucesso",
		"token":   resp.Token,
		"user":    resp.User,
	})
}

// GoogleSignIn handles sign-in with a Google identity token
// @Summary Google sign-in
// @Accept json
// @Param request body GoogleSignInRequest true "Google sign-in request"
// @Produce json
// @Success 200
// @Failure 400
// @Failure 500
// @Router /auth/google [post]
func (h *AuthHandler) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req GoogleSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Corpo do pedido inválido",
		})
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	resp, err := h.service.GoogleSignIn(r.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrIdentityTokenInvalid):
			pkghttp.WriteJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "Token de autenticação Google inválido",
				"error":   "identity_token_invalid",
			})
		case errors.Is(err, models.ErrEmailConflict):
			pkghttp.WriteJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "Este email já está associado a outra conta",
				"error":   "email_conflict",
			})
		case errors.Is(err, models.ErrIdentityProviderNotConfigured):
			pkghttp.WriteJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false,
				"message": "Autenticação Google não está disponível",
			})
		default:
			pkghttp.WriteJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false,
				"message": "Erro interno do servidor",
			})
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login com Google efetuado com sucesso",
		"token":   resp.Token,
		"user":    resp.User,
	})
}

// ForgotPassword issues a reset code. The response is identical whether or
// not the email exists.
// @Summary Request a password reset code
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Corpo do pedido inválido")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		pkghttp.WriteInternalError(w, "Erro interno do servidor")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Se o email estiver registado, receberá um código de recuperação",
	})
}

// ResetPassword consumes a reset code and sets a new password
// @Summary Reset password with a code
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Corpo do pedido inválido")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Code, req.Password); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidOrExpiredCode):
			pkghttp.WriteJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "Código inválido ou expirado",
			})
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "Senha inválida",
			})
		default:
			pkghttp.WriteInternalError(w, "Erro interno do servidor")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Senha alterada com sucesso",
	})
}

// Me returns the authenticated user's profile with recent activity
// @Summary Current profile
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Não autorizado")
		return
	}

	profile, err := h.service.Me(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Usuário não encontrado")
			return
		}
		pkghttp.WriteInternalError(w, "Erro interno do servidor")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// Refresh issues a fresh session token for the current user
// @Summary Refresh session token
// @Security BearerAuth
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Não autorizado")
		return
	}

	resp, err := h.service.Refresh(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			pkghttp.WriteUnauthorized(w, "Não autorizado")
			return
		}
		pkghttp.WriteInternalError(w, "Erro interno do servidor")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Sessão renovada com sucesso",
		"token":   resp.Token,
		"user":    resp.User,
	})
}

// Logout acknowledges the end of a session. Tokens are stateless, so there
// is nothing server-side to invalidate.
// @Summary Logout
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Não autorizado")
		return
	}

	h.service.Logout(r.Context(), claims.UserID)

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Sessão terminada com sucesso",
	})
}
