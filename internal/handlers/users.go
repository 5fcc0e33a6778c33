package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/twendycreate/twendy-api/internal/auth"
	"github.com/twendycreate/twendy-api/internal/models"
	"github.com/twendycreate/twendy-api/internal/services"
	pkghttp "github.com/twendycreate/twendy-api/pkg/http"
)

// UserServiceInterface defines the interface for user management logic
type UserServiceInterface interface {
	List(ctx context.Context, limit, offset int) ([]*services.UserResponse, error)
	Get(ctx context.Context, id string) (*services.UserResponse, error)
	Update(ctx context.Context, id, nome, role string) (*services.UserResponse, error)
	Delete(ctx context.Context, id string) error
}

// UserHandler handles user management HTTP requests
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Nome string `json:"nome" validate:"omitempty,min=2,max=120"`
	Role string `json:"role" validate:"omitempty,oneof=CLIENTE FUNCIONARIO ADMIN"`
}

// List returns a page of users
// @Router /usuarios [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	users, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		pkghttp.WriteInternalError(w, "Erro interno do servidor")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"usuarios": users})
}

// Get returns a single user
// @Router /usuarios/{id} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Usuário não encontrado")
			return
		}
		pkghttp.WriteInternalError(w, "Erro interno do servidor")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Update changes a user's nome or role. Only the account owner or an ADMIN
// may update, and role changes are ADMIN-only.
// @Router /usuarios/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Não autorizado")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Corpo do pedido inválido")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if claims.UserID != id && claims.Role != models.RoleAdmin {
		pkghttp.WriteForbidden(w, "Sem permissão para alterar este usuário")
		return
	}
	if req.Role != "" && claims.Role != models.RoleAdmin {
		pkghttp.WriteForbidden(w, "Apenas administradores podem alterar o papel")
		return
	}

	user, err := h.service.Update(r.Context(), id, req.Nome, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Usuário não encontrado")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Dados inválidos")
		default:
			pkghttp.WriteInternalError(w, "Erro interno do servidor")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Usuário atualizado com sucesso",
		"user":    user,
	})
}

// Delete removes a user. ADMIN only, enforced by the route middleware.
// @Router /usuarios/{id} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Usuário não encontrado")
			return
		}
		pkghttp.WriteInternalError(w, "Erro interno do servidor")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Usuário removido com sucesso",
	})
}

// paginationParams reads limit/offset query params, leaving clamping to the
// service layer.
func paginationParams(r *http.Request) (limit, offset int) {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	return limit, offset
}
