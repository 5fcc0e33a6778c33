package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/twendycreate/twendy-api/internal/auth"
	"github.com/twendycreate/twendy-api/internal/models"
	"github.com/twendycreate/twendy-api/internal/services"
	pkghttp "github.com/twendycreate/twendy-api/pkg/http"
)

// ServicoServiceInterface defines the interface for servico management logic
type ServicoServiceInterface interface {
	List(ctx context.Context, limit, offset int) ([]*services.ServicoResponse, error)
	Get(ctx context.Context, id string) (*services.ServicoResponse, error)
	Create(ctx context.Context, titulo, descricao, remetenteID, destinatarioID string, preco *float64) (*services.ServicoResponse, error)
	Update(ctx context.Context, id, titulo, descricao, estado string, preco *float64) (*services.ServicoResponse, error)
	Delete(ctx context.Context, id string) error
}

// ServicoHandler handles servico HTTP requests
type ServicoHandler struct {
	service ServicoServiceInterface
}

// NewServicoHandler creates a new ServicoHandler
func NewServicoHandler(service ServicoServiceInterface) *ServicoHandler {
	return &ServicoHandler{service: service}
}

// CreateServicoRequest represents the request body for creating a servico
type CreateServicoRequest struct {
	Titulo         string   `json:"titulo" validate:"required,min=3,max=200"`
	Descricao      string   `json:"descricao" validate:"max=2000"`
	DestinatarioID string   `json:"destinatario_id" validate:"required,uuid"`
	Preco          *float64 `json:"preco" validate:"omitempty,gte=0"`
}

// UpdateServicoRequest represents the request body for updating a servico
type UpdateServicoRequest struct {
	Titulo    string   `json:"titulo" validate:"omitempty,min=3,max=200"`
	Descricao string   `json:"descricao" validate:"omitempty,max=2000"`
	Estado    string   `json:"estado" validate:"omitempty,oneof=PENDENTE ACEITE CONCLUIDO CANCELADO"`
	Preco     *float64 `json:"preco" validate:"omitempty,gte=0"`
}

// List returns a page of servicos
// @Router /servicos [get]
func (h *ServicoHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	servicos, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		pkghttp.WriteInternalError(w, "Erro interno do servidor")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"servicos": servicos})
}

// Get returns a single servico
// @Router /servicos/{id} [get]
func (h *ServicoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	servico, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Serviço não encontrado")
			return
		}
		pkghttp.WriteInternalError(w, "Erro interno do servidor")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"servico": servico})
}

// Create registers a servico sent by the authenticated user
// @Router /servicos [post]
func (h *ServicoHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Não autorizado")
		return
	}

	var req CreateServicoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Corpo do pedido inválido")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	servico, err := h.service.Create(r.Context(), req.Titulo, req.Descricao, claims.UserID, req.DestinatarioID, req.Preco)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteBadRequest(w, "Destinatário não encontrado")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Dados inválidos")
		default:
			pkghttp.WriteInternalError(w, "Erro interno do servidor")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Serviço criado com sucesso",
		"servico": servico,
	})
}

// Update changes a servico. Estado moves are limited to the destinatario or
// an ADMIN; other fields to the remetente or an ADMIN.
// @Router /servicos/{id} [put]
func (h *ServicoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Não autorizado")
		return
	}

	var req UpdateServicoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Corpo do pedido inválido")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	existing, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Serviço não encontrado")
			return
		}
		pkghttp.WriteInternalError(w, "Erro interno do servidor")
		return
	}

	isAdmin := claims.Role == models.RoleAdmin
	if req.Estado != "" && !isAdmin && claims.UserID != existing.DestinatarioID {
		pkghttp.WriteForbidden(w, "Apenas o destinatário pode alterar o estado")
		return
	}
	if (req.Titulo != "" || req.Descricao != "" || req.Preco != nil) && !isAdmin && claims.UserID != existing.RemetenteID {
		pkghttp.WriteForbidden(w, "Apenas o remetente pode alterar estes campos")
		return
	}

	servico, err := h.service.Update(r.Context(), id, req.Titulo, req.Descricao, req.Estado, req.Preco)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Serviço não encontrado")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Dados inválidos")
		default:
			pkghttp.WriteInternalError(w, "Erro interno do servidor")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Serviço atualizado com sucesso",
		"servico": servico,
	})
}

// Delete removes a servico. Remetente or ADMIN only.
// @Router /servicos/{id} [delete]
func (h *ServicoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Não autorizado")
		return
	}

	if claims.Role != models.RoleAdmin {
		existing, err := h.service.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				pkghttp.WriteNotFound(w, "Serviço não encontrado")
				return
			}
			pkghttp.WriteInternalError(w, "Erro interno do servidor")
			return
		}
		if claims.UserID != existing.RemetenteID {
			pkghttp.WriteForbidden(w, "Apenas o remetente pode remover o serviço")
			return
		}
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Serviço não encontrado")
			return
		}
		pkghttp.WriteInternalError(w, "Erro interno do servidor")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Serviço removido com sucesso",
	})
}
