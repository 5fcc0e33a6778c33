package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/twendycreate/twendy-api/internal/models"
)

// ServicoRepository is the persistence surface for servicos.
type ServicoRepository interface {
	ServicoLister
	GetByID(ctx context.Context, id string) (*models.Servico, error)
	List(ctx context.Context, limit, offset int) ([]*models.Servico, error)
	Create(ctx context.Context, servico *models.Servico) (*models.Servico, error)
	Update(ctx context.Context, id string, servico *models.Servico) (*models.Servico, error)
	Delete(ctx context.Context, id string) error
}

// ServicoService implements the servicos management operations.
type ServicoService struct {
	repo     ServicoRepository
	userRepo UserRepository
	logger   *slog.Logger
}

// NewServicoService creates a new ServicoService
func NewServicoService(repo ServicoRepository, userRepo UserRepository, logger *slog.Logger) *ServicoService {
	return &ServicoService{
		repo:     repo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// List returns a page of servicos.
func (s *ServicoService) List(ctx context.Context, limit, offset int) ([]*ServicoResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	servicos, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list servicos", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return servicosToResponse(servicos), nil
}

// Get returns a single servico by id.
func (s *ServicoService) Get(ctx context.Context, id string) (*ServicoResponse, error) {
	servico, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get servico", slog.String("servico_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return servicoModelToResponse(servico), nil
}

// Create registers a servico from remetente to destinatario. Both parties
// must exist, and a servico cannot be addressed to its own sender.
func (s *ServicoService) Create(ctx context.Context, titulo, descricao, remetenteID, destinatarioID string, preco *float64) (*ServicoResponse, error) {
	titulo = strings.TrimSpace(titulo)
	if titulo == "" {
		return nil, models.ErrBadRequest
	}
	if remetenteID == destinatarioID {
		return nil, models.ErrBadRequest
	}

	if _, err := s.userRepo.GetByID(ctx, destinatarioID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to resolve destinatario", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	created, err := s.repo.Create(ctx, &models.Servico{
		Titulo:         titulo,
		Descricao:      strings.TrimSpace(descricao),
		RemetenteID:    remetenteID,
		DestinatarioID: destinatarioID,
		Estado:         models.ServicoPendente,
		Preco:          preco,
	})
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			return nil, models.ErrBadRequest
		}
		s.logger.Error("failed to create servico", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("servico created",
		slog.String("servico_id", created.ID),
		slog.String("remetente_id", remetenteID),
		slog.String("destinatario_id", destinatarioID))
	return servicoModelToResponse(created), nil
}

// Update changes the mutable servico fields. Only the destinatario or an
// ADMIN may move the estado; the handler enforces who gets here.
func (s *ServicoService) Update(ctx context.Context, id, titulo, descricao, estado string, preco *float64) (*ServicoResponse, error) {
	if estado != "" && !models.ValidServicoEstado(estado) {
		return nil, models.ErrBadRequest
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get servico for update", slog.String("servico_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if titulo = strings.TrimSpace(titulo); titulo == "" {
		titulo = existing.Titulo
	}
	if descricao = strings.TrimSpace(descricao); descricao == "" {
		descricao = existing.Descricao
	}
	if estado == "" {
		estado = existing.Estado
	}
	if preco == nil {
		preco = existing.Preco
	}

	updated, err := s.repo.Update(ctx, id, &models.Servico{
		Titulo:    titulo,
		Descricao: descricao,
		Estado:    estado,
		Preco:     preco,
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update servico", slog.String("servico_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return servicoModelToResponse(updated), nil
}

// Delete removes a servico.
func (s *ServicoService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete servico", slog.String("servico_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}

func servicoModelToResponse(servico *models.Servico) *ServicoResponse {
	return &ServicoResponse{
		ID:             servico.ID,
		Titulo:         servico.Titulo,
		Descricao:      servico.Descricao,
		RemetenteID:    servico.RemetenteID,
		DestinatarioID: servico.DestinatarioID,
		Estado:         servico.Estado,
		Preco:          servico.Preco,
		CreatedAt:      servico.CreatedAt.Format(time.RFC3339),
	}
}
