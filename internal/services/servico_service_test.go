package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twendycreate/twendy-api/internal/models"
)

func newTestServicoService(repo ServicoRepository, userRepo UserRepository) *ServicoService {
	if userRepo == nil {
		userRepo = &MockUserRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
				return newTestUser(id, id+"@example.com", "BI-"+id), nil
			},
		}
	}
	return NewServicoService(repo, userRepo, testLogger())
}

func TestServicoService_Create_Success(t *testing.T) {
	mockRepo := &MockServicoRepository{
		CreateFunc: func(ctx context.Context, servico *models.Servico) (*models.Servico, error) {
			assert.Equal(t, models.ServicoPendente, servico.Estado, "new servicos start PENDENTE")
			servico.ID = "s1"
			return servico, nil
		},
	}

	svc := newTestServicoService(mockRepo, nil)

	resp, err := svc.Create(context.Background(), "Entrega de documentos", "Levantar no escritório", "u1", "u2", nil)

	require.NoError(t, err)
	assert.Equal(t, "s1", resp.ID)
	assert.Equal(t, models.ServicoPendente, resp.Estado)
}

func TestServicoService_Create_SelfAddressed(t *testing.T) {
	svc := newTestServicoService(&MockServicoRepository{}, nil)

	_, err := svc.Create(context.Background(), "Entrega", "", "u1", "u1", nil)

	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestServicoService_Create_MissingTitulo(t *testing.T) {
	svc := newTestServicoService(&MockServicoRepository{}, nil)

	_, err := svc.Create(context.Background(), "   ", "", "u1", "u2", nil)

	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestServicoService_Create_UnknownDestinatario(t *testing.T) {
	svc := newTestServicoService(&MockServicoRepository{}, &MockUserRepository{})

	_, err := svc.Create(context.Background(), "Entrega", "", "u1", "ghost", nil)

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestServicoService_Update_MovesEstado(t *testing.T) {
	existing := &models.Servico{
		ID:             "s1",
		Titulo:         "Entrega",
		RemetenteID:    "u1",
		DestinatarioID: "u2",
		Estado:         models.ServicoPendente,
	}

	mockRepo := &MockServicoRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Servico, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, id string, servico *models.Servico) (*models.Servico, error) {
			updated := *existing
			updated.Estado = servico.Estado
			return &updated, nil
		},
	}

	svc := newTestServicoService(mockRepo, nil)

	resp, err := svc.Update(context.Background(), "s1", "", "", models.ServicoAceite, nil)

	require.NoError(t, err)
	assert.Equal(t, models.ServicoAceite, resp.Estado)
}

func TestServicoService_Update_RejectsUnknownEstado(t *testing.T) {
	svc := newTestServicoService(&MockServicoRepository{}, nil)

	_, err := svc.Update(context.Background(), "s1", "", "", "EM_ANDAMENTO", nil)

	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestServicoService_Get_NotFound(t *testing.T) {
	svc := newTestServicoService(&MockServicoRepository{}, nil)

	_, err := svc.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestServicoService_Delete_Success(t *testing.T) {
	var deleted string
	mockRepo := &MockServicoRepository{
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	svc := newTestServicoService(mockRepo, nil)

	err := svc.Delete(context.Background(), "s1")

	require.NoError(t, err)
	assert.Equal(t, "s1", deleted)
}
