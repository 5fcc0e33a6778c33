package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twendycreate/twendy-api/internal/handlers"
	"github.com/twendycreate/twendy-api/internal/models"
	"github.com/twendycreate/twendy-api/internal/services"
)

const destinatarioID = "7a3c1b9e-0f42-4c6d-9a11-2b5e8d4f6c70"

func TestServicosCreate_UsesClaimsAsRemetente(t *testing.T) {
	mockSvc := &handlers.MockServicoService{
		CreateFunc: func(ctx context.Context, titulo, descricao, remetenteID, destID string, preco *float64) (*services.ServicoResponse, error) {
			assert.Equal(t, "u1", remetenteID)
			assert.Equal(t, destinatarioID, destID)
			return &services.ServicoResponse{ID: "s1", Titulo: titulo, Estado: models.ServicoPendente}, nil
		},
	}

	handler := handlers.NewServicoHandler(mockSvc)
	req := handlers.NewTestRequest(t, "POST", "/servicos", handlers.CreateServicoRequest{
		Titulo:         "Entrega de documentos",
		DestinatarioID: destinatarioID,
	})
	req = handlers.WithAuthContext(req, "u1", "ana@example.com", models.RoleCliente)

	w := httptest.NewRecorder()
	handler.Create(w, req)

	var resp struct {
		Servico *services.ServicoResponse `json:"servico"`
	}
	handlers.AssertJSONResponse(t, w, 201, &resp)
	assert.Equal(t, "s1", resp.Servico.ID)
}

func TestServicosCreate_Unauthenticated(t *testing.T) {
	handler := handlers.NewServicoHandler(&handlers.MockServicoService{})
	req := handlers.NewTestRequest(t, "POST", "/servicos", handlers.CreateServicoRequest{
		Titulo:         "Entrega",
		DestinatarioID: destinatarioID,
	})

	w := httptest.NewRecorder()
	handler.Create(w, req)

	handlers.AssertErrorResponse(t, w, 401, "unauthorized")
}

func TestServicosCreate_InvalidDestinatarioID(t *testing.T) {
	handler := handlers.NewServicoHandler(&handlers.MockServicoService{})
	req := handlers.NewTestRequest(t, "POST", "/servicos", handlers.CreateServicoRequest{
		Titulo:         "Entrega",
		DestinatarioID: "not-a-uuid",
	})
	req = handlers.WithAuthContext(req, "u1", "ana@example.com", models.RoleCliente)

	w := httptest.NewRecorder()
	handler.Create(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestServicosUpdate_DestinatarioMovesEstado(t *testing.T) {
	existing := &services.ServicoResponse{
		ID:             "s1",
		RemetenteID:    "u1",
		DestinatarioID: "u2",
		Estado:         models.ServicoPendente,
	}

	mockSvc := &handlers.MockServicoService{
		GetFunc: func(ctx context.Context, id string) (*services.ServicoResponse, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, id, titulo, descricao, estado string, preco *float64) (*services.ServicoResponse, error) {
			updated := *existing
			updated.Estado = estado
			return &updated, nil
		},
	}

	handler := handlers.NewServicoHandler(mockSvc)
	router := routeWithID("PUT", "/servicos/{id}", handler.Update)

	req := handlers.NewTestRequest(t, "PUT", "/servicos/s1", handlers.UpdateServicoRequest{Estado: models.ServicoAceite})
	req = handlers.WithAuthContext(req, "u2", "dest@example.com", models.RoleCliente)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp struct {
		Servico *services.ServicoResponse `json:"servico"`
	}
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, models.ServicoAceite, resp.Servico.Estado)
}

func TestServicosUpdate_RemetenteCannotMoveEstado(t *testing.T) {
	mockSvc := &handlers.MockServicoService{
		GetFunc: func(ctx context.Context, id string) (*services.ServicoResponse, error) {
			return &services.ServicoResponse{
				ID:             "s1",
				RemetenteID:    "u1",
				DestinatarioID: "u2",
			}, nil
		},
	}

	handler := handlers.NewServicoHandler(mockSvc)
	router := routeWithID("PUT", "/servicos/{id}", handler.Update)

	req := handlers.NewTestRequest(t, "PUT", "/servicos/s1", handlers.UpdateServicoRequest{Estado: models.ServicoCancelado})
	req = handlers.WithAuthContext(req, "u1", "ana@example.com", models.RoleCliente)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	handlers.AssertErrorResponse(t, w, 403, "forbidden")
}

func TestServicosDelete_RemetenteOnly(t *testing.T) {
	mockSvc := &handlers.MockServicoService{
		GetFunc: func(ctx context.Context, id string) (*services.ServicoResponse, error) {
			return &services.ServicoResponse{ID: "s1", RemetenteID: "u1", DestinatarioID: "u2"}, nil
		},
	}

	handler := handlers.NewServicoHandler(mockSvc)
	router := routeWithID("DELETE", "/servicos/{id}", handler.Delete)

	req := handlers.NewTestRequest(t, "DELETE", "/servicos/s1", nil)
	req = handlers.WithAuthContext(req, "u2", "dest@example.com", models.RoleCliente)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	handlers.AssertErrorResponse(t, w, 403, "forbidden")
}

func TestServicosDelete_AdminBypassesOwnership(t *testing.T) {
	var deleted string
	mockSvc := &handlers.MockServicoService{
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	handler := handlers.NewServicoHandler(mockSvc)
	router := routeWithID("DELETE", "/servicos/{id}", handler.Delete)

	req := handlers.NewTestRequest(t, "DELETE", "/servicos/s1", nil)
	req = handlers.WithAuthContext(req, "admin1", "admin@example.com", models.RoleAdmin)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "s1", deleted)
}

func TestServicosGet_NotFound(t *testing.T) {
	handler := handlers.NewServicoHandler(&handlers.MockServicoService{})
	router := routeWithID("GET", "/servicos/{id}", handler.Get)

	req := handlers.NewTestRequest(t, "GET", "/servicos/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	handlers.AssertErrorResponse(t, w, 404, "not_found")
}
