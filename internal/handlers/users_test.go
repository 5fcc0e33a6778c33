package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/twendycreate/twendy-api/internal/handlers"
	"github.com/twendycreate/twendy-api/internal/models"
	"github.com/twendycreate/twendy-api/internal/services"
)

// routeWithID mounts the handler under /{id} so chi.URLParam resolves.
func routeWithID(method, pattern string, h http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	return r
}

func TestUsersList_Success(t *testing.T) {
	mockSvc := &handlers.MockUserService{
		ListFunc: func(ctx context.Context, limit, offset int) ([]*services.UserResponse, error) {
			assert.Equal(t, 25, limit)
			assert.Equal(t, 50, offset)
			return []*services.UserResponse{{ID: "u1"}, {ID: "u2"}}, nil
		},
	}

	handler := handlers.NewUserHandler(mockSvc)
	req := handlers.NewTestRequest(t, "GET", "/usuarios?limit=25&offset=50", nil)

	w := httptest.NewRecorder()
	handler.List(w, req)

	var resp struct {
		Usuarios []*services.UserResponse `json:"usuarios"`
	}
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Len(t, resp.Usuarios, 2)
}

func TestUsersGet_NotFound(t *testing.T) {
	handler := handlers.NewUserHandler(&handlers.MockUserService{})
	router := routeWithID("GET", "/usuarios/{id}", handler.Get)

	req := handlers.NewTestRequest(t, "GET", "/usuarios/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	handlers.AssertErrorResponse(t, w, 404, "not_found")
}

func TestUsersUpdate_OwnerCanChangeNome(t *testing.T) {
	mockSvc := &handlers.MockUserService{
		UpdateFunc: func(ctx context.Context, id, nome, role string) (*services.UserResponse, error) {
			assert.Equal(t, "u1", id)
			assert.Equal(t, "Ana Santos", nome)
			assert.Empty(t, role)
			return &services.UserResponse{ID: id, Nome: nome}, nil
		},
	}

	handler := handlers.NewUserHandler(mockSvc)
	router := routeWithID("PUT", "/usuarios/{id}", handler.Update)

	req := handlers.NewTestRequest(t, "PUT", "/usuarios/u1", handlers.UpdateUserRequest{Nome: "Ana Santos"})
	req = handlers.WithAuthContext(req, "u1", "ana@example.com", models.RoleCliente)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp struct {
		User *services.UserResponse `json:"user"`
	}
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "Ana Santos", resp.User.Nome)
}

func TestUsersUpdate_OtherUserForbidden(t *testing.T) {
	handler := handlers.NewUserHandler(&handlers.MockUserService{})
	router := routeWithID("PUT", "/usuarios/{id}", handler.Update)

	req := handlers.NewTestRequest(t, "PUT", "/usuarios/u1", handlers.UpdateUserRequest{Nome: "Hacked"})
	req = handlers.WithAuthContext(req, "u2", "other@example.com", models.RoleCliente)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	handlers.AssertErrorResponse(t, w, 403, "forbidden")
}

func TestUsersUpdate_RoleChangeRequiresAdmin(t *testing.T) {
	handler := handlers.NewUserHandler(&handlers.MockUserService{})
	router := routeWithID("PUT", "/usuarios/{id}", handler.Update)

	req := handlers.NewTestRequest(t, "PUT", "/usuarios/u1", handlers.UpdateUserRequest{Role: models.RoleAdmin})
	req = handlers.WithAuthContext(req, "u1", "ana@example.com", models.RoleCliente)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	handlers.AssertErrorResponse(t, w, 403, "forbidden")
}

func TestUsersUpdate_AdminCanChangeRole(t *testing.T) {
	mockSvc := &handlers.MockUserService{
		UpdateFunc: func(ctx context.Context, id, nome, role string) (*services.UserResponse, error) {
			return &services.UserResponse{ID: id, Role: role}, nil
		},
	}

	handler := handlers.NewUserHandler(mockSvc)
	router := routeWithID("PUT", "/usuarios/{id}", handler.Update)

	req := handlers.NewTestRequest(t, "PUT", "/usuarios/u1", handlers.UpdateUserRequest{Role: models.RoleFuncionario})
	req = handlers.WithAuthContext(req, "admin1", "admin@example.com", models.RoleAdmin)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp struct {
		User *services.UserResponse `json:"user"`
	}
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, models.RoleFuncionario, resp.User.Role)
}

func TestUsersDelete_Success(t *testing.T) {
	var deleted string
	mockSvc := &handlers.MockUserService{
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	handler := handlers.NewUserHandler(mockSvc)
	router := routeWithID("DELETE", "/usuarios/{id}", handler.Delete)

	req := handlers.NewTestRequest(t, "DELETE", "/usuarios/u1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "u1", deleted)
}
