package handlers_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twendycreate/twendy-api/internal/handlers"
	"github.com/twendycreate/twendy-api/internal/models"
	"github.com/twendycreate/twendy-api/internal/services"
)

func TestRegister_Success(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		RegisterFunc: func(ctx context.Context, nome, email, bi string) (*services.UserResponse, error) {
			return &services.UserResponse{
				ID:    "user123",
				Nome:  nome,
				Email: email,
				BI:    bi,
				Role:  models.RoleCliente,
			}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/register", handlers.RegisterRequest{
		Nome:  "Ana Silva",
		Email: "ana@example.com",
		BI:    "004123456LA041",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	var resp struct {
		Message string                 `json:"message"`
		User    *services.UserResponse `json:"user"`
	}
	handlers.AssertJSONResponse(t, w, 201, &resp)
	assert.NotEmpty(t, resp.Message)
	require.NotNil(t, resp.User)
	assert.Equal(t, "user123", resp.User.ID)
}

func TestRegister_EmailConflict(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		RegisterFunc: func(ctx context.Context, nome, email, bi string) (*services.UserResponse, error) {
			return nil, models.ErrEmailInUse
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/register", handlers.RegisterRequest{
		Nome:  "Ana Silva",
		Email: "ana@example.com",
		BI:    "004123456LA041",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestRegister_MissingFields(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/register", handlers.RegisterRequest{
		Nome: "Ana Silva",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestLogin_ByEmail(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		LoginFunc: func(ctx context.Context, email, bi string) (*services.AuthResponse, error) {
			assert.Equal(t, "ana@example.com", email)
			return &services.AuthResponse{
				Token: "token123",
				User:  &services.UserResponse{ID: "user123"},
			}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/login", handlers.LoginRequest{
		Email: "ana@example.com",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	var resp struct {
		Message string                 `json:"message"`
		Token   string                 `json:"token"`
		User    *services.UserResponse `json:"user"`
	}
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "token123", resp.Token)
	assert.Equal(t, "user123", resp.User.ID)
}

func TestLogin_UnknownUserIncludesSuggestion(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		LoginFunc: func(ctx context.Context, email, bi string) (*services.AuthResponse, error) {
			return nil, models.ErrNotFound
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/login", handlers.LoginRequest{
		Email: "ghost@example.com",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	var resp struct {
		Message    string `json:"message"`
		Suggestion string `json:"suggestion"`
	}
	handlers.AssertJSONResponse(t, w, 401, &resp)
	assert.NotEmpty(t, resp.Message)
	assert.NotEmpty(t, resp.Suggestion)
}

func TestLogin_NoIdentifier(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/login", handlers.LoginRequest{})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestGoogleSignIn_Success(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		GoogleSignInFunc: func(ctx context.Context, rawToken string) (*services.AuthResponse, error) {
			return &services.AuthResponse{
				Token: "token123",
				User:  &services.UserResponse{ID: "user123", GoogleID: "google-sub-42"},
			}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/google", handlers.GoogleSignInRequest{
		Token: "raw-identity-token",
	})

	w := httptest.NewRecorder()
	handler.GoogleSignIn(w, req)

	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "token123", resp.Token)
}

func TestGoogleSignIn_InvalidToken(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/google", handlers.GoogleSignInRequest{
		Token: "garbage",
	})

	w := httptest.NewRecorder()
	handler.GoogleSignIn(w, req)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	handlers.AssertJSONResponse(t, w, 400, &resp)
	assert.False(t, resp.Success)
	assert.Equal(t, "identity_token_invalid", resp.Error)
}

func TestGoogleSignIn_NotConfigured(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		GoogleSignInFunc: func(ctx context.Context, rawToken string) (*services.AuthResponse, error) {
			return nil, models.ErrIdentityProviderNotConfigured
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/google", handlers.GoogleSignInRequest{
		Token: "raw-identity-token",
	})

	w := httptest.NewRecorder()
	handler.GoogleSignIn(w, req)

	var resp struct {
		Success bool `json:"success"`
	}
	handlers.AssertJSONResponse(t, w, 500, &resp)
	assert.False(t, resp.Success)
}

func TestForgotPassword_AlwaysGenericSuccess(t *testing.T) {
	// The service already absorbs the known/unknown distinction; the
	// handler must answer with the same success shape either way.
	mockAuth := &handlers.MockAuthService{
		ForgotPasswordFunc: func(ctx context.Context, email string) error {
			return nil
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/forgot-password", handlers.ForgotPasswordRequest{
		Email: "any@example.com",
	})

	w := httptest.NewRecorder()
	handler.ForgotPassword(w, req)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
}

func TestResetPassword_Success(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		ResetPasswordFunc: func(ctx context.Context, code, newPassword string) error {
			assert.Equal(t, "042137", code)
			return nil
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/reset-password", handlers.ResetPasswordRequest{
		Code:     "042137",
		Password: "nova-senha-segura",
	})

	w := httptest.NewRecorder()
	handler.ResetPassword(w, req)

	var resp struct {
		Success bool `json:"success"`
	}
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.True(t, resp.Success)
}

func TestResetPassword_InvalidCode(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/reset-password", handlers.ResetPasswordRequest{
		Code:     "999999",
		Password: "nova-senha-segura",
	})

	w := httptest.NewRecorder()
	handler.ResetPassword(w, req)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	handlers.AssertJSONResponse(t, w, 400, &resp)
	assert.False(t, resp.Success)
}

func TestResetPassword_MalformedCode(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/reset-password", handlers.ResetPasswordRequest{
		Code:     "12ab56",
		Password: "nova-senha-segura",
	})

	w := httptest.NewRecorder()
	handler.ResetPassword(w, req)

	var resp struct {
		Success bool `json:"success"`
	}
	handlers.AssertJSONResponse(t, w, 400, &resp)
	assert.False(t, resp.Success)
}

func TestMe_Success(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		MeFunc: func(ctx context.Context, userID string) (*services.ProfileResponse, error) {
			assert.Equal(t, "user123", userID)
			return &services.ProfileResponse{
				User:      &services.UserResponse{ID: "user123", Nome: "Ana Silva"},
				Enviadas:  []*services.ServicoResponse{},
				Recebidas: []*services.ServicoResponse{},
			}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "GET", "/auth/me", nil)
	req = handlers.WithAuthContext(req, "user123", "ana@example.com", models.RoleCliente)

	w := httptest.NewRecorder()
	handler.Me(w, req)

	var resp services.ProfileResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "user123", resp.User.ID)
}

func TestMe_NoClaims(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "GET", "/auth/me", nil)

	w := httptest.NewRecorder()
	handler.Me(w, req)

	handlers.AssertErrorResponse(t, w, 401, "unauthorized")
}

func TestMe_BackingRecordGone(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "GET", "/auth/me", nil)
	req = handlers.WithAuthContext(req, "user123", "ana@example.com", models.RoleCliente)

	w := httptest.NewRecorder()
	handler.Me(w, req)

	handlers.AssertErrorResponse(t, w, 404, "not_found")
}

func TestRefresh_Success(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		RefreshFunc: func(ctx context.Context, userID string) (*services.AuthResponse, error) {
			return &services.AuthResponse{
				Token: "fresh-token",
				User:  &services.UserResponse{ID: "user123"},
			}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/refresh", nil)
	req = handlers.WithAuthContext(req, "user123", "ana@example.com", models.RoleCliente)

	w := httptest.NewRecorder()
	handler.Refresh(w, req)

	var resp struct {
		Token string `json:"token"`
	}
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "fresh-token", resp.Token)
}

func TestLogout_Acknowledges(t *testing.T) {
	var loggedOut string
	mockAuth := &handlers.MockAuthService{
		LogoutFunc: func(ctx context.Context, userID string) {
			loggedOut = userID
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/logout", nil)
	req = handlers.WithAuthContext(req, "user123", "ana@example.com", models.RoleCliente)

	w := httptest.NewRecorder()
	handler.Logout(w, req)

	var resp map[string]string
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.NotEmpty(t, resp["message"])
	assert.Equal(t, "user123", loggedOut)
}

func TestLogout_NoClaims(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/logout", nil)

	w := httptest.NewRecorder()
	handler.Logout(w, req)

	handlers.AssertErrorResponse(t, w, 401, "unauthorized")
}

func TestRegister_InvalidJSON(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})
	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.Register(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}
