package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twendycreate/twendy-api/internal/auth"
	"github.com/twendycreate/twendy-api/internal/models"
	"github.com/twendycreate/twendy-api/internal/services"
	pkghttp "github.com/twendycreate/twendy-api/pkg/http"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds session claims to the request context for testing
// authenticated endpoints.
func WithAuthContext(req *http.Request, userID, email, role string) *http.Request {
	claims := &models.SessionClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, nome, email, bi string) (*services.UserResponse, error)
	LoginFunc          func(ctx context.Context, email, bi string) (*services.AuthResponse, error)
	GoogleSignInFunc   func(ctx context.Context, rawToken string) (*services.AuthResponse, error)
	ForgotPasswordFunc func(ctx context.Context, email string) error
	ResetPasswordFunc  func(ctx context.Context, code, newPassword string) error
	MeFunc             func(ctx context.Context, userID string) (*services.ProfileResponse, error)
	RefreshFunc        func(ctx context.Context, userID string) (*services.AuthResponse, error)
	LogoutFunc         func(ctx context.Context, userID string)
}

func (m *MockAuthService) Register(ctx context.Context, nome, email, bi string) (*services.UserResponse, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.RegisterFunc(ctx, nome, email, bi)
}

func (m *MockAuthService) Login(ctx context.Context, email, bi string) (*services.AuthResponse, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.LoginFunc(ctx, email, bi)
}

func (m *MockAuthService) GoogleSignIn(ctx context.Context, rawToken string) (*services.AuthResponse, error) {
	if m.GoogleSignInFunc == nil {
		return nil, models.ErrIdentityTokenInvalid
	}
	return m.GoogleSignInFunc(ctx, rawToken)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc == nil {
		return nil
	}
	return m.ForgotPasswordFunc(ctx, email)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, code, newPassword string) error {
	if m.ResetPasswordFunc == nil {
		return models.ErrInvalidOrExpiredCode
	}
	return m.ResetPasswordFunc(ctx, code, newPassword)
}

func (m *MockAuthService) Me(ctx context.Context, userID string) (*services.ProfileResponse, error) {
	if m.MeFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.MeFunc(ctx, userID)
}

func (m *MockAuthService) Refresh(ctx context.Context, userID string) (*services.AuthResponse, error) {
	if m.RefreshFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.RefreshFunc(ctx, userID)
}

func (m *MockAuthService) Logout(ctx context.Context, userID string) {
	if m.LogoutFunc != nil {
		m.LogoutFunc(ctx, userID)
	}
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	ListFunc   func(ctx context.Context, limit, offset int) ([]*services.UserResponse, error)
	GetFunc    func(ctx context.Context, id string) (*services.UserResponse, error)
	UpdateFunc func(ctx context.Context, id, nome, role string) (*services.UserResponse, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *MockUserService) List(ctx context.Context, limit, offset int) ([]*services.UserResponse, error) {
	if m.ListFunc == nil {
		return []*services.UserResponse{}, nil
	}
	return m.ListFunc(ctx, limit, offset)
}

func (m *MockUserService) Get(ctx context.Context, id string) (*services.UserResponse, error) {
	if m.GetFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetFunc(ctx, id)
}

func (m *MockUserService) Update(ctx context.Context, id, nome, role string) (*services.UserResponse, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, id, nome, role)
}

func (m *MockUserService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, id)
}

// MockServicoService implements ServicoServiceInterface for testing
type MockServicoService struct {
	ListFunc   func(ctx context.Context, limit, offset int) ([]*services.ServicoResponse, error)
	GetFunc    func(ctx context.Context, id string) (*services.ServicoResponse, error)
	CreateFunc func(ctx context.Context, titulo, descricao, remetenteID, destinatarioID string, preco *float64) (*services.ServicoResponse, error)
	UpdateFunc func(ctx context.Context, id, titulo, descricao, estado string, preco *float64) (*services.ServicoResponse, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *MockServicoService) List(ctx context.Context, limit, offset int) ([]*services.ServicoResponse, error) {
	if m.ListFunc == nil {
		return []*services.ServicoResponse{}, nil
	}
	return m.ListFunc(ctx, limit, offset)
}

func (m *MockServicoService) Get(ctx context.Context, id string) (*services.ServicoResponse, error) {
	if m.GetFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetFunc(ctx, id)
}

func (m *MockServicoService) Create(ctx context.Context, titulo, descricao, remetenteID, destinatarioID string, preco *float64) (*services.ServicoResponse, error) {
	if m.CreateFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateFunc(ctx, titulo, descricao, remetenteID, destinatarioID, preco)
}

func (m *MockServicoService) Update(ctx context.Context, id, titulo, descricao, estado string, preco *float64) (*services.ServicoResponse, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, id, titulo, descricao, estado, preco)
}

func (m *MockServicoService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, id)
}
