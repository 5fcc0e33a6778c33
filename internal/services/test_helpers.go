package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/twendycreate/twendy-api/internal/models"
	pkglogger "github.com/twendycreate/twendy-api/pkg/logger"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc          func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc       func(ctx context.Context, email string) (*models.User, error)
	GetByBIFunc          func(ctx context.Context, bi string) (*models.User, error)
	GetByGoogleIDFunc    func(ctx context.Context, googleID string) (*models.User, error)
	ListFunc             func(ctx context.Context, limit, offset int) ([]*models.User, error)
	CreateFunc           func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc           func(ctx context.Context, id string, user *models.User) (*models.User, error)
	SetGoogleIDFunc      func(ctx context.Context, id, googleID string) (*models.User, error)
	SetResetCodeFunc     func(ctx context.Context, id, code string, expiresAt time.Time) error
	ConsumeResetCodeFunc func(ctx context.Context, code, passwordHash string, now time.Time) (*models.User, error)
	DeleteFunc           func(ctx context.Context, id string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByBI(ctx context.Context, bi string) (*models.User, error) {
	if m.GetByBIFunc != nil {
		return m.GetByBIFunc(ctx, bi)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	if m.GetByGoogleIDFunc != nil {
		return m.GetByGoogleIDFunc(ctx, googleID)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) SetGoogleID(ctx context.Context, id, googleID string) (*models.User, error) {
	if m.SetGoogleIDFunc != nil {
		return m.SetGoogleIDFunc(ctx, id, googleID)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	if m.SetResetCodeFunc != nil {
		return m.SetResetCodeFunc(ctx, id, code, expiresAt)
	}
	return nil
}

func (m *MockUserRepository) ConsumeResetCode(ctx context.Context, code, passwordHash string, now time.Time) (*models.User, error) {
	if m.ConsumeResetCodeFunc != nil {
		return m.ConsumeResetCodeFunc(ctx, code, passwordHash, now)
	}
	return nil, models.ErrInvalidOrExpiredCode
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockServicoRepository implements ServicoRepository for testing
type MockServicoRepository struct {
	GetByIDFunc            func(ctx context.Context, id string) (*models.Servico, error)
	ListFunc               func(ctx context.Context, limit, offset int) ([]*models.Servico, error)
	ListSentByUserFunc     func(ctx context.Context, userID string, limit int) ([]*models.Servico, error)
	ListReceivedByUserFunc func(ctx context.Context, userID string, limit int) ([]*models.Servico, error)
	CreateFunc             func(ctx context.Context, servico *models.Servico) (*models.Servico, error)
	UpdateFunc             func(ctx context.Context, id string, servico *models.Servico) (*models.Servico, error)
	DeleteFunc             func(ctx context.Context, id string) error
}

func (m *MockServicoRepository) GetByID(ctx context.Context, id string) (*models.Servico, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockServicoRepository) List(ctx context.Context, limit, offset int) ([]*models.Servico, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.Servico{}, nil
}

func (m *MockServicoRepository) ListSentByUser(ctx context.Context, userID string, limit int) ([]*models.Servico, error) {
	if m.ListSentByUserFunc != nil {
		return m.ListSentByUserFunc(ctx, userID, limit)
	}
	return []*models.Servico{}, nil
}

func (m *MockServicoRepository) ListReceivedByUser(ctx context.Context, userID string, limit int) ([]*models.Servico, error) {
	if m.ListReceivedByUserFunc != nil {
		return m.ListReceivedByUserFunc(ctx, userID, limit)
	}
	return []*models.Servico{}, nil
}

func (m *MockServicoRepository) Create(ctx context.Context, servico *models.Servico) (*models.Servico, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, servico)
	}
	return nil, models.ErrInternalServer
}

func (m *MockServicoRepository) Update(ctx context.Context, id string, servico *models.Servico) (*models.Servico, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, servico)
	}
	return nil, models.ErrInternalServer
}

func (m *MockServicoRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockFuncionarioRepository implements FuncionarioGetter for testing
type MockFuncionarioRepository struct {
	GetByUserIDFunc func(ctx context.Context, userID string) (*models.Funcionario, error)
}

func (m *MockFuncionarioRepository) GetByUserID(ctx context.Context, userID string) (*models.Funcionario, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, models.ErrNotFound
}

// MockNotifier implements Notifier for testing
type MockNotifier struct {
	SendResetCodeFunc func(ctx context.Context, to, code string) error
}

func (m *MockNotifier) SendResetCode(ctx context.Context, to, code string) error {
	if m.SendResetCodeFunc != nil {
		return m.SendResetCodeFunc(ctx, to, code)
	}
	return nil
}

// MockIdentityVerifier implements auth.IdentityVerifier for testing
type MockIdentityVerifier struct {
	VerifyFunc func(ctx context.Context, rawToken string) (*models.IdentityClaims, error)
}

func (m *MockIdentityVerifier) Verify(ctx context.Context, rawToken string) (*models.IdentityClaims, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, rawToken)
	}
	return nil, models.ErrIdentityTokenInvalid
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAuditLogger() *pkglogger.AuditLogger {
	return pkglogger.NewAuditLogger(testLogger())
}
