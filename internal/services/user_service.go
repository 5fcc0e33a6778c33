package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/twendycreate/twendy-api/internal/models"
	pkglogger "github.com/twendycreate/twendy-api/pkg/logger"
)

// UserRepository is the persistence surface the services depend on.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByBI(ctx context.Context, bi string) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
	SetGoogleID(ctx context.Context, id, googleID string) (*models.User, error)
	SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error
	ConsumeResetCode(ctx context.Context, code, passwordHash string, now time.Time) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// UserService implements the usuarios management operations.
type UserService struct {
	repo        UserRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *UserService {
	return &UserService{
		repo:        repo,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// List returns a page of users.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*UserResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userModelToResponse(u))
	}
	return out, nil
}

// Get returns a single user by id.
func (s *UserService) Get(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return userModelToResponse(user), nil
}

// Update changes the mutable profile fields (nome, role). Email and BI are
// identifiers and never change through this path.
func (s *UserService) Update(ctx context.Context, id, nome, role string) (*UserResponse, error) {
	nome = strings.TrimSpace(nome)
	if role != "" && !models.ValidRole(role) {
		return nil, models.ErrBadRequest
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user for update", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if nome == "" {
		nome = existing.Nome
	}
	if role == "" {
		role = existing.Role
	}

	updated, err := s.repo.Update(ctx, id, &models.User{Nome: nome, Role: role})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAccountAction("user_updated", id, map[string]string{"role": updated.Role})
	return userModelToResponse(updated), nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete user", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.auditLogger.LogAccountAction("user_deleted", id, nil)
	return nil
}
