package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twendycreate/twendy-api/internal/auth"
	"github.com/twendycreate/twendy-api/internal/models"
	pkgauth "github.com/twendycreate/twendy-api/pkg/auth"
	pkglogger "github.com/twendycreate/twendy-api/pkg/logger"
)

const (
	// recentItemsLimit bounds the sent/received lists on the profile.
	recentItemsLimit = 10

	// maxResetCodeAttempts bounds regeneration when a fresh code collides
	// with another user's pending code.
	maxResetCodeAttempts = 5
)

// AuthService orchestrates the authentication and credential-lifecycle
// flows: register, login, Google sign-in, forgot/reset password, me,
// refresh and logout.
type AuthService struct {
	repo            UserRepository
	servicoRepo     ServicoLister
	funcionarioRepo FuncionarioGetter
	tm              *auth.TokenManager
	google          auth.IdentityVerifier // nil when Google sign-in is disabled
	notifier        Notifier
	googleTTL       time.Duration
	sendTimeout     time.Duration
	logger          *slog.Logger
	auditLogger     *pkglogger.AuditLogger
}

// ServicoLister is the slice of the servico repository the profile needs.
type ServicoLister interface {
	ListSentByUser(ctx context.Context, userID string, limit int) ([]*models.Servico, error)
	ListReceivedByUser(ctx context.Context, userID string, limit int) ([]*models.Servico, error)
}

// FuncionarioGetter resolves the employment sub-record for a user.
type FuncionarioGetter interface {
	GetByUserID(ctx context.Context, userID string) (*models.Funcionario, error)
}

// NewAuthService creates a new AuthService. Pass a nil google verifier to
// disable Google sign-in.
func NewAuthService(
	repo UserRepository,
	servicoRepo ServicoLister,
	funcionarioRepo FuncionarioGetter,
	tm *auth.TokenManager,
	google auth.IdentityVerifier,
	notifier Notifier,
	googleTTL time.Duration,
	sendTimeout time.Duration,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AuthService {
	return &AuthService{
		repo:            repo,
		servicoRepo:     servicoRepo,
		funcionarioRepo: funcionarioRepo,
		tm:              tm,
		google:          google,
		notifier:        notifier,
		googleTTL:       googleTTL,
		sendTimeout:     sendTimeout,
		logger:          logger,
		auditLogger:     auditLogger,
	}
}

// UserResponse is the public profile shape returned by auth operations.
type UserResponse struct {
	ID        string `json:"id"`
	Nome      string `json:"nome"`
	Email     string `json:"email"`
	BI        string `json:"bi"`
	Role      string `json:"role"`
	GoogleID  string `json:"google_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

// AuthResponse carries a session token plus the public profile.
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ServicoResponse is the servico shape embedded in the profile.
type ServicoResponse struct {
	ID             string   `json:"id"`
	Titulo         string   `json:"titulo"`
	Descricao      string   `json:"descricao"`
	RemetenteID    string   `json:"remetente_id"`
	DestinatarioID string   `json:"destinatario_id"`
	Estado         string   `json:"estado"`
	Preco          *float64 `json:"preco,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

// FuncionarioResponse is the employment sub-record shape.
type FuncionarioResponse struct {
	ID           string `json:"id"`
	Cargo        string `json:"cargo"`
	DataAdmissao string `json:"data_admissao"`
}

// ProfileResponse is the /me payload: profile plus recent activity.
type ProfileResponse struct {
	User        *UserResponse        `json:"user"`
	Enviadas    []*ServicoResponse   `json:"enviadas"`
	Recebidas   []*ServicoResponse   `json:"recebidas"`
	Funcionario *FuncionarioResponse `json:"funcionario,omitempty"`
}

// Register creates a new CLIENTE account. No password is collected at
// registration; one is only set later through the reset flow.
func (s *AuthService) Register(ctx context.Context, nome, email, bi string) (*UserResponse, error) {
	nome = strings.TrimSpace(nome)
	email = strings.ToLower(strings.TrimSpace(email))
	bi = strings.TrimSpace(bi)

	user := &models.User{
		Nome:  nome,
		Email: email,
		BI:    bi,
		Role:  models.RoleCliente,
	}

	createdUser, err := s.repo.Create(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmailInUse), errors.Is(err, models.ErrBIInUse):
			s.logger.Info("registration conflict",
				slog.String("email", pkglogger.SanitizedEmail(email)))
			return nil, err
		default:
			s.logger.Error("failed to create user", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
	}

	s.logger.Info("user registered", slog.String("user_id", createdUser.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "register_success",
		UserID:    createdUser.ID,
		Provider:  "local",
		Success:   true,
	})

	return userModelToResponse(createdUser), nil
}

// Login resolves a user by email or BI and issues a session token. Possession
// of a registered identifier is the whole credential; no password is checked.
func (s *AuthService) Login(ctx context.Context, email, bi string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	bi = strings.TrimSpace(bi)

	var (
		user *models.User
		err  error
	)
	switch {
	case email != "":
		user, err = s.repo.GetByEmail(ctx, email)
	case bi != "":
		user, err = s.repo.GetByBI(ctx, bi)
	default:
		return nil, models.ErrNotFound
	}

	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			identifier := slog.String("email", pkglogger.SanitizedEmail(email))
			if email == "" {
				identifier = slog.String("bi", pkglogger.SanitizedBI(bi))
			}
			s.logger.Info("login failed: user not found", identifier)
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				Provider:      "local",
				FailureReason: "user_not_found",
				Success:       false,
			})
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to look up user for login", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, err := s.tm.Issue(user, 0)
	if err != nil {
		s.logger.Error("failed to issue session token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		UserID:    user.ID,
		Provider:  "local",
		Success:   true,
	})

	return &AuthResponse{
		Token: token,
		User:  userModelToResponse(user),
	}, nil
}

// GoogleSignIn verifies a Google identity token and signs the user in,
// provisioning an account on first contact and backfilling the external id
// when the email already belongs to a local account.
func (s *AuthService) GoogleSignIn(ctx context.Context, rawToken string) (*AuthResponse, error) {
	if s.google == nil {
		return nil, models.ErrIdentityProviderNotConfigured
	}

	claims, err := s.google.Verify(ctx, rawToken)
	if err != nil {
		s.logger.Info("identity token rejected", slog.Any("error", err))
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "google_signin_failed",
			Provider:      "google",
			FailureReason: "identity_token_invalid",
			Success:       false,
		})
		return nil, models.ErrIdentityTokenInvalid
	}

	if !claims.EmailVerified || claims.Email == "" {
		s.logger.Info("identity token rejected: email not verified")
		return nil, models.ErrIdentityTokenInvalid
	}

	user, err := s.resolveGoogleUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	token, err := s.tm.Issue(user, s.googleTTL)
	if err != nil {
		s.logger.Error("failed to issue session token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "google_signin_success",
		UserID:    user.ID,
		Provider:  "google",
		Success:   true,
	})

	return &AuthResponse{
		Token: token,
		User:  userModelToResponse(user),
	}, nil
}

// resolveGoogleUser finds or provisions the local account for verified
// Google claims: match by external id first, then by email (backfilling the
// id), then auto-provision.
func (s *AuthService) resolveGoogleUser(ctx context.Context, claims *models.IdentityClaims) (*models.User, error) {
	user, err := s.repo.GetByGoogleID(ctx, claims.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to look up user by google id", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user, err = s.repo.GetByEmail(ctx, claims.Email)
	if err == nil {
		// The email belongs to a local account. Linking is only allowed
		// when no other external identity owns it.
		if user.GoogleID != nil && *user.GoogleID != claims.Subject {
			s.logger.Warn("google sign-in blocked: email owned by a different identity",
				slog.String("user_id", user.ID))
			return nil, models.ErrEmailConflict
		}

		linked, err := s.repo.SetGoogleID(ctx, user.ID, claims.Subject)
		if err != nil {
			s.logger.Error("failed to backfill google id", slog.String("user_id", user.ID), slog.Any("error", err))
			return nil, models.ErrInternalServer
		}

		s.auditLogger.LogAccountAction("google_id_linked", linked.ID, nil)
		return linked, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to look up user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	// First contact: provision a CLIENTE account with a synthetic BI.
	created, err := s.repo.Create(ctx, &models.User{
		Nome:     claims.Name,
		Email:    claims.Email,
		BI:       fmt.Sprintf("GOOGLE_%s", claims.Subject),
		Role:     models.RoleCliente,
		GoogleID: &claims.Subject,
	})
	if err != nil {
		s.logger.Error("failed to provision google user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("google user provisioned", slog.String("user_id", created.ID))
	s.auditLogger.LogAccountAction("google_user_provisioned", created.ID, nil)
	return created, nil
}

// ForgotPassword issues a reset code for the account behind email. The
// outcome is deliberately indistinguishable for unknown addresses so the
// endpoint cannot be used to enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("forgot-password for unknown email",
				slog.String("email", pkglogger.SanitizedEmail(email)))
			return nil
		}
		s.logger.Error("failed to look up user for forgot-password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if user.HasPendingResetCode() {
		s.logger.Info("replacing pending reset code", slog.String("user_id", user.ID))
	}

	code, err := s.issueResetCode(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to issue reset code", slog.String("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.auditLogger.LogCredentialChange("reset_code_issued", user.ID, true)

	// Delivery failures are logged but do not surface: the generic
	// acknowledgment has already been promised to the caller.
	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	if err := s.notifier.SendResetCode(sendCtx, user.Email, code); err != nil {
		s.logger.Error("failed to deliver reset code",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	}

	return nil
}

// issueResetCode persists a fresh code with a 1-hour expiry, regenerating
// when the code collides with another user's pending one.
func (s *AuthService) issueResetCode(ctx context.Context, userID string) (string, error) {
	expiresAt := time.Now().Add(pkgauth.ResetCodeTTL)

	for attempt := 0; attempt < maxResetCodeAttempts; attempt++ {
		code, err := pkgauth.GenerateResetCode()
		if err != nil {
			return "", err
		}

		err = s.repo.SetResetCode(ctx, userID, code, expiresAt)
		if err == nil {
			return code, nil
		}
		if errors.Is(err, models.ErrConflict) {
			continue
		}
		return "", err
	}

	return "", fmt.Errorf("could not find an unused reset code after %d attempts", maxResetCodeAttempts)
}

// ResetPassword consumes a pending reset code and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, code, newPassword string) error {
	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %s", models.ErrBadRequest, err)
	}

	hash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash new password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	user, err := s.repo.ConsumeResetCode(ctx, code, hash, time.Now())
	if err != nil {
		if errors.Is(err, models.ErrInvalidOrExpiredCode) {
			s.logger.Info("reset-password rejected: invalid or expired code")
			s.auditLogger.LogCredentialChange("password_reset", "", false)
			return models.ErrInvalidOrExpiredCode
		}
		s.logger.Error("failed to consume reset code", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("password reset", slog.String("user_id", user.ID))
	s.auditLogger.LogCredentialChange("password_reset", user.ID, true)
	return nil
}

// Me returns the current profile with the ten most recent sent and received
// servicos and the employment sub-record when one exists.
func (s *AuthService) Me(ctx context.Context, userID string) (*ProfileResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Token is valid but the backing record is gone.
			s.logger.Info("profile request for missing user", slog.String("user_id", userID))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	enviadas, err := s.servicoRepo.ListSentByUser(ctx, userID, recentItemsLimit)
	if err != nil {
		s.logger.Error("failed to list sent servicos", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	recebidas, err := s.servicoRepo.ListReceivedByUser(ctx, userID, recentItemsLimit)
	if err != nil {
		s.logger.Error("failed to list received servicos", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	profile := &ProfileResponse{
		User:      userModelToResponse(user),
		Enviadas:  servicosToResponse(enviadas),
		Recebidas: servicosToResponse(recebidas),
	}

	funcionario, err := s.funcionarioRepo.GetByUserID(ctx, userID)
	if err == nil {
		profile.Funcionario = &FuncionarioResponse{
			ID:           funcionario.ID,
			Cargo:        funcionario.Cargo,
			DataAdmissao: funcionario.DataAdmissao.Format("2006-01-02"),
		}
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to get funcionario record", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return profile, nil
}

// Refresh issues a new session token for the subject of a valid one. Claims
// are rebuilt from the live record, so profile changes propagate.
func (s *AuthService) Refresh(ctx context.Context, userID string) (*AuthResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("refresh for missing user", slog.String("user_id", userID))
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get user for refresh", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, err := s.tm.Issue(user, 0)
	if err != nil {
		s.logger.Error("failed to issue session token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("session refreshed", slog.String("user_id", user.ID))

	return &AuthResponse{
		Token: token,
		User:  userModelToResponse(user),
	}, nil
}

// Logout only audit-logs: the server holds no session state to invalidate.
func (s *AuthService) Logout(ctx context.Context, userID string) {
	s.logger.Info("user logged out", slog.String("user_id", userID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "logout",
		UserID:    userID,
		Success:   true,
	})
}

func userModelToResponse(user *models.User) *UserResponse {
	resp := &UserResponse{
		ID:        user.ID,
		Nome:      user.Nome,
		Email:     user.Email,
		BI:        user.BI,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
	if user.GoogleID != nil {
		resp.GoogleID = *user.GoogleID
	}
	return resp
}

func servicosToResponse(servicos []*models.Servico) []*ServicoResponse {
	out := make([]*ServicoResponse, 0, len(servicos))
	for _, s := range servicos {
		out = append(out, servicoModelToResponse(s))
	}
	return out
}
