package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/twendycreate/twendy-api/internal/auth"
	"github.com/twendycreate/twendy-api/internal/handlers"
	middlewareCustom "github.com/twendycreate/twendy-api/internal/middleware"
	"github.com/twendycreate/twendy-api/internal/models"
	"github.com/twendycreate/twendy-api/internal/repositories"
	"github.com/twendycreate/twendy-api/internal/routes"
	"github.com/twendycreate/twendy-api/internal/services"
	pkglogger "github.com/twendycreate/twendy-api/pkg/logger"
)

const testJWTSecret = "integration-secret-32-chars-long"

// CapturingNotifier records reset codes instead of sending email
type CapturingNotifier struct {
	mu    sync.Mutex
	codes map[string]string // email -> last code
}

func NewCapturingNotifier() *CapturingNotifier {
	return &CapturingNotifier{codes: make(map[string]string)}
}

func (n *CapturingNotifier) SendResetCode(ctx context.Context, to, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes[to] = code
	return nil
}

// LastCode returns the most recent code captured for an address
func (n *CapturingNotifier) LastCode(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[email]
}

// StubIdentityVerifier lets tests script Google token verification
type StubIdentityVerifier struct {
	VerifyFunc func(ctx context.Context, rawToken string) (*models.IdentityClaims, error)
}

func (s *StubIdentityVerifier) Verify(ctx context.Context, rawToken string) (*models.IdentityClaims, error) {
	if s.VerifyFunc != nil {
		return s.VerifyFunc(ctx, rawToken)
	}
	return nil, models.ErrIdentityTokenInvalid
}

// TestServer wraps httptest.Server with a real database and captured email
type TestServer struct {
	Server          *httptest.Server
	Notifier        *CapturingNotifier
	Google          *StubIdentityVerifier
	UserRepo        *repositories.UserRepository
	FuncionarioRepo *repositories.FuncionarioRepository
}

// NewTestServer assembles the full router over a real database, with the
// notifier and identity verifier replaced by test doubles.
func NewTestServer(db *TestDB) *TestServer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auditLogger := pkglogger.NewAuditLogger(logger)

	userRepo := repositories.NewUserRepository(db.DB)
	servicoRepo := repositories.NewServicoRepository(db.DB)
	funcionarioRepo := repositories.NewFuncionarioRepository(db.DB)

	tokenManager := auth.NewTokenManager(testJWTSecret, time.Hour)
	notifier := NewCapturingNotifier()
	google := &StubIdentityVerifier{}

	authService := services.NewAuthService(
		userRepo,
		servicoRepo,
		funcionarioRepo,
		tokenManager,
		google,
		notifier,
		7*24*time.Hour,
		5*time.Second,
		logger,
		auditLogger,
	)
	userService := services.NewUserService(userRepo, logger, auditLogger)
	servicoService := services.NewServicoService(servicoRepo, userRepo, logger)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	servicoHandler := handlers.NewServicoHandler(servicoService)

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(chiMiddleware.Recoverer)

	routes.RegisterRoutes(router, authHandler, userHandler, servicoHandler, tokenManager, userRepo)

	return &TestServer{
		Server:          httptest.NewServer(router),
		Notifier:        notifier,
		Google:          google,
		UserRepo:        userRepo,
		FuncionarioRepo: funcionarioRepo,
	}
}

// Close shuts the test server down
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// PostJSON sends a JSON POST and decodes the JSON response into out
func (ts *TestServer) PostJSON(path string, body any, bearer string, out any) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	return ts.do(req, out)
}

// GetJSON sends a GET and decodes the JSON response into out
func (ts *TestServer) GetJSON(path, bearer string, out any) (int, error) {
	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+path, nil)
	if err != nil {
		return 0, err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	return ts.do(req, out)
}

func (ts *TestServer) do(req *http.Request, out any) (int, error) {
	resp, err := ts.Server.Client().Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, out); err != nil {
				return resp.StatusCode, fmt.Errorf("decode response %q: %w", raw, err)
			}
		}
	}

	return resp.StatusCode, nil
}
