package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/twendycreate/twendy-api/internal/auth"
	"github.com/twendycreate/twendy-api/internal/handlers"
	"github.com/twendycreate/twendy-api/internal/middleware"
	"github.com/twendycreate/twendy-api/internal/models"
	"github.com/twendycreate/twendy-api/internal/repositories"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	servicoHandler *handlers.ServicoHandler,
	tokenManager *auth.TokenManager,
	userRepo *repositories.UserRepository,
) {
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public auth routes, rate limited per IP
	router.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(rateLimitConfig))
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/google", authHandler.GoogleSignIn)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		// Session-bound auth routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokenManager))
			r.Get("/me", authHandler.Me)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})
	})

	// Protected resources
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager))

		r.Get("/usuarios", userHandler.List)
		r.Get("/usuarios/{id}", userHandler.Get)
		r.Put("/usuarios/{id}", userHandler.Update)

		r.Get("/servicos", servicoHandler.List)
		r.Get("/servicos/{id}", servicoHandler.Get)
		r.Post("/servicos", servicoHandler.Create)
		r.Put("/servicos/{id}", servicoHandler.Update)
		r.Delete("/servicos/{id}", servicoHandler.Delete)

		// Admin-only routes. Role is read from the live record, not the
		// token, so demotions take effect immediately.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(userRepo, models.RoleAdmin))
			r.Delete("/usuarios/{id}", userHandler.Delete)
		})
	})
}
