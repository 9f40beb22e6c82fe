package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/bookshare/internal/auth"
	"github.com/BradenHooton/bookshare/internal/handlers"
	"github.com/BradenHooton/bookshare/internal/middleware"
	pkghttp "github.com/BradenHooton/bookshare/pkg/http"
)

// HealthChecker pings the backing store
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies bundles everything RegisterRoutes wires together
type Dependencies struct {
	AuthHandler    *handlers.AuthHandler
	CardHandler    *handlers.CardHandler
	ProfileHandler *handlers.ProfileHandler
	AdminHandler   *handlers.AdminHandler
	TokenManager   *auth.TokenManager
	Users          auth.UserRepository
	Health         HealthChecker
	RateLimit      middleware.RateLimitConfig
	Logger         *slog.Logger
}

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, deps Dependencies) {
	router.Get("/health", healthHandler(deps.Health))

	router.Route("/api", func(api chi.Router) {
		api.Use(middleware.RateLimitByIP(deps.RateLimit))

		// Public routes - no authentication required
		api.Post("/auth/login", deps.AuthHandler.Login)
		api.Post("/auth/register", deps.AuthHandler.Register)

		// Protected routes - authentication required
		api.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware(deps.TokenManager, deps.Users, deps.Logger))

			r.Get("/auth/check", deps.AuthHandler.Check)

			r.Route("/books", func(r chi.Router) {
				r.Get("/", deps.CardHandler.ListPublished)
				r.Post("/", deps.CardHandler.Create)
				r.Get("/{id}", deps.CardHandler.Get)
				r.Put("/{id}", deps.CardHandler.Update)
				r.Delete("/{id}", deps.CardHandler.Delete)
				r.Put("/{id}/archive", deps.CardHandler.Archive)
			})

			r.Get("/profile", deps.ProfileHandler.GetProfile)
			r.Get("/profile/cards", deps.ProfileHandler.ListCards)
			r.Put("/profile/cards/{id}/archive", deps.CardHandler.Archive)

			// Admin-only routes
			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Get("/users", deps.AdminHandler.ListUsers)
				r.Put("/users/{id}/ban", deps.AdminHandler.BanUser)
				r.Put("/users/{id}/unban", deps.AdminHandler.UnbanUser)
				r.Get("/cards/moderation", deps.AdminHandler.ListModeration)
				r.Put("/cards/{id}/approve", deps.AdminHandler.ApproveCard)
				r.Put("/cards/{id}/reject", deps.AdminHandler.RejectCard)
				r.Put("/cards/{id}/delete", deps.AdminHandler.DeleteCard)
			})
		})
	})
}

func healthHandler(db HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			pkghttp.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": "down"})
			return
		}
		pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy", "database": "up"})
	}
}
