package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/transport/middleware"
	"github.com/frahmantamala/leave-management/internal/transport/swagger"
	"github.com/frahmantamala/leave-management/internal/user"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, rbac *auth.RBACAuthorization, userHandler *user.Handler, leaveHandler *leave.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve the OpenAPI spec and Swagger UI at root
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/register", authHandler.Register)
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/forgot-password", authHandler.ForgotPassword)
				sr.Post("/reset-password", authHandler.ResetPassword)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// Current user
				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)
				}

				// Leave routes
				if leaveHandler != nil {
					pr.Route("/leaves", func(lr chi.Router) {
						lr.Post("/", leaveHandler.ApplyLeave)
						lr.Get("/my-leaves", leaveHandler.GetMyLeaves)

						// Admin routes
						lr.Group(func(ar chi.Router) {
							ar.Use(rbac.RequireAdmin())
							ar.Get("/all", leaveHandler.GetAllLeaves)
							ar.Get("/stats", leaveHandler.GetLeaveStats)
							ar.Put("/{id}", leaveHandler.ReviewLeave)
						})

						// Owner-or-admin routes; the service decides
						lr.Get("/{id}", leaveHandler.GetLeave)
						lr.Delete("/{id}", leaveHandler.DeleteLeave)
					})
				}
			})
		}
	})
}
