package wire

import (
	"picnify/internal/adaptor"
	"picnify/internal/data/entity"
	"picnify/internal/data/repository"
	"picnify/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures user management routes with role-based access control
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED USER ROUTES ====================
	r.Route("/api/users", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Get("/profile", userHandler.GetProfile)
		r.Put("/profile", userHandler.UpdateProfile)

		// Payout account, owners only
		r.With(middleware.RequireRole(log, entity.RoleOwner)).Get("/bank-details", userHandler.GetBankDetails)
		r.With(middleware.RequireRole(log, entity.RoleOwner)).Put("/bank-details", userHandler.SaveBankDetails)
	})

	// ==================== ADMIN ROUTES ====================
	r.With(
		middleware.AuthSession(repo.Session, log), // Check valid session
		middleware.Admin(log),                     // Check admin role
	).Route("/api/admin/users", func(r chi.Router) {
		r.Get("/", userHandler.GetAllUsers)       // GET /api/admin/users?page=1&per_page=10&role=owner
		r.Delete("/{id}", userHandler.DeleteUser) // DELETE /api/admin/users/{user-id}
	})
}
