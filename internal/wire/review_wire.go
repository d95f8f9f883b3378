package wire

import (
	"picnify/internal/adaptor"
	"picnify/internal/data/entity"
	"picnify/internal/data/repository"
	"picnify/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/properties/{id}/reviews - reviews with rating stats
	r.Get("/api/properties/{id}/reviews", reviewHandler.GetPropertyReviews)

	// ==================== PROTECTED ROUTES ====================
	r.With(
		middleware.AuthSession(repo.Session, log),
		middleware.RequireRole(log, entity.RoleCustomer),
	).Post("/api/reviews", reviewHandler.CreateReview)
}
