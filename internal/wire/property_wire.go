package wire

import (
	"picnify/internal/adaptor"
	"picnify/internal/data/entity"
	"picnify/internal/data/repository"
	"picnify/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireProperty(
	r chi.Router,
	propertyHandler *adaptor.PropertyHandler,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/properties?city=&property_type=&page=&per_page=
	r.Get("/api/properties", propertyHandler.GetProperties)
	r.Get("/api/properties/{id}", propertyHandler.GetPropertyByID)

	// ==================== OWNER ROUTES ====================
	r.Route("/api/owner/properties", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(log, entity.RoleOwner, entity.RoleAdmin))

		r.Get("/", propertyHandler.GetMyProperties)
		r.Post("/", propertyHandler.CreateProperty)
		r.Put("/{id}", propertyHandler.UpdateProperty)
		r.Delete("/{id}", propertyHandler.DeleteProperty)

		// Bookings made against one of the owner's listings
		r.Get("/{id}/bookings", bookingHandler.GetPropertyBookings)
	})
}
