package wire

import (
	"picnify/internal/adaptor"
	"picnify/internal/data/repository"
	"picnify/pkg/middleware"
	"picnify/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	limiter *middleware.RateLimiter,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	// Role checks that depend on the booking itself happen in the service
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Post("/", bookingHandler.CreateBooking)
		r.Get("/", bookingHandler.GetMyBookings)
		r.Get("/{id}", bookingHandler.GetBookingByID)

		r.Post("/{id}/payment", bookingHandler.ConfirmPayment)

		// Cancellation: quote first, then confirm
		r.Get("/{id}/cancellation-quote", bookingHandler.QuoteCancellation)
		r.With(limiter.Limit("cancel", config.RateLimit.Cancel)).Post("/{id}/cancel", bookingHandler.CancelBooking)
		r.Get("/{id}/audit", bookingHandler.GetAuditTrail)
	})
}
